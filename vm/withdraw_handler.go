package vm

import (
	"fmt"

	"vesting/derive"
)

// WithdrawIxHandler 领取：受益人把待领取账户里的钱转到自己指定的外部账户。
// 权限仅看签名身份是否等于记录的受益人（单签或多签对这里透明），
// 支持小于待领取余额的部分领取，claimed 随之累加。
type WithdrawIxHandler struct{}

func (h *WithdrawIxHandler) Kind() string {
	return KindWithdraw
}

func (h *WithdrawIxHandler) DryRun(ix *Instruction, sv StateView) ([]WriteOp, *Receipt, error) {
	args := ix.Withdraw
	if args == nil {
		err := fmt.Errorf("%w: missing withdraw args", ErrInvalidParameters)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	value, err := parsePositiveAmountStrict("amount", args.Amount)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	seed, err := derive.ParseSeedKey(args.SeedKey)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	vestingAddr, err := derive.CheckHex(derive.RoleVesting, seed, args.Vesting)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	rec, err := GetVestingRecord(sv, vestingAddr.Hex())
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 仅受益人身份可领取
	if ix.Signer == "" || ix.Signer != rec.Beneficiary.Hex() {
		err = fmt.Errorf("%w: withdraw requires beneficiary %s, got %q", ErrUnauthorized, rec.Beneficiary.Hex(), ix.Signer)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	mintHex := rec.Mint.Hex()
	distAddr, err := checkCustodyAccount(sv, derive.RoleDistribute, seed, args.Distribute, rec.Beneficiary.Hex(), mintHex)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 目的账户是受益人自持的外部账户
	dest, err := derive.ParseAddress(args.Destination)
	if err != nil {
		err = fmt.Errorf("%w: destination: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	// 托管三地址不能当领取目的地，否则资金绕回托管侧破坏守恒口径
	for _, role := range []derive.Role{derive.RoleVesting, derive.RoleVault, derive.RoleDistribute} {
		if dest == derive.MustDerive(role, seed) {
			err = fmt.Errorf("%w: destination %s is the %s custody account", ErrInvalidParameters, dest.Hex(), role)
			return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
		}
	}

	holdingBal, err := GetBalance(sv, distAddr, mintHex)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	// 按当前真实余额做边界检查，而不是任何缓存值
	if amountToBig(value).Cmp(holdingBal) > 0 {
		err = fmt.Errorf("%w: want %d, holding %s", ErrInsufficientUnlocked, value, FormatBalance(holdingBal))
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	ws, err := MoveBalance(sv, distAddr, dest.Hex(), mintHex, amountToBig(value))
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	newClaimed, err := AddU64(rec.Claimed, value)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	rec.Claimed = newClaimed
	ws = append(ws, VestingRecordWriteOp(vestingAddr.Hex(), rec))

	rc := &Receipt{
		IxID:       ix.ID,
		Kind:       h.Kind(),
		Status:     StatusSucceed,
		Moved:      fmt.Sprintf("%d", value),
		WriteCount: len(ws),
		Logs: []string{
			fmt.Sprintf("withdrew %d to %s (claimed total %d)", value, dest.Hex(), newClaimed),
		},
	}
	return ws, rc, nil
}

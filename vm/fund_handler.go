package vm

import (
	"fmt"

	"vesting/derive"
)

// FundIxHandler 入金：从出资方自己的余额向金库划转。
// 只要求出资方对自己余额的签名权，与归属计划状态无关，
// 可多次调用，允许超额（超额部分到期后全额释放，见 schedule.go）。
type FundIxHandler struct{}

func (h *FundIxHandler) Kind() string {
	return KindFund
}

func (h *FundIxHandler) DryRun(ix *Instruction, sv StateView) ([]WriteOp, *Receipt, error) {
	args := ix.Fund
	if args == nil {
		err := fmt.Errorf("%w: missing fund args", ErrInvalidParameters)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	amount, err := parsePositiveAmountStrict("amount", args.Amount)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 出资方即签名身份，花的是自己的余额
	depositor := ix.Signer
	if depositor == "" {
		err = fmt.Errorf("%w: fund requires depositor signature", ErrUnauthorized)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	seed, err := derive.ParseSeedKey(args.SeedKey)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 归属记录必须已存在（由它得知币种）
	vestingAddr := derive.MustDerive(derive.RoleVesting, seed)
	rec, err := GetVestingRecord(sv, vestingAddr.Hex())
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 金库账户：地址、角色、所有者（程序）、币种全部核对
	vaultAddr, err := checkCustodyAccount(sv, derive.RoleVault, seed, args.Vault, derive.ProgramID().Hex(), rec.Mint.Hex())
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	ws, err := MoveBalance(sv, depositor, vaultAddr, rec.Mint.Hex(), amountToBig(amount))
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	rc := &Receipt{
		IxID:       ix.ID,
		Kind:       h.Kind(),
		Status:     StatusSucceed,
		Moved:      fmt.Sprintf("%d", amount),
		WriteCount: len(ws),
		Logs: []string{
			fmt.Sprintf("funded vault %s with %d from %s", vaultAddr, amount, depositor),
		},
	}
	return ws, rc, nil
}

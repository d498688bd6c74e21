package vm

import (
	"fmt"

	"vesting/derive"
	"vesting/keys"
)

// CreateVestingIxHandler 建立归属计划：
// 写入归属记录，初始化金库（程序权限）与待领取账户（受益人权限），两者余额为零。
// 入金不在本指令内发生。
type CreateVestingIxHandler struct{}

func (h *CreateVestingIxHandler) Kind() string {
	return KindCreateVesting
}

func (h *CreateVestingIxHandler) DryRun(ix *Instruction, sv StateView) ([]WriteOp, *Receipt, error) {
	args := ix.Create
	if args == nil {
		err := fmt.Errorf("%w: missing create args", ErrInvalidParameters)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 参数检查
	amount, err := parsePositiveAmountStrict("amount", args.Amount)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	if args.Duration == 0 {
		err = fmt.Errorf("%w: duration must be positive", ErrInvalidParameters)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	if args.Cliff > args.Duration {
		err = fmt.Errorf("%w: cliff %d exceeds duration %d", ErrInvalidParameters, args.Cliff, args.Duration)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	// start + cliff 溢出即后续永远无法解锁，直接拒绝
	if _, err := AddU64(args.Start, args.Cliff); err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	seed, err := derive.ParseSeedKey(args.SeedKey)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	beneficiary, err := derive.ParseAddress(args.Beneficiary)
	if err != nil {
		err = fmt.Errorf("%w: beneficiary: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	mint, err := derive.ParseAddress(args.Mint)
	if err != nil {
		err = fmt.Errorf("%w: mint: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// creator 仅作记录，缺省取签名身份
	creatorHex := args.Creator
	if creatorHex == "" {
		creatorHex = ix.Signer
	}
	creator, err := derive.ParseAddress(creatorHex)
	if err != nil {
		err = fmt.Errorf("%w: creator: %v", ErrInvalidParameters, err)
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 调用方提供的三个账户必须与推导一致
	vestingAddr, err := derive.CheckHex(derive.RoleVesting, seed, args.Vesting)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	vaultAddr, err := derive.CheckHex(derive.RoleVault, seed, args.Vault)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	distAddr, err := derive.CheckHex(derive.RoleDistribute, seed, args.Distribute)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 同一 seed key 只能建一次
	if _, exists, err := sv.Get(keys.KeyVesting(vestingAddr.Hex())); err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	} else if exists {
		err = fmt.Errorf("%w: seed %s", ErrAlreadyExists, seed.Hex())
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	rec := &VestingRecord{
		Beneficiary: beneficiary,
		Mint:        mint,
		SeedKey:     seed,
		Creator:     creator,
		Amount:      amount,
		Claimed:     0,
		Start:       args.Start,
		Cliff:       args.Cliff,
		Duration:    args.Duration,
	}

	mintHex := mint.Hex()
	ws := []WriteOp{
		VestingRecordWriteOp(vestingAddr.Hex(), rec),
		// 金库：程序身份持有转账权限
		AccountMetaWriteOp(&AccountMeta{
			Address: vaultAddr.Hex(),
			Role:    string(derive.RoleVault),
			Owner:   derive.ProgramID().Hex(),
			Mint:    mintHex,
			SeedKey: seed.Hex(),
		}),
		// 待领取账户：受益人直接持有转账权限
		AccountMetaWriteOp(&AccountMeta{
			Address: distAddr.Hex(),
			Role:    string(derive.RoleDistribute),
			Owner:   beneficiary.Hex(),
			Mint:    mintHex,
			SeedKey: seed.Hex(),
		}),
		BalanceWriteOp(vaultAddr.Hex(), mintHex, nil),
		BalanceWriteOp(distAddr.Hex(), mintHex, nil),
	}

	rc := &Receipt{
		IxID:       ix.ID,
		Kind:       h.Kind(),
		Status:     StatusSucceed,
		WriteCount: len(ws),
		Logs: []string{
			fmt.Sprintf("vesting %s created: amount=%d start=%d cliff=%d duration=%d", vestingAddr.Hex(), amount, args.Start, args.Cliff, args.Duration),
		},
	}
	return ws, rc, nil
}

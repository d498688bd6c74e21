package vm

import (
	"fmt"

	"vesting/derive"
)

// UnlockIxHandler 解锁：按时间表把当前可释放数额从金库划入待领取账户。
// 无需权限——只会加速向受益人释放，不可能减少已领取额；
// 可划转数额为 0 时是成功的空操作而非错误（幂等）。
type UnlockIxHandler struct{}

func (h *UnlockIxHandler) Kind() string {
	return KindUnlock
}

func (h *UnlockIxHandler) DryRun(ix *Instruction, sv StateView) ([]WriteOp, *Receipt, error) {
	args := ix.Unlock
	if args == nil {
		err := fmt.Errorf("%w: missing unlock args", ErrInvalidParameters)
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

	mintHex := rec.Mint.Hex()
	vaultAddr, err := checkCustodyAccount(sv, derive.RoleVault, seed, args.Vault, derive.ProgramID().Hex(), mintHex)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	distAddr, err := checkCustodyAccount(sv, derive.RoleDistribute, seed, args.Distribute, rec.Beneficiary.Hex(), mintHex)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	vaultBal, err := GetBalance(sv, vaultAddr, mintHex)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	holdingBal, err := GetBalance(sv, distAddr, mintHex)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// 余额持久化时已限制在 uint64 范围内
	vault := vaultBal.Uint64()
	holding := holdingBal.Uint64()

	total, err := TotalDeposited(vault, holding, rec.Claimed)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	// args.Now 由执行器在指令开始时从时间源填充
	target, err := UnlockTarget(rec.Amount, rec.Start, rec.Cliff, rec.Duration, total, args.Now)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}
	toMove, err := Deliverable(target, vault, holding, rec.Claimed)
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	if toMove == 0 {
		// 没有新的时间或资金进展，空操作
		rc := &Receipt{
			IxID:   ix.ID,
			Kind:   h.Kind(),
			Status: StatusSucceed,
			Moved:  "0",
			Logs: []string{
				fmt.Sprintf("unlock no-op at now=%d: target=%d already_moved=%d", args.Now, target, holding+rec.Claimed),
			},
		}
		return nil, rc, nil
	}

	ws, err := MoveBalance(sv, vaultAddr, distAddr, mintHex, amountToBig(toMove))
	if err != nil {
		return nil, newFailedReceipt(ix.ID, h.Kind(), err), err
	}

	rc := &Receipt{
		IxID:       ix.ID,
		Kind:       h.Kind(),
		Status:     StatusSucceed,
		Moved:      fmt.Sprintf("%d", toMove),
		WriteCount: len(ws),
		Logs: []string{
			fmt.Sprintf("unlocked %d at now=%d (target=%d vault=%d)", toMove, args.Now, target, vault),
		},
	}
	return ws, rc, nil
}

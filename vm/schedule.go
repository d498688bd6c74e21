package vm

import (
	"math/big"
)

// ============================================
// 解锁计算引擎：纯函数，无副作用，任意时刻可调用
// ============================================

// UnlockTarget 计算 now 时刻应当累计解锁的目标数额。
//
//	elapsed < cliff            → 0
//	elapsed >= duration        → totalDeposited（到期后超额部分全部释放）
//	否则                        → amount * elapsed / duration（向下取整，上限 amount）
//
// totalDeposited 是金库+待领取+已领取之和（守恒恒等式），
// 到期前超出 amount 的部分沉淀在金库里不动。
func UnlockTarget(amount, start, cliff, duration, totalDeposited, now uint64) (uint64, error) {
	if duration == 0 {
		return 0, ErrInvalidParameters
	}

	// start + cliff 溢出检查
	cliffEnd, err := AddU64(start, cliff)
	if err != nil {
		return 0, err
	}
	if now < cliffEnd || now < start {
		return 0, nil
	}

	elapsed, err := SubU64(now, start)
	if err != nil {
		return 0, err
	}
	if elapsed >= duration {
		return totalDeposited, nil
	}

	// amount * elapsed 用 big.Int 中间精度，除法前不会截断
	target := new(big.Int).SetUint64(amount)
	target.Mul(target, new(big.Int).SetUint64(elapsed))
	target.Div(target, new(big.Int).SetUint64(duration))

	// elapsed < duration 时商必然小于 amount，这里只是守住上限
	if !target.IsUint64() || target.Uint64() > amount {
		return amount, nil
	}
	return target.Uint64(), nil
}

// Deliverable 计算一次 unlock 实际可划转的数额：
// clamp(target - (holding + claimed), 0, vault)。
// 欠缴时不会试图划走金库里没有的钱；无新进展时重复调用划转 0。
func Deliverable(target, vault, holding, claimed uint64) (uint64, error) {
	alreadyMoved, err := AddU64(holding, claimed)
	if err != nil {
		return 0, err
	}
	if target <= alreadyMoved {
		return 0, nil
	}
	toMove, err := SubU64(target, alreadyMoved)
	if err != nil {
		return 0, err
	}
	if toMove > vault {
		toMove = vault
	}
	return toMove, nil
}

// TotalDeposited 守恒恒等式：vault + holding + claimed = 累计入金总额
func TotalDeposited(vault, holding, claimed uint64) (uint64, error) {
	sum, err := AddU64(vault, holding)
	if err != nil {
		return 0, err
	}
	return AddU64(sum, claimed)
}

package vm

import (
	"fmt"
	"math/big"

	"google.golang.org/protobuf/proto"

	"vesting/keys"
	"vesting/pb"
)

// ============================================
// 余额读写辅助函数
// 使用分离存储模式：v1_balance_{address}_{mint}，值为 protobuf 记录
// ============================================

// GetBalance 获取账户在某币种下的余额
// 如果不存在返回零余额（不返回 error）；存量数据损坏才报错
func GetBalance(sv StateView, addr, mint string) (*big.Int, error) {
	data, exists, err := sv.Get(keys.KeyBalance(addr, mint))
	if err != nil {
		return nil, err
	}
	if !exists || len(data) == 0 {
		return big.NewInt(0), nil
	}

	var record pb.TokenBalanceRecord
	if err := proto.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse balance %s/%s: %w", addr, mint, err)
	}
	return ParseBalance(record.Balance)
}

// BalanceWriteOp 生成余额写入操作
func BalanceWriteOp(addr, mint string, v *big.Int) WriteOp {
	record := &pb.TokenBalanceRecord{
		Address: addr,
		Mint:    mint,
		Balance: FormatBalance(v),
	}
	data, _ := proto.Marshal(record)
	return WriteOp{
		Key:      keys.KeyBalance(addr, mint),
		Value:    data,
		Category: CategoryBalance,
	}
}

// MoveBalance 价值转移原语：从 from 划转 amount 到 to（同一币种）。
// from 余额不足返回错误；写入以写集形式返回，由调用方随指令整体落库。
func MoveBalance(sv StateView, from, to, mint string, amount *big.Int) ([]WriteOp, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid transfer amount")
	}
	if amount.Sign() == 0 {
		return nil, nil
	}
	if from == to {
		return nil, fmt.Errorf("transfer to self not allowed")
	}

	fromBal, err := GetBalance(sv, from, mint)
	if err != nil {
		return nil, err
	}
	newFrom, err := SafeSub(fromBal, amount)
	if err != nil {
		return nil, fmt.Errorf("insufficient balance: %s has %s, need %s", from, FormatBalance(fromBal), FormatBalance(amount))
	}

	toBal, err := GetBalance(sv, to, mint)
	if err != nil {
		return nil, err
	}
	newTo, err := SafeAdd(toBal, amount)
	if err != nil {
		return nil, err
	}

	return []WriteOp{
		BalanceWriteOp(from, mint, newFrom),
		BalanceWriteOp(to, mint, newTo),
	}, nil
}

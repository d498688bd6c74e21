package vm

import (
	"errors"
	"math"
	"math/big"
	"math/bits"
)

// safe_math.go 提供带溢出检查的余额运算
// 所有链上数额都是 64 位无符号整数，余额以十进制字符串持久化

// MaxBalanceStringLen 余额字符串最大长度（20 字符足够表示 2^64-1）
const MaxBalanceStringLen = 20

// MaxUint64Value 64 位无符号整数最大值，用作余额上限
var MaxUint64Value = new(big.Int).SetUint64(math.MaxUint64)

// SafeAdd 安全加法：a + b
// 如果结果超过 MaxUint64Value，返回 ErrArithmeticOverflow
func SafeAdd(a, b *big.Int) (*big.Int, error) {
	if a == nil {
		a = big.NewInt(0)
	}
	if b == nil {
		b = big.NewInt(0)
	}

	// 检查是否有负数
	if a.Sign() < 0 || b.Sign() < 0 {
		return nil, errors.New("negative value not allowed")
	}

	result := new(big.Int).Add(a, b)

	if result.Cmp(MaxUint64Value) > 0 {
		return nil, ErrArithmeticOverflow
	}

	return result, nil
}

// SafeSub 安全减法：a - b
// 如果 a < b，返回 ErrUnderflow
func SafeSub(a, b *big.Int) (*big.Int, error) {
	if a == nil {
		a = big.NewInt(0)
	}
	if b == nil {
		b = big.NewInt(0)
	}

	if a.Sign() < 0 || b.Sign() < 0 {
		return nil, errors.New("negative value not allowed")
	}

	if a.Cmp(b) < 0 {
		return nil, ErrUnderflow
	}

	result := new(big.Int).Sub(a, b)
	return result, nil
}

// AddU64 uint64 加法，溢出返回 ErrArithmeticOverflow
func AddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// SubU64 uint64 减法，下溢返回 ErrUnderflow
func SubU64(a, b uint64) (uint64, error) {
	if a < b {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// ParseBalance 安全解析余额字符串
// 验证：
// 1. 长度不超过 MaxBalanceStringLen (20字符)
// 2. 是有效的十进制数字字符串
// 3. 不超过 MaxUint64Value
func ParseBalance(s string) (*big.Int, error) {
	// 空字符串视为 0
	if s == "" {
		return big.NewInt(0), nil
	}

	if len(s) > MaxBalanceStringLen {
		return nil, ErrBalanceTooLong
	}

	// 检查是否只包含数字（不允许前导负号、空格等）
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, ErrInvalidBalance
		}
	}

	balance, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrInvalidBalance
	}

	if balance.Cmp(MaxUint64Value) > 0 {
		return nil, ErrArithmeticOverflow
	}

	return balance, nil
}

// FormatBalance 余额转十进制字符串
func FormatBalance(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

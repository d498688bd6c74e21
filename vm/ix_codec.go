package vm

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// 指令层数额字段统一以十进制字符串传入，
// 用 decimal 解析以兼容 "10.0" 这类输入（截断为整数前先拒绝小数部分）。

func parseAmountStrict(fieldName, raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", fieldName, err)
	}
	if v.Sign() < 0 {
		return 0, fmt.Errorf("%s must be non-negative", fieldName)
	}
	// 拒绝带小数部分的输入，数额必须是整数
	if v.Exponent() < 0 && !v.Equal(v.Truncate(0)) {
		return 0, fmt.Errorf("%s must be integer, got %s", fieldName, v.String())
	}
	bi := v.BigInt()
	if bi.Cmp(MaxUint64Value) > 0 {
		return 0, ErrArithmeticOverflow
	}
	return bi.Uint64(), nil
}

func parsePositiveAmountStrict(fieldName, raw string) (uint64, error) {
	v, err := parseAmountStrict(fieldName, raw)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("%s must be positive", fieldName)
	}
	return v, nil
}

func amountToBig(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

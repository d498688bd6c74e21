package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 基准计划：start=1000, cliff=20, duration=100, amount=1000
const (
	tAmount   = uint64(1000)
	tStart    = uint64(1000)
	tCliff    = uint64(20)
	tDuration = uint64(100)
)

func target(t *testing.T, totalDeposited, now uint64) uint64 {
	t.Helper()
	got, err := UnlockTarget(tAmount, tStart, tCliff, tDuration, totalDeposited, now)
	require.NoError(t, err)
	return got
}

func TestUnlockTargetLinear(t *testing.T) {
	cases := []struct {
		now  uint64
		want uint64
	}{
		{500, 0},     // 开始之前
		{1000, 0},    // 恰在 start
		{1010, 0},    // 锁定期内
		{1019, 0},    // 锁定期最后一刻
		{1020, 200},  // 锁定期结束，按已过时间线性释放
		{1050, 500},  // 半程
		{1090, 900},
		{1099, 990},
		{1100, 1000}, // 到期
		{1200, 1000}, // 到期之后
	}
	for _, c := range cases {
		assert.Equal(t, c.want, target(t, tAmount, c.now), "now=%d", c.now)
	}
}

func TestUnlockTargetFloorDivision(t *testing.T) {
	// 10 * 33 / 100 = 3.3 → 向下取整
	got, err := UnlockTarget(10, 0, 0, 100, 10, 33)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	// 1 单位在到期前始终取整为 0
	got, err = UnlockTarget(1, 0, 0, 100, 1, 99)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestUnlockTargetOverfunded(t *testing.T) {
	// 超额入金：到期前线性释放仍以 amount 为基数
	assert.Equal(t, uint64(500), target(t, 1500, 1050))
	// 到期后全部存入额释放（含超额红利）
	assert.Equal(t, uint64(1500), target(t, 1500, 1100))
	assert.Equal(t, uint64(1500), target(t, 1500, 9999))
}

func TestUnlockTargetLargeAmountNoOverflow(t *testing.T) {
	// amount * elapsed 超出 uint64，中间精度必须不截断
	amount := uint64(math.MaxUint64)
	got, err := UnlockTarget(amount, 0, 0, 100, amount, 50)
	require.NoError(t, err)
	assert.Equal(t, amount/2, got)
}

func TestUnlockTargetInvalid(t *testing.T) {
	_, err := UnlockTarget(100, 0, 0, 0, 100, 50)
	assert.ErrorIs(t, err, ErrInvalidParameters)

	// start + cliff 溢出
	_, err = UnlockTarget(100, math.MaxUint64, 1, 100, 100, 50)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestUnlockTargetMonotonic(t *testing.T) {
	prev := uint64(0)
	for now := uint64(990); now <= 1210; now++ {
		cur := target(t, 1500, now)
		require.GreaterOrEqual(t, cur, prev, "target regressed at now=%d", now)
		prev = cur
	}
}

func TestDeliverable(t *testing.T) {
	cases := []struct {
		name                            string
		target, vault, holding, claimed uint64
		want                            uint64
	}{
		{"normal", 500, 1000, 0, 0, 500},
		{"partially moved", 500, 700, 200, 100, 200},
		{"no progress", 500, 500, 300, 200, 0},
		{"target behind claims", 200, 500, 100, 400, 0},
		{"underfunded vault clamps", 100, 40, 0, 0, 40},
		{"empty vault", 100, 0, 0, 0, 0},
	}
	for _, c := range cases {
		got, err := Deliverable(c.target, c.vault, c.holding, c.claimed)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestTotalDepositedOverflow(t *testing.T) {
	got, err := TotalDeposited(100, 200, 300)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), got)

	_, err = TotalDeposited(math.MaxUint64, 1, 0)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
	_, err = TotalDeposited(math.MaxUint64, 0, 1)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

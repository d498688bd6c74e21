// keys/keys.go
// 统一的 Key 定义包，供 VM 和 DB 模块共同使用
package keys

import (
	"fmt"
	"strings"
)

// ===================== 版本控制 =====================
// 设置全局 Key 版本前缀（例如 "v1" → 产出 "v1_<key>"）。
// 如需立刻兼容旧数据，暂时将 KeyVersion 设为 "" 即可不加版本前缀。
const KeyVersion = "v1"

// withVer 把版本号拼到最前面（保持下划线风格：v1_<...>）
func withVer(s string) string {
	if KeyVersion == "" {
		return s
	}
	return KeyVersion + "_" + s
}

// StripVersion 读取回退辅助：把带版本的键去掉版本前缀，便于双读回退。
func StripVersion(prefixed string) string {
	if KeyVersion == "" {
		return prefixed
	}
	p := KeyVersion + "_"
	return strings.TrimPrefix(prefixed, p)
}

// ===================== 归属记录相关 =====================

// KeyVesting 归属计划记录（二进制定长编码）
// 例：v1_vesting_<addr>
func KeyVesting(addr string) string {
	return withVer("vesting_" + addr)
}

// KeyVestingPrefix 归属记录前缀，用于全量扫描
func KeyVestingPrefix() string {
	return withVer("vesting_")
}

// KeyAccountMeta 托管账户元数据（角色、所有者、币种）
// 例：v1_acctmeta_<addr>
func KeyAccountMeta(addr string) string {
	return withVer("acctmeta_" + addr)
}

// ===================== 余额相关 =====================

// KeyBalance 账户在某币种下的余额
// 例：v1_balance_<addr>_<mint>
func KeyBalance(addr, mint string) string {
	return withVer(fmt.Sprintf("balance_%s_%s", addr, mint))
}

// KeyBalancePrefix 某账户的全部余额前缀
func KeyBalancePrefix(addr string) string {
	return withVer(fmt.Sprintf("balance_%s_", addr))
}

// ===================== 指令与回执相关 =====================

// KeyAppliedIx 已执行指令标记（幂等去重）
// 例：v1_applied_ix_<ixID>
func KeyAppliedIx(ixID string) string {
	return withVer("applied_ix_" + ixID)
}

// KeyReceipt 指令回执
// 例：v1_receipt_<ixID>
func KeyReceipt(ixID string) string {
	return withVer("receipt_" + ixID)
}

// KeyReceiptPrefix 回执前缀，用于全量扫描
func KeyReceiptPrefix() string {
	return withVer("receipt_")
}

package vm

import "errors"

// ========== 错误定义 ==========

var (
	// ErrAlreadyExists 对已初始化的归属计划重复 create
	ErrAlreadyExists = errors.New("vesting already exists")
	// ErrArithmeticOverflow 中间计算超出 64 位无符号范围
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrInsufficientUnlocked withdraw 超出待领取余额
	ErrInsufficientUnlocked = errors.New("insufficient unlocked balance")
	// ErrInvalidParameters 非法参数（duration=0、amount=0、cliff>duration 等）
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrUnauthorized 签名身份与要求的权限所有者不符
	ErrUnauthorized = errors.New("unauthorized signer")
	// ErrVestingNotFound 归属计划记录不存在
	ErrVestingNotFound = errors.New("vesting not found")

	ErrUnderflow       = errors.New("arithmetic underflow")
	ErrInvalidBalance  = errors.New("invalid balance format")
	ErrBalanceTooLong  = errors.New("balance string too long")
	ErrNotImplemented  = errors.New("not implemented")
	ErrNilInstruction  = errors.New("nil instruction")
	ErrInvalidSnapshot = errors.New("invalid snapshot index")
)

// ========== 数据分类 ==========

// WriteOp.Category 取值，便于追踪和调试
const (
	CategoryVesting = "vesting"
	CategoryBalance = "balance"
	CategoryMeta    = "meta"
	CategoryReceipt = "receipt"
)

// ========== 基础类型定义 ==========

// WriteOp “要怎么改状态”的清单
type WriteOp struct {
	Key      string // 完整的 key（包括命名空间前缀）
	Value    []byte // 序列化后的值
	Del      bool   // true表示删除操作
	Category string // 数据分类：vesting, balance, meta, receipt
}

// GetKey 获取 key
func (w *WriteOp) GetKey() string {
	return w.Key
}

// GetValue 获取 value
func (w *WriteOp) GetValue() []byte {
	return w.Value
}

// IsDel 是否删除操作
func (w *WriteOp) IsDel() bool {
	return w.Del
}

// Receipt 记录指令执行结果
type Receipt struct {
	IxID       string   `json:"ix_id"`
	Kind       string   `json:"kind"`
	Status     string   `json:"status"` // "SUCCEED" or "FAILED"
	Error      string   `json:"error,omitempty"`
	Moved      string   `json:"moved,omitempty"` // 本次指令实际移动的数额（十进制字符串）
	Timestamp  int64    `json:"timestamp"`
	WriteCount int      `json:"write_count"`
	Logs       []string `json:"logs,omitempty"`
}

const (
	StatusSucceed = "SUCCEED"
	StatusFailed  = "FAILED"
)

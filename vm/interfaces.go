package vm

// ========== 核心接口定义 ==========

// StateView 状态视图接口
type StateView interface {
	//读/写/删某个 key 的状态；写入只写进这个视图，不直接落到底层 DB。
	Get(key string) ([]byte, bool, error)
	Set(key string, val []byte)
	// SetWithCategory 写入并标注数据分类，落库时随写集带出
	SetWithCategory(key string, val []byte, category string)
	Del(key string)
	//做一个快照点、必要时回滚到该点，实现失败时的整体回滚。
	Snapshot() int
	Revert(snap int) error
	//把这段执行期间累积的写入集合（写集）导出来，给后续“真正落库”用。
	Diff() []WriteOp
	// 扫描指定前缀下的所有键值对
	Scan(prefix string) (map[string][]byte, error)
}

// IxHandler 指令处理器接口
type IxHandler interface {
	//标识这个 Handler 处理哪种指令（比如 "fund"）。
	Kind() string
	//在给定 StateView 上执行，返回写集 []WriteOp 与执行回执 *Receipt（成功/失败、错误原因、写入条数等）
	DryRun(ix *Instruction, sv StateView) ([]WriteOp, *Receipt, error)
}

// DBManager 数据库管理器接口
type DBManager interface {
	EnqueueSet(key, value string)
	EnqueueDelete(key string)
	ForceFlush() error
	Get(key string) ([]byte, error)
	// 前缀扫描，返回所有以 prefix 开头的键值对
	Scan(prefix string) (map[string][]byte, error)
}

// ReadThroughFn 当 StateView.Get 本地 overlay 没命中时，
// 定义“如何从底层存储读真实值”的函数签名
type ReadThroughFn func(key string) ([]byte, error)

// ScanFn 用于 StateView 从底层存储做前缀扫描
type ScanFn func(prefix string) (map[string][]byte, error)

// KindFn 给 Instruction 提取“指令种类”的小工具
type KindFn func(ix *Instruction) (string, error)

// ClockFn 外部时间源：单调非递减，每条 unlock 指令开始时读取一次
type ClockFn func() uint64

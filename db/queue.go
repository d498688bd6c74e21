package db

// WriteTask 写队列里的一条待落库请求
type WriteTask struct {
	Key   []byte
	Value []byte
	Op    WriteOp
}

// WriteOp 写操作类型
type WriteOp int

const (
	OpSet WriteOp = iota
	OpDelete
)

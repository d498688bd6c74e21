package vm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"vesting/keys"
	"vesting/logs"
)

// Executor 指令执行器。
// 宿主保证每条指令对其声明账户的独占访问，这里不做内部加锁以外的并发控制；
// 单条指令要么全部落库要么整体回滚，靠 StateView 快照实现。
type Executor struct {
	mu     sync.Mutex
	DB     DBManager
	Reg    *HandlerRegistry
	Cache  *ReceiptCache
	KFn    KindFn
	Clock  ClockFn
	ReadFn ReadThroughFn
	ScanFn ScanFn
}

// NewExecutor 创建执行器
func NewExecutor(db DBManager, reg *HandlerRegistry, cache *ReceiptCache) *Executor {
	if reg == nil {
		reg = NewHandlerRegistry()
	}
	if cache == nil {
		cache = NewReceiptCache(0)
	}

	x := &Executor{
		DB:    db,
		Reg:   reg,
		Cache: cache,
		KFn:   DefaultKindFn,
		// 缺省时间源：墙钟秒。unlock 指令开始时读取一次
		Clock: func() uint64 { return uint64(time.Now().Unix()) },
	}

	x.ReadFn = func(key string) ([]byte, error) {
		return db.Get(key)
	}
	x.ScanFn = func(prefix string) (map[string][]byte, error) {
		return db.Scan(prefix)
	}
	return x
}

// SetClock 替换时间源（测试用固定时钟）
func (x *Executor) SetClock(fn ClockFn) {
	if fn != nil {
		x.Clock = fn
	}
}

// Execute 执行一条指令并落库，返回回执。
// 指令自身的业务失败（参数不合法、余额不足、推导不符等）体现在 FAILED 回执里，
// 返回 error 仅用于协议层问题（空指令、未知类型、底层存储故障）。
func (x *Executor) Execute(ix *Instruction) (*Receipt, error) {
	if ix == nil {
		return nil, ErrNilInstruction
	}

	kind, err := x.KFn(ix)
	if err != nil {
		return nil, err
	}

	// 幂等：同一指令 ID 只应用一次
	if ix.ID != "" && x.isApplied(ix.ID) {
		if rc, ok := x.GetReceipt(ix.ID); ok {
			logs.Verbose("[vm] ix %s already applied, returning stored receipt", ix.ID)
			return rc, nil
		}
		return nil, fmt.Errorf("ix %s already applied but receipt missing", ix.ID)
	}

	h, ok := x.Reg.Get(kind)
	if !ok {
		return nil, fmt.Errorf("no handler for ix %s (kind: %s)", ix.ID, kind)
	}

	// unlock 的时间只来自执行器的时间源，指令里带的值一律覆盖
	if kind == KindUnlock && ix.Unlock != nil {
		ix.Unlock.Now = x.Clock()
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	sv := NewStateView(x.ReadFn, x.ScanFn)
	snapshot := sv.Snapshot()

	ws, rc, err := h.DryRun(ix, sv)
	if err != nil {
		if rc == nil {
			// 没有回执的错误按协议层失败处理
			_ = sv.Revert(snapshot)
			return nil, fmt.Errorf("ix %s protocol error: %w", ix.ID, err)
		}
		// 业务失败：整体回滚，只留下 FAILED 回执
		_ = sv.Revert(snapshot)
		rc.Status = StatusFailed
		if rc.Error == "" {
			rc.Error = err.Error()
		}
		rc.Timestamp = time.Now().Unix()
		if err := x.commit(nil, rc); err != nil {
			return nil, err
		}
		logs.Info("[vm] ix %s (%s) FAILED: %v", ix.ID, kind, err)
		return rc, nil
	}

	// 写集先合入视图再从 Diff 导出，落库顺序确定且与视图内状态一致
	applyWriteSet(sv, ws)
	rc.Timestamp = time.Now().Unix()
	if err := x.commit(sv.Diff(), rc); err != nil {
		return nil, err
	}
	logs.Debug("[vm] ix %s (%s) applied, %d writes", ix.ID, kind, len(ws))
	return rc, nil
}

// applyWriteSet 把处理器返回的写集合入状态视图
func applyWriteSet(sv StateView, ws []WriteOp) {
	for _, w := range ws {
		if w.Del {
			sv.Del(w.Key)
			continue
		}
		sv.SetWithCategory(w.Key, w.Value, w.Category)
	}
}

// commit 把写集、回执与幂等标记一次性落库
func (x *Executor) commit(ws []WriteOp, rc *Receipt) error {
	for _, w := range ws {
		if w.Del {
			x.DB.EnqueueDelete(w.Key)
		} else {
			x.DB.EnqueueSet(w.Key, string(w.Value))
		}
	}

	if rc.IxID != "" {
		data, err := json.Marshal(rc)
		if err != nil {
			return fmt.Errorf("marshal receipt %s: %w", rc.IxID, err)
		}
		x.DB.EnqueueSet(keys.KeyReceipt(rc.IxID), string(data))
		x.DB.EnqueueSet(keys.KeyAppliedIx(rc.IxID), rc.Status)
	}

	if err := x.DB.ForceFlush(); err != nil {
		return fmt.Errorf("flush ix %s: %w", rc.IxID, err)
	}
	x.Cache.Put(rc)
	return nil
}

// isApplied 指令是否已应用过
func (x *Executor) isApplied(ixID string) bool {
	val, err := x.DB.Get(keys.KeyAppliedIx(ixID))
	return err == nil && len(val) > 0
}

// ListReceipts 扫描全部落库回执，按指令 ID 索引
func (x *Executor) ListReceipts() (map[string]*Receipt, error) {
	raw, err := x.DB.Scan(keys.KeyReceiptPrefix())
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Receipt, len(raw))
	for k, v := range raw {
		var rc Receipt
		if err := json.Unmarshal(v, &rc); err != nil {
			return nil, fmt.Errorf("decode receipt %s: %w", k, err)
		}
		out[strings.TrimPrefix(keys.StripVersion(k), "receipt_")] = &rc
	}
	return out, nil
}

// GetReceipt 查询指令回执（先缓存后落库数据）
func (x *Executor) GetReceipt(ixID string) (*Receipt, bool) {
	if rc, ok := x.Cache.Get(ixID); ok {
		return rc, true
	}
	data, err := x.DB.Get(keys.KeyReceipt(ixID))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var rc Receipt
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, false
	}
	x.Cache.Put(&rc)
	return &rc, true
}

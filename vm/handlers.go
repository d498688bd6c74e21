package vm

import (
	"errors"
	"fmt"
	"sync"
)

// HandlerRegistry Handler注册表
type HandlerRegistry struct {
	mu sync.RWMutex
	m  map[string]IxHandler
}

// NewHandlerRegistry 创建新的注册表
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{m: make(map[string]IxHandler)}
}

// Register 注册Handler
func (r *HandlerRegistry) Register(h IxHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h == nil {
		return errors.New("nil handler")
	}

	kind := h.Kind()
	if kind == "" {
		return errors.New("empty handler kind")
	}

	if _, ok := r.m[kind]; ok {
		return fmt.Errorf("duplicate handler kind: %s", kind)
	}
	r.m[kind] = h
	return nil
}

// Get 获取Handler
func (r *HandlerRegistry) Get(kind string) (IxHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.m[kind]
	return h, ok
}

// List 列出所有已注册的Handler类型
func (r *HandlerRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.m))
	for k := range r.m {
		kinds = append(kinds, k)
	}
	return kinds
}

// RegisterDefaultHandlers 注册全部默认指令处理器
func RegisterDefaultHandlers(reg *HandlerRegistry) error {
	handlers := []IxHandler{
		&CreateVestingIxHandler{}, // 建立归属计划
		&FundIxHandler{},          // 入金
		&UnlockIxHandler{},        // 按时间表解锁
		&WithdrawIxHandler{},      // 受益人领取
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}

// newFailedReceipt 统一构造失败回执
func newFailedReceipt(ixID, kind string, err error) *Receipt {
	rc := &Receipt{
		IxID:   ixID,
		Kind:   kind,
		Status: StatusFailed,
	}
	if err != nil {
		rc.Error = err.Error()
	}
	return rc
}

package vm

import (
	lru "github.com/hashicorp/golang-lru"
)

// ReceiptCache 回执 LRU 缓存，避免状态查询反复读库
type ReceiptCache struct {
	cache *lru.Cache
}

// NewReceiptCache 创建回执缓存
func NewReceiptCache(capacity int) *ReceiptCache {
	if capacity <= 0 {
		capacity = 4096
	}
	c, _ := lru.New(capacity)
	return &ReceiptCache{cache: c}
}

// Get 获取缓存的回执
func (c *ReceiptCache) Get(ixID string) (*Receipt, bool) {
	v, ok := c.cache.Get(ixID)
	if !ok {
		return nil, false
	}
	rc, ok := v.(*Receipt)
	return rc, ok
}

// Put 写入回执
func (c *ReceiptCache) Put(rc *Receipt) {
	if rc == nil || rc.IxID == "" {
		return
	}
	c.cache.Add(rc.IxID, rc)
}

// Len 当前缓存条数
func (c *ReceiptCache) Len() int {
	return c.cache.Len()
}

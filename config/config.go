// config/config.go
package config

import (
	"fmt"
	"time"
)

// Config 主配置结构
type Config struct {
	Database DatabaseConfig
	Engine   EngineConfig
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// BadgerDB配置
	ValueLogFileSize int64         // 64 << 20 (64MB)
	MaxTableSize     int64         // 32 << 20 (32MB)
	MaxBatchSize     int           // 100
	FlushInterval    time.Duration // 200 * time.Millisecond

	// 写队列配置
	WriteQueueSize      int   // 10000
	WriteBatchSoftLimit int64 // 8 * 1024 * 1024 (8MB)
	MaxCountPerTxn      int   // 500
	PerEntryOverhead    int   // 32
}

// EngineConfig 指令执行引擎配置
type EngineConfig struct {
	// 回执 LRU 缓存容量
	ReceiptCacheSize int // 4096
}

// DefaultConfig 返回带默认值的配置
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			ValueLogFileSize:    64 << 20,
			MaxTableSize:        32 << 20,
			MaxBatchSize:        100,
			FlushInterval:       200 * time.Millisecond,
			WriteQueueSize:      10000,
			WriteBatchSoftLimit: 8 * 1024 * 1024,
			MaxCountPerTxn:      500,
			PerEntryOverhead:    32,
		},
		Engine: EngineConfig{
			ReceiptCacheSize: 4096,
		},
	}
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if c.Database.MaxBatchSize <= 0 {
		return fmt.Errorf("database.MaxBatchSize must be positive, got %d", c.Database.MaxBatchSize)
	}
	if c.Database.FlushInterval <= 0 {
		return fmt.Errorf("database.FlushInterval must be positive, got %v", c.Database.FlushInterval)
	}
	if c.Database.WriteQueueSize <= 0 {
		return fmt.Errorf("database.WriteQueueSize must be positive, got %d", c.Database.WriteQueueSize)
	}
	if c.Database.MaxCountPerTxn <= 0 {
		return fmt.Errorf("database.MaxCountPerTxn must be positive, got %d", c.Database.MaxCountPerTxn)
	}
	if c.Engine.ReceiptCacheSize <= 0 {
		return fmt.Errorf("engine.ReceiptCacheSize must be positive, got %d", c.Engine.ReceiptCacheSize)
	}
	return nil
}

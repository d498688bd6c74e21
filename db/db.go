package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/badger/v2/options"

	"vesting/config"
	"vesting/logs"
)

// Manager 封装 BadgerDB 的管理器。
// 写入都先进写队列，由单个 goroutine 收集成批落库；
// ForceFlush 提供同步语义，指令执行器靠它保证写集先落盘再出回执。
type Manager struct {
	Db *badger.DB
	mu sync.RWMutex

	// 队列通道，批量写的 goroutine 用它来取写请求
	writeQueueChan chan WriteTask
	// 强制刷盘通道
	forceFlushChan chan flushRequest
	// 用于通知写队列 goroutine 停止
	stopChan chan struct{}

	// 控制"写多少/多长时间"就落库
	maxBatchSize  int
	flushInterval time.Duration

	wg  sync.WaitGroup
	cfg *config.Config
}

type flushRequest struct {
	done chan error
}

// NewManager 打开数据库并启动写队列
func NewManager(path string, cfg *config.Config) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	opts.ValueLogFileSize = cfg.Database.ValueLogFileSize
	opts.MaxTableSize = cfg.Database.MaxTableSize
	// 使用 FileIO 模式减少 mmap 内存占用
	opts.TableLoadingMode = options.FileIO
	opts.ValueLogLoadingMode = options.FileIO

	// badger v2 不自动创建父目录，需要手动创建
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	m := &Manager{
		Db:  bdb,
		cfg: cfg,
	}
	m.initWriteQueue(cfg.Database.MaxBatchSize, cfg.Database.FlushInterval)
	return m, nil
}

func (m *Manager) initWriteQueue(maxBatchSize int, flushInterval time.Duration) {
	m.maxBatchSize = maxBatchSize
	m.flushInterval = flushInterval
	m.writeQueueChan = make(chan WriteTask, m.cfg.Database.WriteQueueSize)
	m.forceFlushChan = make(chan flushRequest, 1)
	m.stopChan = make(chan struct{})

	m.wg.Add(1)
	go m.runWriteQueue()
}

// 写队列的核心 goroutine 逻辑
func (m *Manager) runWriteQueue() {
	defer m.wg.Done()

	batch := make([]WriteTask, 0, m.maxBatchSize)

	ticker := time.NewTicker(m.flushInterval)
	defer ticker.Stop()

	flushCurrentBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := m.flushBatch(batch)
		batch = batch[:0]
		return err
	}

	for {
		select {
		case <-m.stopChan:
			// 退出前先排空队列，再刷掉最后一批
			batch = m.drainWriteQueue(batch)
			err := flushCurrentBatch()
			m.resolvePendingForceFlush(err)
			return

		case task := <-m.writeQueueChan:
			batch = append(batch, task)
			if len(batch) >= m.maxBatchSize {
				// 超过阈值，立即 flush
				if err := flushCurrentBatch(); err != nil {
					logs.Error("[runWriteQueue] flush by size failed: %v", err)
				}
			}

		case <-ticker.C:
			// 定时触发时先排空当前队列积压，避免频繁小批次 flush
			batch = m.drainWriteQueue(batch)
			if err := flushCurrentBatch(); err != nil {
				logs.Error("[runWriteQueue] flush by ticker failed: %v", err)
			}

		case req := <-m.forceFlushChan:
			// 同步 flush：排空已入队写请求并等待落盘完成
			batch = m.drainWriteQueue(batch)
			err := flushCurrentBatch()
			m.finishForceFlush(req, err)

			// 依次处理已排队的其他 force flush 请求，保持强一致语义
			for {
				select {
				case req = <-m.forceFlushChan:
					batch = m.drainWriteQueue(batch)
					err = flushCurrentBatch()
					m.finishForceFlush(req, err)
				default:
					goto doneForceFlush
				}
			}
		doneForceFlush:
		}
	}
}

func (m *Manager) drainWriteQueue(batch []WriteTask) []WriteTask {
	for {
		select {
		case task := <-m.writeQueueChan:
			batch = append(batch, task)
		default:
			return batch
		}
	}
}

func (m *Manager) finishForceFlush(req flushRequest, err error) {
	req.done <- err
	close(req.done)
}

func (m *Manager) resolvePendingForceFlush(err error) {
	for {
		select {
		case req := <-m.forceFlushChan:
			m.finishForceFlush(req, err)
		default:
			return
		}
	}
}

// EnqueueSet 投递一条写请求
func (m *Manager) EnqueueSet(key, value string) {
	m.writeQueueChan <- WriteTask{
		Key:   []byte(key),
		Value: []byte(value),
		Op:    OpSet,
	}
}

// EnqueueDelete 投递一条删除请求
func (m *Manager) EnqueueDelete(key string) {
	m.writeQueueChan <- WriteTask{
		Key: []byte(key),
		Op:  OpDelete,
	}
}

// ForceFlush 同步刷盘：等待队列里所有已入队写请求落盘
func (m *Manager) ForceFlush() error {
	if m.forceFlushChan == nil {
		return nil
	}

	req := flushRequest{done: make(chan error, 1)}

	select {
	case m.forceFlushChan <- req:
	case <-m.stopChan:
		return fmt.Errorf("write queue already stopped")
	}

	select {
	case err := <-req.done:
		return err
	case <-m.stopChan:
		select {
		case err := <-req.done:
			return err
		default:
		}
		return fmt.Errorf("write queue stopped before flush completed")
	}
}

// flushBatch 把一批写请求落库。
// 按"字节+条数"切成若干 sub-batch，留出 Badger 元数据开销余量。
func (m *Manager) flushBatch(batch []WriteTask) error {
	if len(batch) == 0 {
		return nil
	}
	softLimitBytes := m.cfg.Database.WriteBatchSoftLimit
	maxCountPerTxn := m.cfg.Database.MaxCountPerTxn
	perEntryOverhead := m.cfg.Database.PerEntryOverhead

	type sliceRange struct{ i, j int }
	subRanges := make([]sliceRange, 0, (len(batch)+maxCountPerTxn-1)/maxCountPerTxn)

	curStart, curBytes, curCount := 0, 0, 0
	for idx, t := range batch {
		entryBytes := len(t.Key) + len(t.Value) + perEntryOverhead
		// 如果加上当前条会超过限制，就先封口开新段
		if curCount > 0 && (int64(curBytes+entryBytes) > softLimitBytes || curCount >= maxCountPerTxn) {
			subRanges = append(subRanges, sliceRange{curStart, idx})
			curStart, curBytes, curCount = idx, 0, 0
		}
		curBytes += entryBytes
		curCount++
	}
	if curStart < len(batch) {
		subRanges = append(subRanges, sliceRange{curStart, len(batch)})
	}

	var firstErr error
	for _, r := range subRanges {
		if err := m.tryFlushRange(batch, r.i, r.j); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Manager) tryFlushRange(batch []WriteTask, start, end int) error {
	if start >= end {
		return nil
	}
	sub := batch[start:end]

	wb := m.Db.NewWriteBatch()
	defer wb.Cancel()

	for _, task := range sub {
		var err error
		switch task.Op {
		case OpSet:
			err = wb.Set(task.Key, task.Value)
		case OpDelete:
			err = wb.Delete(task.Key)
		}
		if err != nil {
			// Badger 的典型报错文案里包含 "Txn is too big"
			if errors.Is(err, badger.ErrTxnTooBig) || strings.Contains(err.Error(), "Txn is too big") {
				// 二分退让后重试两半
				if end-start == 1 {
					return fmt.Errorf("single entry too big for badger: key=%q size=%d bytes", string(task.Key), len(task.Value))
				}
				mid := start + (end-start)/2
				if e := m.tryFlushRange(batch, start, mid); e != nil {
					return e
				}
				return m.tryFlushRange(batch, mid, end)
			}
			logs.Error("[flushBatch] subBatch [%d:%d] set/delete error: %v", start, end, err)
			return err
		}
	}

	err := wb.Flush()
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrTxnTooBig) || strings.Contains(err.Error(), "Txn is too big") {
		if end-start == 1 {
			return fmt.Errorf("single entry still too big: key=%q size=%d bytes", string(sub[0].Key), len(sub[0].Value))
		}
		mid := start + (end-start)/2
		if e := m.tryFlushRange(batch, start, mid); e != nil {
			return e
		}
		return m.tryFlushRange(batch, mid, end)
	}
	logs.Error("[flushBatch] subBatch [%d:%d] error: %v", start, end, err)
	return err
}

// Get 读取键对应的值；键不存在时返回 (nil, nil)
func (m *Manager) Get(key string) ([]byte, error) {
	m.mu.RLock()
	bdb := m.Db
	m.mu.RUnlock()

	if bdb == nil {
		return nil, fmt.Errorf("database is not initialized or closed")
	}

	var value []byte
	err := bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = val
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Exists 键是否存在
func (m *Manager) Exists(key string) (bool, error) {
	val, err := m.Get(key)
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

// Scan 扫描指定前缀的所有键值对
func (m *Manager) Scan(prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	bdb := m.Db
	m.mu.RUnlock()

	if bdb == nil {
		return nil, fmt.Errorf("database is not initialized or closed")
	}

	result := make(map[string][]byte)
	err := bdb.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[string(k)] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close 刷掉队列里的全部写请求后关闭数据库
func (m *Manager) Close() {
	// 1. 先做一次同步 flush，确保已经入队的写请求全部落盘
	if err := m.ForceFlush(); err != nil {
		logs.Error("[db.Close] force flush failed: %v", err)
	}

	// 2. 通知写队列 goroutine 停止
	if m.stopChan != nil {
		select {
		case <-m.stopChan:
			// already closed
		default:
			close(m.stopChan)
		}
	}

	// 3. 等待 goroutine 退出
	m.wg.Wait()

	// 4. 这时所有队列里的数据都已经 flush 完了，可以安全关闭 DB
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Db != nil {
		_ = m.Db.Close()
		m.Db = nil
	}
}

package cache

import (
	"sync"
	"time"
)

// 内存缓存项
type memoryCacheItem struct {
	data     []byte
	expiry   time.Time
	lastUsed time.Time
}

// MemoryCache 带过期时间和LRU淘汰的内存缓存
type MemoryCache struct {
	items    map[string]*memoryCacheItem
	mutex    sync.Mutex
	maxItems int
	now      func() time.Time
}

// NewMemoryCache 创建内存缓存，maxItems<=0 时不限制条数
func NewMemoryCache(maxItems int) *MemoryCache {
	return &MemoryCache{
		items:    make(map[string]*memoryCacheItem),
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Set 设置缓存，ttl<=0 时不写入
func (c *MemoryCache) Set(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.evict()
	}
	c.items[key] = &memoryCacheItem{
		data:     data,
		expiry:   now.Add(ttl),
		lastUsed: now,
	}
}

// Get 获取缓存，过期项会被顺带删除
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}
	now := c.now()
	if now.After(item.expiry) {
		delete(c.items, key)
		return nil, false
	}
	item.lastUsed = now
	return item.data, true
}

// Len 当前条数（含未清理的过期项）
func (c *MemoryCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}

// 驱逐策略 - LRU，调用方需持有锁
func (c *MemoryCache) evict() {
	var (
		oldestKey  string
		oldestTime time.Time
	)
	for k, v := range c.items {
		if oldestKey == "" || v.lastUsed.Before(oldestTime) {
			oldestKey = k
			oldestTime = v.lastUsed
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// CleanExpired 清理过期项
func (c *MemoryCache) CleanExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for k, v := range c.items {
		if now.After(v.expiry) {
			delete(c.items, k)
		}
	}
}

// StartCleanupTask 启动定期清理，done关闭后退出
func (c *MemoryCache) StartCleanupTask(interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.CleanExpired()
			case <-done:
				return
			}
		}
	}()
}

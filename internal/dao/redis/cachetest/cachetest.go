// Package cachetest 提供 AsyncCacheService 的内存实现，供 Service 层测试使用
package cachetest

import (
	"context"
	"sync"
	"time"
)

// Cache 任务同步执行，测试里无需等待
type Cache struct {
	mu   sync.Mutex
	data map[string]string
	// Fail 非空时所有读写返回该错误
	Fail error
}

func New() *Cache {
	return &Cache{data: make(map[string]string)}
}

func (c *Cache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.data[key] = value
	return nil
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return "", c.Fail
	}
	return c.data[key], nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	delete(c.data, key)
	return nil
}

func (c *Cache) SubmitTask(action func()) {
	action()
}

// Has 断言辅助
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

var ErrCacheMiss = errors.New("ключ не найден в кеше")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type memoryCacheItem struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheRepository - кеш в памяти процесса, используется без Redis.
type MemoryCacheRepository struct {
	mu    sync.Mutex
	items map[string]memoryCacheItem
	now   func() time.Time
}

func NewMemoryCacheRepository() CacheRepositoryInterface {
	return &MemoryCacheRepository{items: make(map[string]memoryCacheItem), now: time.Now}
}

func (c *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		str = fmt.Sprint(v)
	}
	item := memoryCacheItem{value: str}
	if expiration > 0 {
		item.expiresAt = c.now().Add(expiration)
	}
	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

func (c *MemoryCacheRepository) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return "", ErrCacheMiss
	}
	return item.value, nil
}

func (c *MemoryCacheRepository) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *MemoryCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.items[key]
	var n int64
	if item.value != "" {
		parsed, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("значение ключа %s не является числом: %w", key, err)
		}
		n = parsed
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	c.items[key] = item
	return n, nil
}

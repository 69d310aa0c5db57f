package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// NewWithClient 直接包装已有客户端（测试用）
func NewWithClient(rdb *redis.Client) *Cache { return &Cache{RDB: rdb} }

// GetOrLoad 旁路读缓存。group 非空时把 key 记入失效索引集合，
// 供 Invalidate 按组整体删除。
func (c *Cache) GetOrLoad(ctx context.Context, key, group string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		pipe := c.RDB.TxPipeline()
		pipe.Set(ctx, key, b, ttl)
		if group != "" {
			pipe.SAdd(ctx, group, key)
		}
		_, _ = pipe.Exec(ctx)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 删除索引集合记录的全部 key。
// 字面 key-value 存储不展开通配符，必须逐 key 枚举。
func (c *Cache) Invalidate(ctx context.Context, group string) error {
	keys, err := c.RDB.SMembers(ctx, group).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := c.RDB.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return c.RDB.Del(ctx, group).Err()
}

func (c *Cache) Close() error { return c.RDB.Close() }

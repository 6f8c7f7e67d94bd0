package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/postboard/pkg/errors"
)

// versionKey 列表缓存版本号
const versionKey = "posts:list:version"

// ListCache 帖子列表分页缓存
// 设计说明：
// 1. Key设计：posts:list:v{version}:p{page}:s{size}
// 2. 任何写操作（创建、浏览、删除、导入）都递增版本号，旧版本的key不再被读取，靠TTL自然过期
// 3. Get返回读取时的版本号，Set写回同一版本；查库期间发生写操作时，旧数据只会落在已失效的版本下
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache 创建列表缓存
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

// Get 读取缓存的分页数据，未命中时ok=false
// version是本次读取使用的版本号，未命中回填时原样传给Set
func (c *ListCache) Get(ctx context.Context, page, size int) ([]byte, int64, bool, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取列表缓存版本失败")
	}

	data, err := c.client.Get(ctx, pageKey(version, page, size)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取列表缓存失败")
	}
	return data, version, true, nil
}

// Set 把分页数据写入指定版本
func (c *ListCache) Set(ctx context.Context, version int64, page, size int, data []byte) error {
	if err := c.client.Set(ctx, pageKey(version, page, size), data, c.ttl).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "写入列表缓存失败")
	}
	return nil
}

// Invalidate 递增版本号，使所有已缓存的分页失效
func (c *ListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "刷新列表缓存版本失败")
	}
	return nil
}

func pageKey(version int64, page, size int) string {
	return fmt.Sprintf("posts:list:v%d:p%d:s%d", version, page, size)
}

package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotmath/internal/calc"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	_exactResultKeyTpl = "slotmath:exact:%s" // %s为游戏配置hash
	_exactResultTTL    = 7 * 24 * time.Hour
)

// ErrCacheMiss .
var ErrCacheMiss = errors.New("cache: exact result not found")

// ResultCache 精确计算结果缓存。同一配置hash的精确结果不随时间变化，
// 命中即可跳过全量枚举
type ResultCache interface {
	Get(ctx context.Context, configHash string) (*calc.ExactResult, error)
	Set(ctx context.Context, configHash string, result *calc.ExactResult) error
}

type resultCache struct {
	data *Data
	log  *zap.Logger
}

// NewResultCache 基于Redis的结果缓存。未配置Redis时返回空实现
func NewResultCache(data *Data, logger *zap.Logger) ResultCache {
	if data.rdb == nil {
		return nopResultCache{}
	}
	return &resultCache{data: data, log: logger}
}

func (c *resultCache) Get(ctx context.Context, configHash string) (*calc.ExactResult, error) {
	key := fmt.Sprintf(_exactResultKeyTpl, configHash)
	raw, err := c.data.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	result := &calc.ExactResult{}
	if err = _json.Unmarshal(raw, result); err != nil {
		// 脏数据按未命中处理，重算后覆盖
		c.log.Warn("discard corrupted exact result", zap.String("key", key), zap.Error(err))
		return nil, ErrCacheMiss
	}
	return result, nil
}

func (c *resultCache) Set(ctx context.Context, configHash string, result *calc.ExactResult) error {
	raw, err := _json.Marshal(result)
	if err != nil {
		return err
	}
	return c.data.rdb.Set(ctx, fmt.Sprintf(_exactResultKeyTpl, configHash), raw, _exactResultTTL).Err()
}

type nopResultCache struct{}

func (nopResultCache) Get(context.Context, string) (*calc.ExactResult, error) {
	return nil, ErrCacheMiss
}

func (nopResultCache) Set(context.Context, string, *calc.ExactResult) error { return nil }

package knowledge

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/admithub/backend-go/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const embeddingKeyPrefix = "embedding:"

// CachedEmbedder 用Redis缓存向量化结果，避免重复调用外部API。
// Redis不可用时透传底层Embedder，缓存读写失败不影响主流程。
type CachedEmbedder struct {
	inner Embedder
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedEmbedder 包装一个Embedder；client为nil时原样返回inner
func NewCachedEmbedder(inner Embedder, client *redis.Client, ttl time.Duration) Embedder {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedEmbedder{inner: inner, redis: client, ttl: ttl}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	raw, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var cached []float32
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	} else if err != redis.Nil {
		logger.Debug("embedding cache read failed", zap.Error(err))
	}

	embedding, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(embedding); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Debug("embedding cache write failed", zap.Error(err))
		}
	}
	return embedding, nil
}

func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

func (c *CachedEmbedder) Ready() bool {
	return c.inner.Ready()
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d|%s", c.inner.Dimensions(), text)))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}

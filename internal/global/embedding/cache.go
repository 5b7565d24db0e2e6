package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache 按 key 批量读写向量，未命中的位置返回 nil
type Cache interface {
	GetMany(ctx context.Context, keys []string) ([][]float64, error)
	SetMany(ctx context.Context, keys []string, vectors [][]float64) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, cfg config.Embedding) *RedisCache {
	return &RedisCache{client: client, ttl: cfg.CacheTTL}
}

func (r *RedisCache) GetMany(ctx context.Context, keys []string) ([][]float64, error) {
	out := make([][]float64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return out, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var vec []float64
		if json.Unmarshal([]byte(s), &vec) == nil {
			out[i] = vec
		}
	}
	return out, nil
}

func (r *RedisCache) SetMany(ctx context.Context, keys []string, vectors [][]float64) error {
	pipe := r.client.Pipeline()
	for i, k := range keys {
		if vectors[i] == nil {
			continue
		}
		b, err := json.Marshal(vectors[i])
		if err != nil {
			return err
		}
		pipe.Set(ctx, k, b, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Cached 先查缓存，只把未命中的文本交给下游
type Cached struct {
	next   Embedder
	cache  Cache
	prefix string
	log    *slog.Logger
}

func NewCached(next Embedder, cache Cache, cfg config.Embedding) *Cached {
	return &Cached{
		next:   next,
		cache:  cache,
		prefix: "embedding:" + cfg.Model + ":" + cfg.TaskType + ":",
		log:    logger.New("Embedding"),
	}
}

// Key 缓存键包含模型和任务类型，换模型后旧向量自然失效
func (c *Cached) Key(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	if Normalize(text) == "" {
		return nil, ErrEmptyText
	}
	out, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	keys := make([]string, 0, len(texts))
	pos := make([]int, 0, len(texts))
	for i, t := range texts {
		if Normalize(t) != "" {
			keys = append(keys, c.Key(t))
			pos = append(pos, i)
		}
	}
	result := make([][]float64, len(texts))
	if len(keys) == 0 {
		return result, nil
	}

	cached, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		c.log.Warn("读取 embedding 缓存失败", "error", err)
		cached = make([][]float64, len(keys))
	}

	var missTexts, missKeys []string
	var missPos []int
	for i, vec := range cached {
		metrics.RecordCache(vec != nil)
		if vec != nil {
			result[pos[i]] = vec
			continue
		}
		missTexts = append(missTexts, texts[pos[i]])
		missKeys = append(missKeys, keys[i])
		missPos = append(missPos, pos[i])
	}
	if len(missTexts) == 0 {
		return result, nil
	}

	fresh, err := c.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for i, vec := range fresh {
		result[missPos[i]] = vec
	}
	if err := c.cache.SetMany(ctx, missKeys, fresh); err != nil {
		c.log.Warn("写入 embedding 缓存失败", "error", err)
	}
	return result, nil
}

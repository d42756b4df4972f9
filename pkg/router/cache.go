package router

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"ai-query-router/internal/pkg/logger"
)

// CachedClassifier decorates a QueryClassifier with a response cache
// keyed by (normalizedQuery, heuristics hash). Caching sits outside
// the classifier contract on purpose: the inner classifier stays a
// pure boundary and the cache can be dropped without touching it.
//
// When a redis client is provided it is the backing store; otherwise
// an in-process cache is used. Nil results are never cached so a
// failed model call is retried on the next request.
type CachedClassifier struct {
	inner  QueryClassifier
	rdb    *redis.Client
	local  *gocache.Cache
	ttl    time.Duration
	logger logger.ILogger
}

func NewCachedClassifier(inner QueryClassifier, rdb *redis.Client, ttl time.Duration, log logger.ILogger) *CachedClassifier {
	if log == nil {
		log = logger.NopLogger{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &CachedClassifier{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: log,
	}
	if rdb == nil {
		c.local = gocache.New(ttl, 2*ttl)
	}
	return c
}

var _ QueryClassifier = &CachedClassifier{}

func (c *CachedClassifier) Classify(ctx context.Context, q PreprocessedQuery, heuristics HeuristicOutput) *ModelClassification {
	key := classifyCacheKey(q, heuristics)

	if cached := c.get(ctx, key); cached != nil {
		c.logger.Debug("classifier_cache", "Cache hit", map[string]interface{}{"key": key})
		return cached
	}

	result := c.inner.Classify(ctx, q, heuristics)
	if result != nil {
		c.put(ctx, key, result)
	}
	return result
}

func (c *CachedClassifier) get(ctx context.Context, key string) *ModelClassification {
	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err != nil {
			if err != redis.Nil {
				c.logger.Warn("classifier_cache", "Redis read failed", map[string]interface{}{"error": err.Error()})
			}
			return nil
		}
		var out ModelClassification
		if err := json.Unmarshal(data, &out); err != nil {
			c.logger.Warn("classifier_cache", "Corrupt cache entry dropped", map[string]interface{}{"key": key})
			return nil
		}
		return &out
	}

	if v, ok := c.local.Get(key); ok {
		if out, ok := v.(ModelClassification); ok {
			clone := out
			return &clone
		}
	}
	return nil
}

func (c *CachedClassifier) put(ctx context.Context, key string, result *ModelClassification) {
	if c.rdb != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return
		}
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("classifier_cache", "Redis write failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	c.local.Set(key, *result, c.ttl)
}

// classifyCacheKey hashes the normalized query together with the
// heuristic snapshot so a config change that shifts heuristics also
// shifts the key.
func classifyCacheKey(q PreprocessedQuery, heuristics HeuristicOutput) string {
	heurJSON, _ := json.Marshal(heuristics)
	sum := sha256.Sum256([]byte(q.NormalizedQuery + "|" + string(heurJSON)))
	return fmt.Sprintf("router:classify:%s", hex.EncodeToString(sum[:16]))
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

const keyPrefix = "antianxiety:evidence:"

// Key is the redis key holding papers for a belief context.
func Key(c domain.BeliefContext) string {
	return keyPrefix + string(c)
}

// EvidenceCache stores literature lookups as JSON with a TTL.
type EvidenceCache struct {
	rdb redis.Cmdable
}

func NewEvidenceCache(rdb redis.Cmdable) *EvidenceCache {
	return &EvidenceCache{rdb: rdb}
}

func (c *EvidenceCache) Get(ctx context.Context, beliefContext domain.BeliefContext) ([]domain.Paper, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(beliefContext)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var papers []domain.Paper
	if err := json.Unmarshal(raw, &papers); err != nil {
		return nil, false, fmt.Errorf("decode cached papers: %w", err)
	}
	return papers, true, nil
}

func (c *EvidenceCache) Set(ctx context.Context, beliefContext domain.BeliefContext, papers []domain.Paper, ttl time.Duration) error {
	raw, err := json.Marshal(papers)
	if err != nil {
		return fmt.Errorf("encode papers: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(beliefContext), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached papers for the given contexts.
func (c *EvidenceCache) Invalidate(ctx context.Context, contexts ...domain.BeliefContext) error {
	if len(contexts) == 0 {
		return nil
	}
	keys := make([]string, len(contexts))
	for i, bc := range contexts {
		keys[i] = Key(bc)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// NopCache never hits. It stands in when redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, domain.BeliefContext) ([]domain.Paper, bool, error) {
	return nil, false, nil
}

func (NopCache) Set(context.Context, domain.BeliefContext, []domain.Paper, time.Duration) error {
	return nil
}

func (NopCache) Invalidate(context.Context, ...domain.BeliefContext) error {
	return nil
}

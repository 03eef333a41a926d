package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

// memCmdable serves GET, SET and DEL from a map. Any other command panics
// on the nil embedded interface.
type memCmdable struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemCmdable() *memCmdable {
	return &memCmdable{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "antianxiety:evidence:cardiac_event", Key(domain.ContextCardiacEvent))
}

func TestEvidenceCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newMemCmdable()
	c := NewEvidenceCache(rdb)

	papers, ok, err := c.Get(ctx, domain.ContextMetabolicCrash)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, papers)

	want := []domain.Paper{{ID: "p1", Title: "Glucose and worry", CitationCount: 240, RelevanceScore: 0.7}}
	require.NoError(t, c.Set(ctx, domain.ContextMetabolicCrash, want, time.Hour))
	assert.Equal(t, time.Hour, rdb.ttls[Key(domain.ContextMetabolicCrash)])

	got, ok, err := c.Get(ctx, domain.ContextMetabolicCrash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Invalidate(ctx, domain.ContextMetabolicCrash, domain.ContextCustom))
	_, ok, err = c.Get(ctx, domain.ContextMetabolicCrash)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Invalidate(ctx))
}

func TestEvidenceCache_Errors(t *testing.T) {
	ctx := context.Background()
	rdb := newMemCmdable()
	c := NewEvidenceCache(rdb)

	rdb.data[Key(domain.ContextCustom)] = "not json"
	_, _, err := c.Get(ctx, domain.ContextCustom)
	assert.Error(t, err)

	rdb.err = errors.New("connection reset")
	_, _, err = c.Get(ctx, domain.ContextCustom)
	assert.ErrorIs(t, err, rdb.err)
	assert.ErrorIs(t, c.Set(ctx, domain.ContextCustom, nil, time.Minute), rdb.err)
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var c domain.PaperCache = NopCache{}

	require.NoError(t, c.Set(ctx, domain.ContextCustom, []domain.Paper{{ID: "x"}}, time.Hour))
	papers, ok, err := c.Get(ctx, domain.ContextCustom)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, papers)
	assert.NoError(t, c.Invalidate(ctx, domain.ContextCustom))
}

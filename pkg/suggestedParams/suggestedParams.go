// Package suggestedParams memoizes network-wide transaction parameters for a short
// time-to-live so that consecutive group builds do not each pay a network round trip.
package suggestedParams

import (
	"context"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Layr-Labs/txgroup-go/pkg/logger"
)

// DefaultTTL is used when Config.TTL is zero.
const DefaultTTL = 3 * time.Second

// ISuggestedParamsSource fetches fresh parameters from the network.
// Retry policy, if any, belongs to the implementation.
type ISuggestedParamsSource interface {
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
}

// Config holds the cache configuration.
type Config struct {
	// TTL is how long a fetched value is served before the next Get refreshes it
	TTL time.Duration
}

// Cache serves suggested parameters from memory while they are younger than the TTL.
// A cache is owned by a single client; there is no process-wide instance.
type Cache struct {
	config *Config
	source ISuggestedParamsSource
	clock  clock.Clock
	logger *zap.Logger

	mu        sync.Mutex
	params    types.SuggestedParams
	fetchedAt time.Time
	valid     bool
}

// NewCache creates a Cache reading from source with the wall clock.
func NewCache(cfg *Config, source ISuggestedParamsSource, l *zap.Logger) *Cache {
	return NewCacheWithClock(cfg, source, clock.New(), l)
}

// NewCacheWithClock creates a Cache that measures the TTL with clk.
func NewCacheWithClock(cfg *Config, source ISuggestedParamsSource, clk clock.Clock, l *zap.Logger) *Cache {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Cache{
		config: cfg,
		source: source,
		clock:  clk,
		logger: logger.OrNop(l),
	}
}

func (c *Cache) ttl() time.Duration {
	if c.config.TTL <= 0 {
		return DefaultTTL
	}
	return c.config.TTL
}

// Get returns the cached parameters when the last fetch is younger than the TTL,
// otherwise it fetches from the source and stores the result. Fetch errors are returned
// unchanged and leave the previous entry untouched.
func (c *Cache) Get(ctx context.Context) (types.SuggestedParams, error) {
	c.mu.Lock()
	if c.valid && c.clock.Since(c.fetchedAt) < c.ttl() {
		params := c.params
		c.mu.Unlock()
		return params, nil
	}
	c.mu.Unlock()

	params, err := c.source.SuggestedParams(ctx)
	if err != nil {
		return types.SuggestedParams{}, err
	}

	// a fresh fetch always wins, even over an entry another caller just stored
	c.mu.Lock()
	c.params = params
	c.fetchedAt = c.clock.Now()
	c.valid = true
	c.mu.Unlock()

	c.logger.Sugar().Debugw("Refreshed suggested params",
		zap.Uint64("firstValid", uint64(params.FirstRoundValid)),
		zap.Uint64("lastValid", uint64(params.LastRoundValid)),
		zap.Duration("ttl", c.ttl()),
	)
	return params, nil
}

// Invalidate drops the cached entry so the next Get fetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"featuredflags/cache"
	"featuredflags/entity"
	"featuredflags/pkg/logger"
	"featuredflags/pkg/metrics"
	"featuredflags/repository"
)

const (
	operationIsEnabled        = "is_enabled"
	operationGetEnabledValues = "get_enabled_values"
)

// FeaturedFlags evaluates flags through a cache-aside layer.
type FeaturedFlags interface {
	IsEnabled(ctx context.Context, flagName string, filter map[string]string) (bool, error)
	GetEnabledValues(ctx context.Context, flagName string, filter map[string]string) (map[string]string, error)
	SetCache(c cache.Cache)
}

type Option func(*featuredFlags)

// WithClock pins evaluation to the given clock instead of wall-clock time.
func WithClock(clock Clock) Option {
	return func(f *featuredFlags) {
		f.clock = clock
	}
}

// WithFixedTime evaluates every call as of at.
func WithFixedTime(at time.Time) Option {
	return WithClock(FixedClock{At: at})
}

type featuredFlags struct {
	resolver *RuleResolver
	clock    Clock
	logger   *logger.Logger

	mu    sync.RWMutex
	cache cache.Cache
}

// NewFeaturedFlags builds the evaluator. c may be nil to run without a cache.
func NewFeaturedFlags(rules repository.RuleRepository, c cache.Cache, log *logger.Logger, opts ...Option) FeaturedFlags {
	f := &featuredFlags{
		resolver: NewRuleResolver(rules, log),
		clock:    SystemClock{},
		logger:   log,
		cache:    c,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *featuredFlags) IsEnabled(ctx context.Context, flagName string, filter map[string]string) (bool, error) {
	result, err := f.evaluate(ctx, operationIsEnabled, IsEnabledPrefix, flagName, filter)
	if err != nil {
		return false, err
	}
	return result.IsEnabled(), nil
}

func (f *featuredFlags) GetEnabledValues(ctx context.Context, flagName string, filter map[string]string) (map[string]string, error) {
	result, err := f.evaluate(ctx, operationGetEnabledValues, GetEnabledValuesPrefix, flagName, filter)
	if err != nil {
		return nil, err
	}
	return result.Parameters(), nil
}

func (f *featuredFlags) SetCache(c cache.Cache) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = c
}

func (f *featuredFlags) currentCache() cache.Cache {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cache
}

func (f *featuredFlags) evaluate(ctx context.Context, operation, prefix, flagName string, filter map[string]string) (*entity.Result, error) {
	started := time.Now()
	defer metrics.RecordEvaluation(operation, started)

	key := CacheKey(prefix, flagName, filter)
	c := f.currentCache()

	if c != nil {
		if cached, ok := f.readCache(ctx, c, operation, key); ok {
			return cached, nil
		}
	}

	now := f.clock.Now()
	result, err := f.resolver.Resolve(ctx, flagName, filter, now)
	if err != nil {
		f.logger.Errorw("Failed to resolve flag", "error", err, "flag", flagName)
		return nil, fmt.Errorf("failed to resolve flag %q: %w", flagName, err)
	}

	if c != nil {
		f.writeCache(ctx, c, operation, key, result, now)
	}
	return result, nil
}

// readCache reports a hit only for a well-formed payload. Every failure is a miss.
func (f *featuredFlags) readCache(ctx context.Context, c cache.Cache, operation, key string) (*entity.Result, bool) {
	data, err := c.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.RecordCacheRequest(operation, "miss")
		return nil, false
	case err != nil:
		metrics.RecordCacheRequest(operation, "error")
		f.logger.Warnw("Cache read failed, evaluating from store", "error", err, "key", key)
		return nil, false
	}

	result, err := entity.DecodeResult(data)
	if err != nil {
		metrics.RecordCacheRequest(operation, "decode_error")
		f.logger.Warnw("Discarding malformed cache entry", "error", err, "key", key)
		return nil, false
	}

	metrics.RecordCacheRequest(operation, "hit")
	return result, true
}

func (f *featuredFlags) writeCache(ctx context.Context, c cache.Cache, operation, key string, result *entity.Result, now time.Time) {
	ttl, ok := result.TTL(now)
	if !ok {
		metrics.RecordCacheWrite(operation, "skipped")
		f.logger.Debugw("Result validity already elapsed, not caching", "key", key)
		return
	}

	data, err := result.MarshalBinary()
	if err != nil {
		metrics.RecordCacheWrite(operation, "error")
		f.logger.Warnw("Failed to encode result for cache", "error", err, "key", key)
		return
	}

	if err := c.Set(ctx, key, data, ttl); err != nil {
		metrics.RecordCacheWrite(operation, "error")
		f.logger.Warnw("Cache write failed", "error", err, "key", key, "ttl", ttl)
		return
	}
	metrics.RecordCacheWrite(operation, "ok")
}

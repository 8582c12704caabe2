package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"featuredflags/pkg/metrics"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker in front of a cache backend.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

// CircuitBreakerCache short-circuits calls to a failing backend. A miss is not
// counted as a failure.
type CircuitBreakerCache struct {
	next Cache
	cb   *gobreaker.CircuitBreaker
}

func NewCircuitBreakerCache(next Cache, cfg BreakerConfig) *CircuitBreakerCache {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			recordBreakerState(name, to)
		},
	}

	cb := gobreaker.NewCircuitBreaker(settings)
	recordBreakerState(cfg.Name, cb.State())

	return &CircuitBreakerCache{next: next, cb: cb}
}

func (c *CircuitBreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.next.Get(ctx, key)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker %s rejected get: %w", c.cb.Name(), err)
		}
		return nil, err
	}

	value, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("cache returned invalid result type")
	}
	return value, nil
}

func (c *CircuitBreakerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.next.Set(ctx, key, value, ttl)
	})
	if err != nil && (errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)) {
		return fmt.Errorf("circuit breaker %s rejected set: %w", c.cb.Name(), err)
	}
	return err
}

func (c *CircuitBreakerCache) State() gobreaker.State {
	return c.cb.State()
}

func (c *CircuitBreakerCache) IsOpen() bool {
	return c.cb.State() == gobreaker.StateOpen
}

func recordBreakerState(name string, state gobreaker.State) {
	var value float64
	switch state {
	case gobreaker.StateClosed:
		value = 0
	case gobreaker.StateHalfOpen:
		value = 1
	case gobreaker.StateOpen:
		value = 2
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(value)
}

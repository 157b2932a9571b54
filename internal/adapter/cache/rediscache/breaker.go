package rediscache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	// BreakerClosed lets every call through.
	BreakerClosed BreakerState = iota
	// BreakerOpen skips Redis until the recovery timeout passes.
	BreakerOpen
	// BreakerHalfOpen lets a single probe through.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker stops talking to Redis after consecutive failures and probes it
// again once the recovery timeout has passed.
type Breaker struct {
	mu               sync.Mutex
	failureThreshold int
	recoveryTimeout  time.Duration
	state            BreakerState
	failures         int
	openedAt         time.Time
	probing          bool
	now              func() time.Time
}

// NewBreaker opens after threshold consecutive failures. Non-positive values
// fall back to 3 failures and 30s.
func NewBreaker(threshold int, recovery time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if recovery <= 0 {
		recovery = 30 * time.Second
	}
	return &Breaker{failureThreshold: threshold, recoveryTimeout: recovery, now: time.Now}
}

// Allow reports whether a call may reach Redis.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.recoveryTimeout {
			return false
		}
		b.state = BreakerHalfOpen
		b.probing = true
		return true
	case BreakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

// Record feeds the outcome of an allowed call back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
	if err == nil {
		if b.state != BreakerClosed {
			slog.Info("redis cache circuit closed")
		}
		b.state = BreakerClosed
		b.failures = 0
		return
	}
	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.failureThreshold {
		if b.state != BreakerOpen {
			slog.Warn("redis cache circuit opened",
				slog.Int("failures", b.failures),
				slog.Duration("recovery", b.recoveryTimeout),
				slog.Any("error", err))
		}
		b.state = BreakerOpen
		b.openedAt = b.now()
	}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Guarded skips the inner cache while the breaker is open. A skipped Get is
// a miss and a skipped Set is a no-op, so recommendations keep flowing while
// Redis is down.
type Guarded struct {
	Inner   domain.RecommendationCache
	Breaker *Breaker
}

var _ domain.RecommendationCache = (*Guarded)(nil)

// NewGuarded wraps inner with b.
func NewGuarded(inner domain.RecommendationCache, b *Breaker) *Guarded {
	return &Guarded{Inner: inner, Breaker: b}
}

func (g *Guarded) Get(ctx domain.Context, version, key string) ([]domain.Recommendation, bool, error) {
	if !g.Breaker.Allow() {
		return nil, false, nil
	}
	recs, ok, err := g.Inner.Get(ctx, version, key)
	g.Breaker.Record(err)
	return recs, ok, err
}

func (g *Guarded) Set(ctx domain.Context, version, key string, recs []domain.Recommendation) error {
	if !g.Breaker.Allow() {
		return nil
	}
	err := g.Inner.Set(ctx, version, key, recs)
	g.Breaker.Record(err)
	return err
}

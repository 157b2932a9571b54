package config

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds retry configuration shared by startup connects and event publishing.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialDelay is the initial delay before first retry
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration
	// Multiplier is the exponential backoff multiplier
	Multiplier float64
}

// GetRetryConfig returns the retry configuration
func (c Config) GetRetryConfig() RetryConfig {
	if c.IsTest() {
		return RetryConfig{MaxRetries: 1, InitialDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond, Multiplier: 2}
	}
	return RetryConfig{
		MaxRetries:   c.RetryMaxRetries,
		InitialDelay: c.RetryInitialDelay,
		MaxDelay:     c.RetryMaxDelay,
		Multiplier:   c.RetryMultiplier,
	}
}

// BackOff builds a bounded exponential backoff policy from the config.
func (r RetryConfig) BackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if r.InitialDelay > 0 {
		eb.InitialInterval = r.InitialDelay
	}
	if r.MaxDelay > 0 {
		eb.MaxInterval = r.MaxDelay
	}
	if r.Multiplier > 1 {
		eb.Multiplier = r.Multiplier
	}
	eb.MaxElapsedTime = 0
	retries := r.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(eb, uint64(retries))
}

package retry

import (
	"context"
	"fmt"
	"time"
)

// Func defines the function signature for a retryable operation.
type Func func(ctx context.Context) error

// Config defines the configuration for the retry mechanism.
type Config struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Interval    time.Duration `mapstructure:"interval"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Interval:    time.Second,
		MaxInterval: 10 * time.Second,
	}
}

// Execute performs an operation with bounded retries and doubling
// backoff. Returns the last error when all attempts fail.
func Execute(ctx context.Context, cfg *Config, op Func) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	interval := cfg.Interval
	for i := 1; i <= attempts; i++ {
		if err := op(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		interval *= 2
		if cfg.MaxInterval > 0 && interval > cfg.MaxInterval {
			interval = cfg.MaxInterval
		}
	}

	return fmt.Errorf("exhausted %d attempts: %w", attempts, lastErr)
}

package inference

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the parameters for the rate limiter.
type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled"`
	BucketSize int     `yaml:"bucket_size"`
	RefillTPS  float64 `yaml:"refill_token_per_sec"`
}

// Validate rejects an enabled limiter with unusable parameters.
func (c RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RefillTPS <= 0.0 {
		return fmt.Errorf("inference limiter refill rate must be positive")
	}
	if c.BucketSize <= 0 {
		return fmt.Errorf("inference limiter bucket size must be positive")
	}
	return nil
}

// NewLimiterFromConfig returns nil when rate limiting is disabled.
func (c RateLimitConfig) NewLimiterFromConfig(logger *logrus.Entry) *rate.Limiter {
	if !c.Enabled {
		return nil
	}
	logger.Infof("inference rate limit enabled: %.2f tokens/sec, bucket size %d", c.RefillTPS, c.BucketSize)
	return rate.NewLimiter(rate.Limit(c.RefillTPS), c.BucketSize)
}

// limitedInvoker waits on a token bucket before every call.
type limitedInvoker struct {
	next    Invoker
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// WithRateLimit wraps inv with the configured limiter. A disabled
// config returns inv unchanged.
func WithRateLimit(inv Invoker, conf RateLimitConfig, logger *logrus.Entry) Invoker {
	limiter := conf.NewLimiterFromConfig(logger)
	if limiter == nil {
		return inv
	}
	return &limitedInvoker{next: inv, limiter: limiter, logger: logger}
}

func (l *limitedInvoker) Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	l.logger.Trace("waiting for limiter")
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	l.logger.Trace("acquired limiter")
	return l.next.Invoke(ctx, modelID, payload)
}

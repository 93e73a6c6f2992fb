// Package pacing implements the request pacing policies applied before each
// call to the generation service.
package pacing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"localebatch/internal/ports/output"
)

// Policy names accepted in configuration.
const (
	PolicyFixed       = "fixed"
	PolicyTokenBucket = "token-bucket"
	PolicyNone        = "none"
)

// DefaultDelay is the wait before every request under the fixed policy.
const DefaultDelay = 5 * time.Second

type Config struct {
	Policy string
	Delay  time.Duration
	RPS    float64
	Burst  int
}

// New builds the pacer for cfg.Policy. An empty policy means fixed.
func New(cfg Config) (output.Pacer, error) {
	switch cfg.Policy {
	case PolicyFixed, "":
		if cfg.Delay < 0 {
			return nil, fmt.Errorf("pacing: negative delay %s", cfg.Delay)
		}
		return NewFixedDelay(cfg.Delay), nil
	case PolicyTokenBucket:
		if cfg.RPS <= 0 {
			return nil, fmt.Errorf("pacing: token-bucket needs a positive rps, got %v", cfg.RPS)
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		return NewTokenBucket(cfg.RPS, burst), nil
	case PolicyNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("pacing: unknown policy %q", cfg.Policy)
	}
}

// FixedDelay sleeps for the same duration before every request.
type FixedDelay struct {
	delay time.Duration
}

func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

func (p *FixedDelay) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TokenBucket lets bursts through and then holds requests to rps.
type TokenBucket struct {
	limiter *rate.Limiter
}

func NewTokenBucket(rps float64, burst int) *TokenBucket {
	return &TokenBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (p *TokenBucket) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// None never waits.
type None struct{}

func (None) Wait(ctx context.Context) error {
	return ctx.Err()
}

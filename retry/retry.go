// Package retry provides decorators that add exponential backoff to
// transient provider failures.
package retry

import (
	"context"
	"time"

	"github.com/dkowalski/docrag"
)

// Policy controls the backoff schedule. The delay before retry n is
// InitialDelay * Base^n, capped at MaxDelay.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Base         float64
}

// DefaultPolicy returns the backoff schedule used against embedding
// providers: up to 5 attempts starting at 1s, doubling, capped at 60s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Base:         2.0,
	}
}

// PolicyFromConfig derives a Policy from the application configuration.
func PolicyFromConfig(cfg docrag.Config) Policy {
	p := DefaultPolicy()
	p.MaxAttempts = cfg.RetryMaxAttempts
	p.InitialDelay = cfg.RetryInitialDelay
	p.MaxDelay = cfg.RetryMaxDelay
	return p
}

// Delay returns the backoff delay preceding retry attempt (zero-based).
func (p Policy) Delay(attempt int) time.Duration {
	delay := float64(p.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= p.Base
	}
	if capped := float64(p.MaxDelay); delay > capped {
		delay = capped
	}
	return time.Duration(delay)
}

// Retryable reports whether an error is worth retrying. Validation and
// dimension errors are deterministic and never recover on retry.
func Retryable(err error) bool {
	switch docrag.ErrorCode(err) {
	case docrag.EINVALID, docrag.EDIMENSION:
		return false
	}
	return true
}

// SleepFunc waits for the given duration or until the context is done.
// Extracted so tests can run without real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Embedder wraps another Embedder and retries transient failures with
// exponential backoff.
type Embedder struct {
	next   docrag.Embedder
	policy Policy

	// Sleep waits between attempts. Overridable for tests.
	Sleep SleepFunc
}

var _ docrag.Embedder = (*Embedder)(nil)

// NewEmbedder returns an Embedder that delegates to next and retries
// per the given policy.
func NewEmbedder(next docrag.Embedder, policy Policy) *Embedder {
	return &Embedder{next: next, policy: policy, Sleep: sleep}
}

// Embed delegates to the wrapped embedder, retrying transient failures.
// The last error is returned once attempts are exhausted.
func (e *Embedder) Embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		vectors, err := e.next.Embed(ctx, texts, inputType)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if !Retryable(err) || attempt >= e.policy.MaxAttempts-1 {
			break
		}
		if err := e.Sleep(ctx, e.policy.Delay(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// Dimension reports the wrapped embedder's output dimension.
func (e *Embedder) Dimension() int {
	return e.next.Dimension()
}

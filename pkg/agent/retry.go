package agent

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"devcrew/pkg/agent/llmerrors"
	"devcrew/pkg/logx"
)

// RetryConfig bounds retry behavior for retryable model failures.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
}

// DefaultRetryConfig provides reasonable defaults.
//
//nolint:gochecknoglobals // package default, copied by value
var DefaultRetryConfig = RetryConfig{
	MaxRetries:    2,
	InitialDelay:  500 * time.Millisecond,
	MaxDelay:      10 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
}

// RetryableClient wraps an LLMClient with bounded retry. Only failures
// classified retryable by llmerrors are retried; exhaustion propagates the
// last error, which aborts the run.
type RetryableClient struct {
	client LLMClient
	config RetryConfig
	logger *logx.Logger
}

// NewRetryableClient wraps client with the given retry configuration.
func NewRetryableClient(client LLMClient, config RetryConfig) *RetryableClient {
	return &RetryableClient{
		client: client,
		config: config,
		logger: logx.NewLogger("llm-retry"),
	}
}

// Complete implements LLMClient with retry.
func (r *RetryableClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return CompletionResponse{}, ctx.Err()
			case <-time.After(r.delay(attempt)):
			}
		}

		resp, err := r.client.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !llmerrors.IsRetryable(err) {
			break
		}
		if attempt < r.config.MaxRetries {
			r.logger.Warn("model call failed (attempt %d/%d): %v", attempt+1, r.config.MaxRetries+1, err)
		}
	}

	return CompletionResponse{}, fmt.Errorf("model call failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// delay computes the exponential backoff delay for an attempt.
func (r *RetryableClient) delay(attempt int) time.Duration {
	d := float64(r.config.InitialDelay) * math.Pow(r.config.BackoffFactor, float64(attempt-1))
	if d > float64(r.config.MaxDelay) {
		d = float64(r.config.MaxDelay)
	}
	if r.config.Jitter {
		d *= 0.5 + rand.Float64()/2 //nolint:gosec // jitter, not crypto
	}
	return time.Duration(d)
}

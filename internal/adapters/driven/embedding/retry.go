// Package embedding provides shared embedding service decorators.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
)

// Ensure Retrying implements the interface.
var _ driven.EmbeddingService = (*Retrying)(nil)

// Default retry configuration.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 500 * time.Millisecond
)

// Retrying wraps an embedding service with bounded exponential backoff
// on transient timeouts. Configuration errors and other permanent
// failures pass through without retrying.
type Retrying struct {
	inner        driven.EmbeddingService
	maxAttempts  int
	initialDelay time.Duration
}

// RetryOption configures a Retrying decorator.
type RetryOption func(*Retrying)

// WithMaxAttempts sets the total number of attempts per call.
func WithMaxAttempts(n int) RetryOption {
	return func(r *Retrying) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry. The delay
// doubles on each subsequent retry.
func WithInitialDelay(d time.Duration) RetryOption {
	return func(r *Retrying) {
		if d > 0 {
			r.initialDelay = d
		}
	}
}

// NewRetrying wraps inner with retry behaviour.
func NewRetrying(inner driven.EmbeddingService, opts ...RetryOption) *Retrying {
	r := &Retrying{
		inner:        inner,
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// isTimeout reports whether err represents a transient timeout worth
// retrying.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// retry runs fn up to maxAttempts times, backing off between timeout
// failures. The caller's context cancels the backoff sleep.
func (r *Retrying) retry(ctx context.Context, fn func() error) error {
	delay := r.initialDelay
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTimeout(lastErr) {
			return lastErr
		}
		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%w after %d attempts: %v", domain.ErrEmbeddingTimeout, r.maxAttempts, lastErr)
}

// Embed generates a vector embedding, retrying on timeouts.
func (r *Retrying) Embed(ctx context.Context, text string) ([]float32, error) {
	var result []float32
	err := r.retry(ctx, func() error {
		var embedErr error
		result, embedErr = r.inner.Embed(ctx, text)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EmbedBatch generates embeddings for multiple texts, retrying on
// timeouts. The whole batch is retried as a unit.
func (r *Retrying) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := r.retry(ctx, func() error {
		var embedErr error
		result, embedErr = r.inner.EmbedBatch(ctx, texts)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Dimensions returns the wrapped service's vector size.
func (r *Retrying) Dimensions() int {
	return r.inner.Dimensions()
}

// Fingerprint returns the wrapped service's fingerprint. Retry
// behaviour does not change the embedding function.
func (r *Retrying) Fingerprint() string {
	return r.inner.Fingerprint()
}

// Close closes the wrapped service.
func (r *Retrying) Close() error {
	return r.inner.Close()
}

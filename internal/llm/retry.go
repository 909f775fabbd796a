package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient Generate failures with jittered
// exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return retry(ctx, r.config, func() (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// RetryTranscriber applies the same policy to a Transcriber.
type RetryTranscriber struct {
	inner  Transcriber
	config RetryConfig
}

// WithTranscribeRetry wraps a Transcriber with retry logic.
func WithTranscribeRetry(t Transcriber, cfg RetryConfig) Transcriber {
	return &RetryTranscriber{inner: t, config: cfg}
}

func (r *RetryTranscriber) Transcribe(ctx context.Context, req TranscribeRequest) (*Transcription, error) {
	return retry(ctx, r.config, func() (*Transcription, error) {
		return r.inner.Transcribe(ctx, req)
	})
}

func (r *RetryTranscriber) ModelID() string {
	return r.inner.ModelID()
}

// retryClass says how a failed call may be repeated.
type retryClass int

const (
	retryNever retryClass = iota
	retryOnce
	retryTransient
)

func classify(err error) retryClass {
	var (
		maxTok *ErrMaxTokensExceeded
		auth   *ErrAuth
		inv    *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retryNever
	case errors.Is(err, ErrEmptyAudio), errors.As(err, &maxTok), errors.As(err, &auth):
		return retryNever
	case errors.As(err, &inv):
		return retryOnce
	default:
		return retryTransient
	}
}

func retry[T any](ctx context.Context, cfg RetryConfig, call func() (T, error)) (T, error) {
	var zero T
	retriedInvalid := false
	attempts := max(cfg.MaxAttempts, 1)

	for attempt := 0; ; attempt++ {
		out, err := call()
		if err == nil {
			return out, nil
		}

		switch classify(err) {
		case retryNever:
			return zero, err
		case retryOnce:
			if retriedInvalid {
				return zero, err
			}
			retriedInvalid = true
		}
		if attempt == attempts-1 {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(cfg, attempt, err)):
		}
	}
}

// backoff computes the wait before the next attempt. A server-supplied
// Retry-After is honoured but never waits past MaxWait, since the answer
// clock keeps running.
func backoff(cfg RetryConfig, attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if cfg.MaxWait > 0 {
			return min(rl.RetryAfter, cfg.MaxWait)
		}
		return rl.RetryAfter
	}

	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	if cfg.MaxWait > 0 {
		wait = min(wait, float64(cfg.MaxWait))
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1) // ±20% jitter
	return time.Duration(max(wait, 0))
}

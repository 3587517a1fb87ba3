// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retry runs an operation again after transient failures, waiting
// an exponentially growing and jittered interval between attempts.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Func must respect ctx.
type Func func(ctx context.Context) error

// RetryIf reports whether err is worth another attempt.
type RetryIf func(error) bool

// Backoff returns the wait before retry number attempt, starting at 0.
type Backoff func(attempt int) time.Duration

// Fixed waits the same interval every time.
func Fixed(interval time.Duration) Backoff {
	return func(int) time.Duration { return interval }
}

// Exponential doubles base on every attempt, capped at limit when limit > 0.
func Exponential(base, limit time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base << attempt
		if d <= 0 || (limit > 0 && d > limit) {
			return limit
		}
		return d
	}
}

// Jitter randomizes a computed wait.
type Jitter func(time.Duration) time.Duration

func NoJitter(d time.Duration) time.Duration { return d }

// FullJitter picks uniformly from [0, d).
func FullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return rand.N(d)
}

type config struct {
	maxAttempts int
	backoff     Backoff
	jitter      Jitter
	retryIf     RetryIf
}

type Option func(*config)

// WithMaxAttempts counts the first call too. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

func WithJitter(j Jitter) Option {
	return func(c *config) {
		if j != nil {
			c.jitter = j
		}
	}
}

func WithRetryIf(fn RetryIf) Option {
	return func(c *config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// Do calls fn until it succeeds, returns an error retryIf rejects, or runs
// out of attempts. The last error is returned.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{
		maxAttempts: 3,
		backoff:     Exponential(500*time.Millisecond, 5*time.Second),
		jitter:      FullJitter,
		retryIf:     IsRetryable,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil || !cfg.retryIf(lastErr) || attempt == cfg.maxAttempts-1 {
			return lastErr
		}

		if wait := cfg.jitter(cfg.backoff(attempt)); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			}
		}
	}
	return lastErr
}

// IsRetryable retries everything except cancellation.
func IsRetryable(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

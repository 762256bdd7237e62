// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Backoff retries an operation with exponentially growing delays.
type Backoff struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Delay is the wait before the second attempt. It doubles after each retry.
	Delay time.Duration

	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration

	// Retryable reports whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool

	Logger *slog.Logger
}

// Do runs op until it succeeds, returns a permanent error, or runs out of
// attempts. The error of the last attempt is returned. A server supplied
// Retry-After longer than the computed delay takes precedence.
func (b Backoff) Do(ctx context.Context, op func() error) error {
	if b.Attempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = op(); err == nil {
			if attempt > 1 {
				logger.Debug("request succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if attempt == b.Attempts || (b.Retryable != nil && !b.Retryable(err)) {
			return err
		}

		wait := b.delay(attempt)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.RetryAfter > wait {
			wait = statusErr.RetryAfter
		}
		logger.Debug("request failed, retrying", "attempt", attempt, "of", b.Attempts, "wait", wait, "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// delay returns the wait after the given failed attempt: Delay * 2^(attempt-1).
func (b Backoff) delay(attempt int) time.Duration {
	d := b.Delay
	for i := 1; i < attempt; i++ {
		d *= 2
		if b.MaxDelay > 0 && d >= b.MaxDelay {
			return b.MaxDelay
		}
	}
	if b.MaxDelay > 0 && d > b.MaxDelay {
		return b.MaxDelay
	}
	return d
}

// IsRetryable reports whether err is a timeout or an HTTP 429 response.
// Cancellation of the caller's context is never retryable.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// parseRetryAfter reads a Retry-After header given in seconds.
// HTTP dates are not supported and yield zero.
func parseRetryAfter(value string) time.Duration {
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

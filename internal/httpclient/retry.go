// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ParseRetryAfter returns a server-specified delay indicated by the Retry-After header.
// It supports both seconds and HTTP-date formats. Returns 0 when absent/invalid or when
// the computed delay would be negative.
func ParseRetryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	// Seconds form
	if n, err := strconv.Atoi(ra); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(ra); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// BackoffDuration computes capped exponential backoff for the given attempt (1-based),
// starting from base and capped at max. A jitter fraction in [0,1] expands/shrinks the
// delay uniformly within [1-jitter, 1+jitter]. Values outside bounds are clamped.
func BackoffDuration(attempt int, base, max time.Duration, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	if max <= 0 || max < base {
		max = base
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	// exp = base * 2^(attempt-1)
	d := base
	for i := 1; i < attempt; i++ {
		if d > max/2 {
			// avoid overflow; cap early
			d = max
			break
		}
		d *= 2
	}
	if d > max {
		d = max
	}
	if jitter > 0 && d > 0 {
		f := 1 - jitter + (2*jitter)*rand.Float64() // in [1-jitter, 1+jitter]
		d = time.Duration(float64(d) * f)
		if d < 0 {
			// guard against underflow due to rounding
			d = 0
		}
	}
	if d > max {
		d = max
	}
	return d
}

// IsContextError reports if err indicates context cancellation or deadline exceeded.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ShouldRetry classifies whether a request should be retried for given status/err.
// It does not look at the request method; CheckRetry narrows it for POST and PATCH.
//
// Policy:
//   - Never retry context cancellation/deadline errors (caller controls lifetime).
//   - Retry on HTTP 429 and 5xx (server signaled throttling or transient server failure).
//   - Transport-level retries are restricted to likely-transient conditions only:
//   - net.Error with Timeout()==true (includes DNS/socket timeouts)
//   - io.ErrUnexpectedEOF (truncated responses)
//   - Connection reset/aborted/broken pipe (syscall ECONNRESET/ECONNABORTED/EPIPE)
//   - DNS resolution failures like "no such host" are non-retryable unless they
//     reported a timeout.
func ShouldRetry(status int, err error) bool {
	// 1) Caller canceled or deadline exceeded: do not retry
	if IsContextError(err) {
		return false
	}
	// 2) Server-indicated retries
	if status == http.StatusTooManyRequests || status >= 500 {
		return true
	}
	if err == nil {
		return false
	}
	// 3) Known transient transport conditions
	// 3a) Timeouts
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	// 3b) Truncated/partial responses
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	// 3c) Low-level connection errors (reset/aborted/broken pipe)
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	// 4) Non-timeout DNS resolution failures would have matched 3a otherwise
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}
	// 5) Everything else: no retry
	return false
}

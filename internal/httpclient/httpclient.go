// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package httpclient builds the HTTP client used to talk to forge APIs.
//
// Retries cover HTTP 429 and 5xx plus a short list of transient transport
// failures, with capped exponential backoff and jitter. Non-idempotent
// requests (POST, PATCH) are only replayed after a 429. A server-provided
// Retry-After always wins over the computed backoff. When retries are
// exhausted the last response is handed back to the caller instead of being
// swallowed, so status classification still happens upstream.
package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Defaults applied when Options fields are zero.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetryMax      = 4
	DefaultRetryWaitMin  = 500 * time.Millisecond
	DefaultRetryWaitMax  = 5 * time.Second
	DefaultBackoffJitter = 0.2
)

// Options configures New.
type Options struct {
	Timeout time.Duration
	// Retry enables retries on 429/5xx and transient transport errors.
	Retry        bool
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Transport is the innermost round tripper. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.RetryMax <= 0 {
		o.RetryMax = DefaultRetryMax
	}
	if o.RetryWaitMin <= 0 {
		o.RetryWaitMin = DefaultRetryWaitMin
	}
	if o.RetryWaitMax <= 0 {
		o.RetryWaitMax = DefaultRetryWaitMax
	}
	if o.RetryWaitMax < o.RetryWaitMin {
		o.RetryWaitMax = o.RetryWaitMin
	}
	if o.Transport == nil {
		o.Transport = http.DefaultTransport
	}
	return o
}

// New constructs the HTTP client with the optional retry/backoff policy.
func New(opts Options) *http.Client {
	opts = opts.withDefaults()
	if !opts.Retry {
		return &http.Client{Timeout: opts.Timeout, Transport: opts.Transport}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: opts.Transport}
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = opts.RetryWaitMin
	rc.RetryWaitMax = opts.RetryWaitMax
	rc.CheckRetry = CheckRetry
	rc.Backoff = Backoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	// retryablehttp logs every attempt at info level otherwise
	rc.Logger = nil

	httpClient := rc.StandardClient()
	httpClient.Transport = methodTagger{next: httpClient.Transport}
	httpClient.Timeout = opts.Timeout
	return httpClient
}

type methodKey struct{}

// methodTagger records the request method in the context so CheckRetry can
// see it when the attempt failed without a response.
type methodTagger struct {
	next http.RoundTripper
}

func (m methodTagger) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := context.WithValue(req.Context(), methodKey{}, req.Method)
	return m.next.RoundTrip(req.WithContext(ctx))
}

func requestMethod(ctx context.Context, resp *http.Response) string {
	if resp != nil && resp.Request != nil {
		return resp.Request.Method
	}
	if m, ok := ctx.Value(methodKey{}).(string); ok {
		return m
	}
	return http.MethodGet
}

// Idempotent reports whether method may be replayed safely (RFC 9110 9.2.2).
func Idempotent(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodConnect:
		return false
	}
	return true
}

// CheckRetry is the retryablehttp.CheckRetry policy built on ShouldRetry.
func CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if !Idempotent(requestMethod(ctx, resp)) {
		return err == nil && status == http.StatusTooManyRequests, nil
	}
	return ShouldRetry(status, err), nil
}

// Backoff is the retryablehttp.Backoff policy: Retry-After when the server
// sent one, capped exponential backoff with jitter otherwise.
func Backoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
		if ra := ParseRetryAfter(resp.Header); ra > 0 {
			return ra
		}
	}
	// retryablehttp counts attempts from zero
	return BackoffDuration(attemptNum+1, min, max, DefaultBackoffJitter)
}

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"
)

type fakeNetErr struct{ timeout bool }

func (e fakeNetErr) Error() string   { return "fake net error" }
func (e fakeNetErr) Timeout() bool   { return e.timeout }
func (e fakeNetErr) Temporary() bool { return true }

func TestShouldRetry_Cases(t *testing.T) {
	if !ShouldRetry(http.StatusTooManyRequests, nil) {
		t.Fatal("expected retry for 429")
	}
	if !ShouldRetry(http.StatusBadGateway, nil) {
		t.Fatal("expected retry for 502")
	}
	if ShouldRetry(http.StatusUnauthorized, nil) {
		t.Fatal("expected no retry for 401")
	}
	if ShouldRetry(http.StatusNotFound, nil) {
		t.Fatal("expected no retry for 404")
	}
	if ShouldRetry(0, context.DeadlineExceeded) {
		t.Fatal("expected no retry for context deadline exceeded")
	}
	if !ShouldRetry(0, fakeNetErr{timeout: true}) {
		t.Fatal("expected retry for net.Error timeout with status 0")
	}
	if ShouldRetry(0, fakeNetErr{timeout: false}) {
		t.Fatal("expected no retry for non-timeout net.Error")
	}
}

func TestShouldRetry_DNSError_NoTimeout_NoRetry(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "gitlab.invalid"}
	if ShouldRetry(0, err) {
		t.Fatalf("expected no retry for non-timeout DNS error: %v", err)
	}
}

func TestShouldRetry_TransientTransport_Retry(t *testing.T) {
	if !ShouldRetry(0, io.ErrUnexpectedEOF) {
		t.Fatal("expected retry for io.ErrUnexpectedEOF")
	}
	opErr := &net.OpError{Err: &os.SyscallError{Syscall: "read", Err: syscall.ECONNRESET}}
	if !ShouldRetry(0, opErr) {
		t.Fatalf("expected retry for connection reset error: %v", opErr)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := ParseRetryAfter(http.Header{"Retry-After": []string{"30"}}); d != 30*time.Second {
		t.Fatalf("expected 30s, got %s", d)
	}

	future := time.Now().Add(3 * time.Second).UTC().Format(http.TimeFormat)
	d := ParseRetryAfter(http.Header{"Retry-After": []string{future}})
	if d <= 0 || d > 10*time.Second {
		t.Fatalf("expected small positive duration for HTTP-date, got %s", d)
	}

	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	for _, h := range []http.Header{nil, {}, {"Retry-After": []string{"soon"}}, {"Retry-After": []string{past}}} {
		if got := ParseRetryAfter(h); got != 0 {
			t.Fatalf("expected 0 for %v, got %s", h, got)
		}
	}
}

func TestBackoffDuration_NoJitter_Cap(t *testing.T) {
	base := 500 * time.Millisecond
	maxBackoff := 5 * time.Second
	cases := []struct {
		attempt int
		exp     time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, 500 * time.Millisecond},
		{2, 1 * time.Second},
		{3, 2 * time.Second},
		{4, 4 * time.Second},
		{5, 5 * time.Second},
		{10, 5 * time.Second},
	}
	for _, c := range cases {
		got := BackoffDuration(c.attempt, base, maxBackoff, 0)
		if got != c.exp {
			t.Fatalf("attempt %d: got %s, want %s", c.attempt, got, c.exp)
		}
	}
}

func TestBackoffDuration_WithJitter_Bounds(t *testing.T) {
	base := 500 * time.Millisecond
	maxBackoff := 5 * time.Second
	exp := 4 * time.Second
	j := 0.2
	lower := time.Duration(float64(exp) * (1 - j))
	upper := maxBackoff
	for i := 0; i < 20; i++ {
		got := BackoffDuration(4, base, maxBackoff, j)
		if got < lower || got > upper {
			t.Fatalf("jittered duration out of bounds: got=%s lower=%s upper=%s", got, lower, upper)
		}
	}
}

func TestIsContextError(t *testing.T) {
	if !IsContextError(context.Canceled) || !IsContextError(context.DeadlineExceeded) {
		t.Fatal("expected IsContextError to be true for context errors")
	}
	if IsContextError(nil) {
		t.Fatal("expected IsContextError to be false for nil error")
	}
}

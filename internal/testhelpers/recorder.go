// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package testhelpers

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"

	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

const (
	// RecordEnv switches recorders to record mode when set to "1".
	RecordEnv = "FORGE_RECORD"
	// TokenEnv holds the token used while recording.
	TokenEnv = "GITLAB_TOKEN"
	// ReplayToken is sent in replay mode. Cassettes never store a real token.
	ReplayToken = "replay-token"
	// FixturesDir is the cassette directory relative to the test package.
	FixturesDir = "testdata/fixtures"
)

// Options tune NewRecorder.
type Options struct {
	// Dir overrides FixturesDir.
	Dir string
	// RealTransport is used in record mode. Defaults to http.DefaultTransport.
	RealTransport http.RoundTripper
}

// Recording reports whether tests run against the live API.
func Recording() bool { return os.Getenv(RecordEnv) == "1" }

// Token returns the live token in record mode and ReplayToken otherwise.
func Token(t *testing.T) string {
	t.Helper()
	if !Recording() {
		return ReplayToken
	}
	token := strings.TrimSpace(os.Getenv(TokenEnv))
	if token == "" {
		t.Fatalf("%s must be set when %s=1", TokenEnv, RecordEnv)
	}
	return token
}

// NewRecorder returns a cassette recorder for name, stopped on test cleanup.
// Replay fails any request that has no unused matching interaction.
func NewRecorder(t *testing.T, name string, opts Options) *recorder.Recorder {
	t.Helper()
	dir := opts.Dir
	if dir == "" {
		dir = FixturesDir
	}
	mode := recorder.ModeReplayOnly
	if Recording() {
		mode = recorder.ModeRecordOnly
	}

	r, err := recorder.NewWithOptions(&recorder.Options{
		CassetteName:       filepath.Join(dir, name),
		Mode:               mode,
		RealTransport:      opts.RealTransport,
		SkipRequestLatency: true,
	})
	if err != nil {
		t.Fatalf("open cassette %q: %v", name, err)
	}
	r.SetMatcher(MatchRequest)
	r.AddHook(ScrubInteraction, recorder.BeforeSaveHook)

	t.Cleanup(func() {
		if err := r.Stop(); err != nil {
			t.Errorf("stop recorder %q: %v", name, err)
		}
	})
	return r
}

// MatchRequest matches on method and normalized URL: host, decoded path and
// query parameters regardless of order.
func MatchRequest(r *http.Request, i cassette.Request) bool {
	if r.Method != i.Method {
		return false
	}
	recorded, err := url.Parse(i.URL)
	if err != nil {
		return false
	}
	return NormalizeURL(r.URL) == NormalizeURL(recorded)
}

// NormalizeURL renders u as host, decoded path and sorted query.
func NormalizeURL(u *url.URL) string {
	path := u.Path
	if u.RawPath != "" {
		if p, err := url.PathUnescape(u.RawPath); err == nil {
			path = p
		}
	}
	out := strings.ToLower(u.Host) + strings.TrimSuffix(path, "/")
	if q := u.Query().Encode(); q != "" {
		out += "?" + q
	}
	return out
}

// ScrubInteraction removes credentials from an interaction before it is saved.
func ScrubInteraction(i *cassette.Interaction) error {
	i.Request.Headers = redact.Headers(i.Request.Headers)
	i.Response.Headers = redact.Headers(i.Response.Headers)
	delete(i.Response.Headers, "Set-Cookie")
	i.Request.URL = redact.Secrets(i.Request.URL)
	i.Request.Body = redact.Secrets(i.Request.Body)
	return nil
}

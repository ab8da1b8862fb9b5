// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge/gitlab"
	"github.com/devops-wiz/terraform-provider-forge/internal/httpclient"
)

// buildHTTPClient constructs the HTTP client with optional retry/backoff policy.
func buildHTTPClient(rc resolvedConfig) *http.Client {
	return httpclient.New(httpclient.Options{
		Timeout:      time.Duration(rc.httpTimeoutSeconds) * time.Second,
		Retry:        rc.retryOn4295xx,
		RetryMax:     rc.retryMaxAttempts,
		RetryWaitMin: time.Duration(rc.retryInitialBackoffMs) * time.Millisecond,
		RetryWaitMax: time.Duration(rc.retryMaxBackoffMs) * time.Millisecond,
	})
}

// initService creates the GitLab service with the provider user agent.
func (p *ForgeProvider) initService(httpClient *http.Client, rc resolvedConfig) (*gitlab.Service, error) {
	return gitlab.NewService(gitlab.Config{
		BaseURL:    rc.baseURL,
		Token:      rc.token,
		HTTPClient: httpClient,
		UserAgent:  fmt.Sprintf("devops-wiz/terraform-provider-forge/%s", p.version),
		RateLimit:  rc.rateLimit,
	})
}

// testConnection resolves the token owner and appends diagnostics on failure.
func (p *ForgeProvider) testConnection(ctx context.Context, svc *gitlab.Service, rc resolvedConfig, diags *diag.Diagnostics) bool {
	username, err := svc.User().Username(ctx)
	if !EnsureSuccessOrDiag(ctx, "authenticate (current user)", err, diags, nil) {
		return false
	}
	fields := map[string]interface{}{"host": svc.Hostname(), "username": username}
	if email, err := svc.User().Email(ctx); err == nil && email != "" {
		fields["email"] = sanitizeEmail(email, rc)
	}
	tflog.Info(ctx, "authenticated against gitlab", fields)
	return true
}

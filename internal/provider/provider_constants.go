// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

// Centralized attribute names used in provider configuration schema and validation
const (
	attrBaseURL             = "base_url"
	attrToken               = "token"
	attrHTTPTimeoutSeconds  = "http_timeout_seconds"
	attrRetryOn4295xx       = "retry_on_429_5xx"
	attrRetryMaxAttempts    = "retry_max_attempts"
	attrRetryInitialBackoff = "retry_initial_backoff_ms"
	attrRetryMaxBackoff     = "retry_max_backoff_ms"
	attrRateLimit           = "rate_limit"
	attrEmailRedactionMode  = "email_redaction_mode"
	attrOperationTimeouts   = "operation_timeouts"
)

// Environment variables read when the matching attribute is unset.
const (
	envBaseURL            = "GITLAB_BASE_URL"
	envBaseURLAlias       = "CI_SERVER_URL"
	envToken              = "GITLAB_TOKEN"
	envTokenAlias         = "GITLAB_PRIVATE_TOKEN"
	envEmailRedactionMode = "FORGE_EMAIL_REDACTION_MODE"
)

// Centralized provider defaults
const (
	defaultBaseURL               = "https://gitlab.com"
	defaultHTTPTimeoutSeconds    = 30
	defaultRetryOn4295xx         = true
	defaultRetryMaxAttempts      = 4
	defaultRetryInitialBackoffMs = 500
	defaultRetryMaxBackoffMs     = 5000
	defaultEmailRedactionMode    = "full"
)

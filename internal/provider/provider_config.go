// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

// deriveResolvedConfig merges HCL, environment and defaults into one config.
func deriveResolvedConfig(data ForgeProviderModel) resolvedConfig {
	baseURL := readStringWithAliases(data.BaseURL, envBaseURL, envBaseURLAlias)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	token := strings.TrimSpace(readStringWithAliases(data.Token, envToken, envTokenAlias))

	// HTTP
	httpTimeoutSeconds := readInt64Default(data.HTTPTimeoutSeconds, defaultHTTPTimeoutSeconds)

	// Retry
	retryOn4295xx := readBoolDefault(data.RetryOn4295xx, defaultRetryOn4295xx)
	retryMaxAttempts := readInt64Default(data.RetryMaxAttempts, defaultRetryMaxAttempts)
	retryInitialBackoffMs := readInt64Default(data.RetryInitialBackoffMs, defaultRetryInitialBackoffMs)
	retryMaxBackoffMs := readInt64Default(data.RetryMaxBackoffMs, defaultRetryMaxBackoffMs)
	rateLimit := readFloat64Default(data.RateLimit, 0)

	// Privacy & Redaction
	mode := strings.ToLower(strings.TrimSpace(readString(data.EmailRedactionMode, envEmailRedactionMode)))
	if mode != redact.EmailFull && mode != redact.EmailMask {
		mode = defaultEmailRedactionMode
	}

	return resolvedConfig{
		baseURL:               baseURL,
		token:                 token,
		httpTimeoutSeconds:    httpTimeoutSeconds,
		retryOn4295xx:         retryOn4295xx,
		retryMaxAttempts:      retryMaxAttempts,
		retryInitialBackoffMs: retryInitialBackoffMs,
		retryMaxBackoffMs:     retryMaxBackoffMs,
		rateLimit:             rateLimit,
		emailRedactionMode:    mode,
	}
}

// validation per-section
func validateBase(rc resolvedConfig) []validationErr {
	u, err := url.Parse(rc.baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return []validationErr{{attr: attrBaseURL, summary: "Invalid Base URL Configuration.", detail: fmt.Sprintf("base_url must be an absolute http(s) URL such as %s; got %q", defaultBaseURL, rc.baseURL)}}
	}
	if u.User != nil {
		return []validationErr{{attr: attrBaseURL, summary: "Invalid Base URL Configuration.", detail: "base_url must not embed credentials; use 'token' or " + envToken + " instead."}}
	}
	return nil
}

func validateAuth(rc resolvedConfig) []validationErr {
	if strings.ContainsAny(rc.token, " \t\r\n") {
		return []validationErr{{attr: attrToken, summary: "Invalid Token Configuration.", detail: fmt.Sprintf("token must not contain whitespace; got %q", rc.token)}}
	}
	return nil
}

func validateHTTP(rc resolvedConfig) []validationErr {
	var errs []validationErr
	if rc.httpTimeoutSeconds < 1 || rc.httpTimeoutSeconds > 600 {
		errs = append(errs, validationErr{attr: attrHTTPTimeoutSeconds, summary: "Invalid HTTP Timeout Configuration.", detail: fmt.Sprintf("http_timeout_seconds must be between 1 and 600 seconds; got %d", rc.httpTimeoutSeconds)})
	}
	if rc.rateLimit < 0 {
		errs = append(errs, validationErr{attr: attrRateLimit, summary: "Invalid Rate Limit Configuration.", detail: fmt.Sprintf("rate_limit must be zero (server advertised) or a positive number of requests per second; got %g", rc.rateLimit)})
	}
	return errs
}

func validateRetry(rc resolvedConfig) []validationErr {
	if !rc.retryOn4295xx {
		return nil
	}
	var errs []validationErr
	if rc.retryMaxAttempts < 1 || rc.retryMaxAttempts > 10 {
		errs = append(errs, validationErr{attr: attrRetryMaxAttempts, summary: "Invalid Retry Attempts Configuration.", detail: fmt.Sprintf("retry_max_attempts must be between 1 and 10; got %d", rc.retryMaxAttempts)})
	}
	if rc.retryInitialBackoffMs < 100 || rc.retryInitialBackoffMs > 600000 {
		errs = append(errs, validationErr{attr: attrRetryInitialBackoff, summary: "Invalid Retry Backoff Configuration.", detail: fmt.Sprintf("retry_initial_backoff_ms must be between 100 and 600000 milliseconds; got %d", rc.retryInitialBackoffMs)})
	}
	if rc.retryMaxBackoffMs < 100 || rc.retryMaxBackoffMs > 600000 {
		errs = append(errs, validationErr{attr: attrRetryMaxBackoff, summary: "Invalid Retry Backoff Configuration.", detail: fmt.Sprintf("retry_max_backoff_ms must be between 100 and 600000 milliseconds; got %d", rc.retryMaxBackoffMs)})
	}
	if rc.retryInitialBackoffMs > rc.retryMaxBackoffMs {
		errs = append(errs, validationErr{attr: attrRetryInitialBackoff, summary: "Invalid Retry Backoff Configuration.", detail: "retry_initial_backoff_ms must be less than or equal to retry_max_backoff_ms."})
	}
	return errs
}

func validateResolvedConfig(rc resolvedConfig) []validationErr {
	var all []validationErr
	all = append(all, validateBase(rc)...)
	if len(all) == 0 { // if base fails, skip noisy follow-ups
		all = append(all, validateAuth(rc)...)
		all = append(all, validateHTTP(rc)...)
		all = append(all, validateRetry(rc)...)
	}

	for i := range all {
		all[i] = sanitizeValidationError(all[i], rc)
	}
	return all
}

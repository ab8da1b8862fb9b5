// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"net/url"
	"strings"

	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

// secretReplacements maps raw configured secrets to their redacted form.
func secretReplacements(rc resolvedConfig) map[string]string {
	replacements := map[string]string{}
	if rc.token != "" {
		replacements[rc.token] = redact.Value(rc.token)
	}
	if u, err := url.Parse(rc.baseURL); err == nil && u.User != nil {
		replacements[u.User.String()] = redact.Placeholder
		if pw, ok := u.User.Password(); ok && pw != "" {
			replacements[pw] = redact.Value(pw)
		}
	}
	return replacements
}

// sanitizeText removes configured secrets from s, then applies generic redaction.
func sanitizeText(s string, rc resolvedConfig) string {
	if s == "" {
		return s
	}
	for raw, red := range secretReplacements(rc) {
		if raw == "" {
			continue
		}
		s = strings.ReplaceAll(s, raw, red)
	}
	return redact.Secrets(s)
}

// sanitizeValidationError returns a copy of the given validation error with secrets redacted.
func sanitizeValidationError(e validationErr, rc resolvedConfig) validationErr {
	e.summary = sanitizeText(e.summary, rc)
	e.detail = sanitizeText(e.detail, rc)
	return e
}

// sanitizeEmail applies the configured e-mail redaction mode.
func sanitizeEmail(email string, rc resolvedConfig) string {
	return redact.Email(email, rc.emailRedactionMode)
}

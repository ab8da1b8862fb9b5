// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Tiny mapping helpers to reduce verbosity in map-to-state code.
func stringOrNull(s string) types.String {
	if s != "" {
		return types.StringValue(s)
	}
	return types.StringNull()
}

// knownString returns the value of s, or "" when null or unknown.
func knownString(s types.String) string {
	if s.IsNull() || s.IsUnknown() {
		return ""
	}
	return s.ValueString()
}

// ensureFunc reports success of an operation, recording diagnostics on failure.
type ensureFunc func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool

// ensureWith binds EnsureSuccessOrDiag to a diagnostics pointer.
// Use in Resource CRUD/Import methods to avoid repeating the closure at each callsite.
func ensureWith(diags *diag.Diagnostics) ensureFunc {
	return func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool {
		return EnsureSuccessOrDiag(ctx, action, err, diags, opts)
	}
}

// withTimeout wraps ctx with a timeout when d > 0. If d <= 0, it returns the
// original context and a no-op cancel, allowing callers to `defer cancel()` unconditionally.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	ctx2, cancel := context.WithTimeout(ctx, d)
	tflog.Debug(ctx2, "context deadline set for operation", map[string]interface{}{"timeout": d.String()})
	return ctx2, cancel
}

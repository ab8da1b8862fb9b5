// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

// parseOperationTimeouts parses the optional OperationTimeoutsModel into opTimeouts.
// It returns a slice of validationErr where attr is one of: create, read, update, delete
// (to be used with path.Root("operation_timeouts").AtName(attr)).
func parseOperationTimeouts(ot *OperationTimeoutsModel) (opTimeouts, []validationErr) {
	var res opTimeouts
	if ot == nil {
		return res, nil
	}
	var errs []validationErr
	for _, f := range []struct {
		name string
		raw  types.String
		dst  *time.Duration
	}{
		{"create", ot.Create, &res.Create},
		{"read", ot.Read, &res.Read},
		{"update", ot.Update, &res.Update},
		{"delete", ot.Delete, &res.Delete},
	} {
		if f.raw.IsNull() || f.raw.IsUnknown() {
			continue
		}
		d, err := time.ParseDuration(f.raw.ValueString())
		if err != nil || d <= 0 {
			errs = append(errs, validationErr{
				attr:    f.name,
				summary: fmt.Sprintf("Invalid %s timeout value.", f.name),
				detail:  fmt.Sprintf("Failed to parse duration %q: %v. Use values like '30s', '2m', greater than 0.", f.raw.ValueString(), err),
			})
			continue
		}
		*f.dst = d
	}
	return res, errs
}

// EnsureSuccessOrDiagOptions configures success and diagnostics behavior per operation.
// TreatNotFoundAsSuccess makes delete idempotent.
type EnsureSuccessOrDiagOptions struct {
	TreatNotFoundAsSuccess bool
}

// ErrorDiag builds a redacted summary and detail for a failed operation.
func ErrorDiag(op string, err error) (string, string) {
	summary := fmt.Sprintf("%s failed", op)
	var detailParts []string
	if err != nil {
		detailParts = append(detailParts, "Error: "+err.Error())
	}

	status := 0
	if apiErr, ok := forge.AsAPIError(err); ok {
		status = apiErr.StatusCode
	}
	detailParts = append(detailParts, fmt.Sprintf("HTTP status: %d", status))

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		detailParts = append(detailParts, "Hint: deadline exceeded; increase timeouts or check upstream latency.")
	case errors.Is(err, context.Canceled):
		detailParts = append(detailParts, "Hint: canceled; request was canceled or context deadline reached.")
	case forge.IsUnauthorized(err):
		detailParts = append(detailParts, "Hint: check that the token is valid, not expired, and carries the 'api' scope.")
	case forge.IsAlreadyExists(err):
		detailParts = append(detailParts, "Hint: a project with this name already exists; import it or choose another name.")
	case forge.IsNotFound(err):
		detailParts = append(detailParts, "Hint: the project or namespace does not exist or is not visible to the token.")
	}
	return redact.Secrets(summary), redact.Secrets(strings.Join(detailParts, "\n"))
}

// EnsureSuccessOrDiag reports whether err is nil (or tolerated by opts) and
// otherwise appends an error diagnostic.
func EnsureSuccessOrDiag(ctx context.Context, op string, err error, diags *diag.Diagnostics, opts *EnsureSuccessOrDiagOptions) bool {
	if err == nil {
		return true
	}
	if opts != nil && opts.TreatNotFoundAsSuccess && forge.IsNotFound(err) {
		tflog.Debug(ctx, "not found treated as success", map[string]interface{}{"op": op})
		return true
	}
	sum, det := ErrorDiag(op, err)
	diags.AddError(sum, det)
	return false
}

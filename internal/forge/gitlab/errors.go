// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package gitlab

import (
	"context"
	"errors"
	"net/http"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

const forgeName = "gitlab"

// statusOf returns the HTTP status carried by resp or err, or 0.
func statusOf(resp *gl.Response, err error) int {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	var errResp *gl.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	if errors.Is(err, gl.ErrNotFound) {
		return http.StatusNotFound
	}
	return 0
}

// translate maps a client outcome to forge errors. It returns nil when err is nil.
func translate(op string, resp *gl.Response, err error, create bool) error {
	if err == nil {
		return nil
	}
	status := statusOf(resp, err)
	var msg string
	var errResp *gl.ErrorResponse
	if errors.As(err, &errResp) {
		msg = errResp.Message
	}
	return &forge.APIError{
		Forge:      forgeName,
		Op:         op,
		StatusCode: status,
		Message:    redact.Secrets(msg),
		Kind:       forge.KindForStatus(status, msg, create),
		Err:        err,
	}
}

// check logs the outcome of op and translates a failure.
func check(ctx context.Context, op string, resp *gl.Response, err error) error {
	return logAndTranslate(ctx, op, resp, err, false)
}

// checkCreate is check for calls that create resources.
func checkCreate(ctx context.Context, op string, resp *gl.Response, err error) error {
	return logAndTranslate(ctx, op, resp, err, true)
}

func logAndTranslate(ctx context.Context, op string, resp *gl.Response, err error, create bool) error {
	fields := map[string]interface{}{"op": op, "status": statusOf(resp, err)}
	if err == nil {
		tflog.Debug(ctx, "gitlab api call succeeded", fields)
		return nil
	}
	out := translate(op, resp, err, create)
	fields["error"] = out.Error()
	tflog.Debug(ctx, "gitlab api call failed", fields)
	return out
}

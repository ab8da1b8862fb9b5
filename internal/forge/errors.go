// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package forge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

var (
	// ErrNotFound is returned when a remote resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when credentials are missing, invalid or insufficient.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyExists is returned when a create collides with an existing resource.
	ErrAlreadyExists = errors.New("already exists")
)

// APIError is a failed call against a forge API.
type APIError struct {
	// Forge names the backend, e.g. "gitlab".
	Forge string
	// Op is a short description of the attempted call, e.g. "create project".
	Op string
	// StatusCode is 0 for transport failures.
	StatusCode int
	Message    string
	// Kind is one of the package sentinels, or nil for an unclassified failure.
	Kind error
	// Err is the underlying client error.
	Err error
}

func (e *APIError) Error() string {
	var b strings.Builder
	if e.Forge != "" {
		b.WriteString(e.Forge)
		b.WriteString(": ")
	}
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(redact.Secrets(msg))
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Is reports whether target is the error's Kind.
func (e *APIError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// KindForStatus classifies an HTTP status code. Creates pass create=true so a
// 400 carrying message "has already been taken" counts as a duplicate.
func KindForStatus(status int, message string, create bool) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusConflict:
		return ErrAlreadyExists
	case create && status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "already been taken"):
		return ErrAlreadyExists
	}
	return nil
}

// IsNotFound reports whether err signals a missing resource.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsUnauthorized reports whether err signals an authorization failure.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsAlreadyExists reports whether err signals a duplicate create.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package forge defines the contract every Git-forge backend satisfies.
//
// Backends translate their client errors into the sentinels declared here, so
// callers can branch on failure kind without knowing which forge they talk to:
//   - ErrNotFound: the probed resource does not exist.
//   - ErrUnauthorized: the session may not perform the call (401/403).
//   - ErrAlreadyExists: a create collided with an existing resource.
//
// Any other failure is still an *APIError, the generic "provider API failure".
package forge

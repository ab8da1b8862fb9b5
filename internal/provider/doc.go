// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package provider implements the Terraform Provider for Git forges, backed by GitLab.
//
// Highlights:
//   - Auth: a personal, group or project access token; without one only public data is readable.
//   - Timeouts & retries: configurable HTTP timeout and capped exponential backoff; honors Retry-After.
//   - Errors: every backend failure is classified (not found, unauthorized, already exists) before
//     it becomes a diagnostic, and tokens are scrubbed from all messages.
//   - Stable IDs: projects are keyed by their full path (namespace/name).
//
// Further reading:
//   - Configuration & env vars: docs/index.md#configuration
//   - Examples: docs/ and examples/
package provider

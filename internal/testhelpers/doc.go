// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package testhelpers provides shared testing utilities used across unit,
// scenario and acceptance tests.
//
// Intended use:
//   - Scenario tests: cassette recorders that replay recorded GitLab traffic
//     from testdata/fixtures, or record it when FORGE_RECORD=1.
//   - Acceptance tests: Terraform configuration rendered from templates under
//     testdata/templates.
//
// Conventions:
//   - Cassettes never contain credentials; headers are scrubbed before save.
//   - Replay is strict: each recorded interaction answers exactly one request,
//     in recorded order.
//
// This package is for test code and is not part of the provider's public API.
package testhelpers

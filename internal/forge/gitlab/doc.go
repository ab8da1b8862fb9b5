// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package gitlab implements the forge contract on top of the GitLab REST API.
//
// A Service is a session against one GitLab instance, authenticated with a
// token or anonymous. Projects are lazy handles: Service.Project never touches
// the network, and the remote project is fetched on first use and cached.
//
// Every API call, including the package-level GetPullRequest accessor, funnels
// its outcome through the same translator, so callers always receive
// *forge.APIError values classified as forge.ErrNotFound,
// forge.ErrUnauthorized or forge.ErrAlreadyExists where applicable.
package gitlab

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package forge

import (
	"context"
	"strings"
	"time"
)

// PullRequestStatus is the state filter and state value of a pull request.
type PullRequestStatus string

const (
	PullRequestOpen   PullRequestStatus = "open"
	PullRequestClosed PullRequestStatus = "closed"
	PullRequestMerged PullRequestStatus = "merged"
	PullRequestAll    PullRequestStatus = "all"
)

// Service is a session against one forge instance.
type Service interface {
	Hostname() string
	Authenticated() bool
}

// User is the account a Service is authenticated as.
type User interface {
	Username(ctx context.Context) (string, error)
	Email(ctx context.Context) (string, error)
}

// Project is a handle to a remote repository.
type Project interface {
	Namespace() string
	Repo() string
	FullName() string
	Exists(ctx context.Context) (bool, error)
	Description(ctx context.Context) (string, error)
	Info(ctx context.Context) (*ProjectInfo, error)
	PullRequest(ctx context.Context, id int) (*PullRequest, error)
	ListPullRequests(ctx context.Context, status PullRequestStatus) ([]*PullRequest, error)
}

// ProjectInfo is a snapshot of a remote project.
type ProjectInfo struct {
	ID            int
	Namespace     string
	Repo          string
	FullName      string
	Description   string
	WebURL        string
	DefaultBranch string
	Private       bool
}

// PullRequest is a snapshot of a remote code-review request.
type PullRequest struct {
	// ID is the project-scoped number (GitLab IID).
	ID           int
	Title        string
	Description  string
	Status       PullRequestStatus
	SourceBranch string
	TargetBranch string
	Author       string
	URL          string
	CreatedAt    time.Time
}

// FullName joins a namespace and repository name into "namespace/repo".
func FullName(namespace, repo string) string {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		return repo
	}
	return namespace + "/" + repo
}

// SplitFullName splits "group/sub/repo" into ("group/sub", "repo").
func SplitFullName(fullName string) (namespace, repo string) {
	fullName = strings.Trim(fullName, "/")
	i := strings.LastIndex(fullName, "/")
	if i < 0 {
		return "", fullName
	}
	return fullName[:i], fullName[i+1:]
}

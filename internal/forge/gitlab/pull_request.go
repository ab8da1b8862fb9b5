// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package gitlab

import (
	"context"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// GetPullRequest fetches merge request id of project. Errors are translated
// exactly like the Project methods.
func GetPullRequest(ctx context.Context, project *Project, id int) (*forge.PullRequest, error) {
	mr, resp, err := project.service.client.MergeRequests.GetMergeRequest(project.pid(), id, nil, gl.WithContext(ctx))
	if err := check(ctx, "get merge request", resp, err); err != nil {
		return nil, err
	}
	return newPullRequest(mr.IID, mr.Title, mr.Description, mr.State, mr.SourceBranch, mr.TargetBranch, mr.Author, mr.WebURL, mr.CreatedAt), nil
}

// PullRequest fetches merge request id.
func (p *Project) PullRequest(ctx context.Context, id int) (*forge.PullRequest, error) {
	return GetPullRequest(ctx, p, id)
}

// ListPullRequests returns every merge request in the given state.
func (p *Project) ListPullRequests(ctx context.Context, status forge.PullRequestStatus) ([]*forge.PullRequest, error) {
	opt := &gl.ListProjectMergeRequestsOptions{
		ListOptions: gl.ListOptions{Page: 1, PerPage: listPageSize},
		State:       gl.Ptr(stateFilter(status)),
	}
	var out []*forge.PullRequest
	for {
		page, resp, err := p.service.client.MergeRequests.ListProjectMergeRequests(p.pid(), opt, gl.WithContext(ctx))
		if err := check(ctx, "list merge requests", resp, err); err != nil {
			return nil, err
		}
		for _, mr := range page {
			out = append(out, newPullRequest(mr.IID, mr.Title, mr.Description, mr.State, mr.SourceBranch, mr.TargetBranch, mr.Author, mr.WebURL, mr.CreatedAt))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opt.Page = resp.NextPage
	}
}

func newPullRequest(iid int, title, description, state, source, target string, author *gl.BasicUser, webURL string, created *time.Time) *forge.PullRequest {
	pr := &forge.PullRequest{
		ID:           iid,
		Title:        title,
		Description:  description,
		Status:       statusFromState(state),
		SourceBranch: source,
		TargetBranch: target,
		URL:          webURL,
	}
	if author != nil {
		pr.Author = author.Username
	}
	if created != nil {
		pr.CreatedAt = *created
	}
	return pr
}

// statusFromState maps GitLab merge request states. "locked" is an open
// request with a merge in progress.
func statusFromState(state string) forge.PullRequestStatus {
	switch state {
	case "merged":
		return forge.PullRequestMerged
	case "closed":
		return forge.PullRequestClosed
	default:
		return forge.PullRequestOpen
	}
}

func stateFilter(status forge.PullRequestStatus) string {
	switch status {
	case forge.PullRequestOpen:
		return "opened"
	case forge.PullRequestClosed:
		return "closed"
	case forge.PullRequestMerged:
		return "merged"
	default:
		return "all"
	}
}

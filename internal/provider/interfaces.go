// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/forge/gitlab"
)

// projectAPI is the slice of the forge backend the resources and data sources use.
// Projects are addressed by full path, e.g. "group/sub/repo".
type projectAPI interface {
	CreateProject(ctx context.Context, name string, opts *gitlab.CreateProjectOptions) (*forge.ProjectInfo, error)
	GetProject(ctx context.Context, fullPath string) (*forge.ProjectInfo, error)
	UpdateDescription(ctx context.Context, fullPath, description string) (*forge.ProjectInfo, error)
	DeleteProject(ctx context.Context, fullPath string) error
	// ListProjectsPage returns one page of the listing and the next page, 0 after the last.
	// opts.Language is not applied; callers filter with HasLanguage.
	ListProjectsPage(ctx context.Context, opts *gitlab.ListProjectsOptions, page, perPage int) ([]*forge.ProjectInfo, int, error)
	HasLanguage(ctx context.Context, fullPath, language string) (bool, error)
}

// gitlabProjects adapts *gitlab.Service to projectAPI.
type gitlabProjects struct {
	svc *gitlab.Service
}

var _ projectAPI = gitlabProjects{}

func newGitLabProjects(svc *gitlab.Service) gitlabProjects { return gitlabProjects{svc: svc} }

func (g gitlabProjects) handle(fullPath string) *gitlab.Project {
	ns, repo := forge.SplitFullName(fullPath)
	return g.svc.Project(ns, repo)
}

func (g gitlabProjects) CreateProject(ctx context.Context, name string, opts *gitlab.CreateProjectOptions) (*forge.ProjectInfo, error) {
	p, err := g.svc.CreateProject(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	return p.Info(ctx)
}

func (g gitlabProjects) GetProject(ctx context.Context, fullPath string) (*forge.ProjectInfo, error) {
	return g.handle(fullPath).Info(ctx)
}

func (g gitlabProjects) UpdateDescription(ctx context.Context, fullPath, description string) (*forge.ProjectInfo, error) {
	p := g.handle(fullPath)
	if err := p.SetDescription(ctx, description); err != nil {
		return nil, err
	}
	return p.Info(ctx)
}

func (g gitlabProjects) DeleteProject(ctx context.Context, fullPath string) error {
	return g.handle(fullPath).Delete(ctx)
}

func (g gitlabProjects) ListProjectsPage(ctx context.Context, opts *gitlab.ListProjectsOptions, page, perPage int) ([]*forge.ProjectInfo, int, error) {
	projects, next, err := g.svc.ListProjectsPage(ctx, opts, page, perPage)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*forge.ProjectInfo, 0, len(projects))
	for _, p := range projects {
		info, err := p.Info(ctx)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, info)
	}
	return out, next, nil
}

func (g gitlabProjects) HasLanguage(ctx context.Context, fullPath, language string) (bool, error) {
	return g.handle(fullPath).HasLanguage(ctx, language)
}

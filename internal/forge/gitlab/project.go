// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package gitlab

import (
	"context"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// Project is a handle to a GitLab project. The remote project is fetched on
// first use and cached. A Project is not safe for concurrent use.
type Project struct {
	service   *Service
	namespace string
	repo      string
	remote    *gl.Project
}

var _ forge.Project = (*Project)(nil)

func (p *Project) Namespace() string { return p.namespace }
func (p *Project) Repo() string      { return p.repo }
func (p *Project) FullName() string  { return forge.FullName(p.namespace, p.repo) }

// Service returns the session the handle belongs to.
func (p *Project) Service() *Service { return p.service }

// pid prefers the numeric ID once known so renames do not break the handle.
func (p *Project) pid() interface{} {
	if p.remote != nil && p.remote.ID != 0 {
		return p.remote.ID
	}
	return p.FullName()
}

// Remote returns the cached remote project, fetching it if needed.
func (p *Project) Remote(ctx context.Context) (*gl.Project, error) {
	if p.remote != nil {
		return p.remote, nil
	}
	remote, resp, err := p.service.client.Projects.GetProject(p.FullName(), nil, gl.WithContext(ctx))
	if err := check(ctx, "get project", resp, err); err != nil {
		return nil, err
	}
	p.remote = remote
	return remote, nil
}

// Exists reports whether the project exists. Only a not-found answer maps to
// false; other failures are returned.
func (p *Project) Exists(ctx context.Context) (bool, error) {
	if _, err := p.Remote(ctx); err != nil {
		if forge.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *Project) ID(ctx context.Context) (int, error) {
	r, err := p.Remote(ctx)
	if err != nil {
		return 0, err
	}
	return r.ID, nil
}

func (p *Project) Description(ctx context.Context) (string, error) {
	r, err := p.Remote(ctx)
	if err != nil {
		return "", err
	}
	return r.Description, nil
}

// SetDescription updates the description and refreshes the cache from the response.
func (p *Project) SetDescription(ctx context.Context, description string) error {
	updated, resp, err := p.service.client.Projects.EditProject(p.pid(), &gl.EditProjectOptions{
		Description: gl.Ptr(description),
	}, gl.WithContext(ctx))
	if err := check(ctx, "edit project", resp, err); err != nil {
		return err
	}
	p.remote = updated
	return nil
}

func (p *Project) WebURL(ctx context.Context) (string, error) {
	r, err := p.Remote(ctx)
	if err != nil {
		return "", err
	}
	return r.WebURL, nil
}

func (p *Project) DefaultBranch(ctx context.Context) (string, error) {
	r, err := p.Remote(ctx)
	if err != nil {
		return "", err
	}
	return r.DefaultBranch, nil
}

// IsPrivate reports whether the project is not publicly visible.
func (p *Project) IsPrivate(ctx context.Context) (bool, error) {
	r, err := p.Remote(ctx)
	if err != nil {
		return false, err
	}
	return r.Visibility != gl.PublicVisibility, nil
}

// Languages returns the language breakdown in percent, keyed by language name.
func (p *Project) Languages(ctx context.Context) (map[string]float32, error) {
	langs, resp, err := p.service.client.Projects.GetProjectLanguages(p.pid(), gl.WithContext(ctx))
	if err := check(ctx, "get project languages", resp, err); err != nil {
		return nil, err
	}
	out := make(map[string]float32)
	if langs != nil {
		for k, v := range *langs {
			out[k] = v
		}
	}
	return out, nil
}

// HasLanguage reports whether the language breakdown has language as an exact key.
func (p *Project) HasLanguage(ctx context.Context, language string) (bool, error) {
	langs, err := p.Languages(ctx)
	if err != nil {
		return false, err
	}
	_, ok := langs[language]
	return ok, nil
}

// Delete schedules the project for deletion.
func (p *Project) Delete(ctx context.Context) error {
	resp, err := p.service.client.Projects.DeleteProject(p.pid(), nil, gl.WithContext(ctx))
	if err := check(ctx, "delete project", resp, err); err != nil {
		return err
	}
	p.remote = nil
	return nil
}

// Info returns a snapshot of the remote project.
func (p *Project) Info(ctx context.Context) (*forge.ProjectInfo, error) {
	r, err := p.Remote(ctx)
	if err != nil {
		return nil, err
	}
	return &forge.ProjectInfo{
		ID:            r.ID,
		Namespace:     p.namespace,
		Repo:          p.repo,
		FullName:      p.FullName(),
		Description:   r.Description,
		WebURL:        r.WebURL,
		DefaultBranch: r.DefaultBranch,
		Private:       r.Visibility != gl.PublicVisibility,
	}, nil
}

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package gitlab

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://gitlab.com"

const listPageSize = 100

// Config configures a Service.
type Config struct {
	// BaseURL is the instance root, e.g. https://gitlab.example.com.
	BaseURL string
	// Token is a personal, project or group access token. Empty means anonymous.
	Token string
	// HTTPClient carries timeouts and retries. When set, the GitLab client's own
	// retry loop is disabled.
	HTTPClient *http.Client
	UserAgent  string
	// RateLimit caps requests per second. Zero defers to the limits the
	// instance advertises.
	RateLimit float64
}

// Service is a session against one GitLab instance. It is safe for concurrent use.
type Service struct {
	client  *gl.Client
	baseURL *url.URL
	token   string
	user    *User
}

var _ forge.Service = (*Service)(nil)

// NewService builds a Service. It performs no network calls.
func NewService(cfg Config) (*Service, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid GitLab base URL %q", redact.Secrets(base))
	}

	opts := []gl.ClientOptionFunc{gl.WithBaseURL(base)}
	if cfg.HTTPClient != nil {
		opts = append(opts, gl.WithHTTPClient(cfg.HTTPClient), gl.WithoutRetries())
	}
	if cfg.RateLimit > 0 {
		burst := int(math.Ceil(cfg.RateLimit))
		opts = append(opts, gl.WithCustomLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
	}

	client, err := gl.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	s := &Service{client: client, baseURL: u, token: cfg.Token}
	s.user = &User{service: s}
	return s, nil
}

// Instance returns the underlying GitLab client.
func (s *Service) Instance() *gl.Client { return s.client }

// Hostname returns the host of the configured base URL.
func (s *Service) Hostname() string { return s.baseURL.Hostname() }

// Authenticated reports whether a token is configured. It does not validate it.
func (s *Service) Authenticated() bool { return s.token != "" }

// User returns the account the token belongs to.
func (s *Service) User() *User { return s.user }

// Project returns a lazy handle. No request is made until a remote-backed
// method is called.
func (s *Service) Project(namespace, repo string) *Project {
	return &Project{service: s, namespace: strings.Trim(namespace, "/"), repo: repo}
}

// GetProject returns a handle whose remote project has been fetched.
func (s *Service) GetProject(ctx context.Context, namespace, repo string) (*Project, error) {
	p := s.Project(namespace, repo)
	if _, err := p.Remote(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProjectOptions are optional attributes of a new project.
type CreateProjectOptions struct {
	// Namespace is a group full path. Empty creates the project in the
	// token owner's personal namespace.
	Namespace   string
	Description string
}

// CreateProject creates a project named repo.
func (s *Service) CreateProject(ctx context.Context, repo string, opts *CreateProjectOptions) (*Project, error) {
	if opts == nil {
		opts = &CreateProjectOptions{}
	}
	payload := &gl.CreateProjectOptions{Name: gl.Ptr(repo)}

	if ns := strings.Trim(opts.Namespace, "/"); ns != "" {
		group, resp, err := s.client.Groups.GetGroup(ns, nil, gl.WithContext(ctx))
		if err := check(ctx, "get group", resp, err); err != nil {
			if forge.IsNotFound(err) {
				return nil, &forge.APIError{
					Forge:      forgeName,
					Op:         "create project",
					StatusCode: http.StatusNotFound,
					Message:    fmt.Sprintf("group %s not found", ns),
					Kind:       forge.ErrNotFound,
					Err:        err,
				}
			}
			return nil, err
		}
		payload.NamespaceID = gl.Ptr(group.ID)
	}
	if opts.Description != "" {
		payload.Description = gl.Ptr(opts.Description)
	}

	created, resp, err := s.client.Projects.CreateProject(payload, gl.WithContext(ctx))
	if err := checkCreate(ctx, "create project", resp, err); err != nil {
		return nil, err
	}
	return s.projectFromRemote(created), nil
}

// ListProjectsOptions filter ListProjects. All fields are optional.
type ListProjectsOptions struct {
	// Namespace lists the projects of a group.
	Namespace string
	// User lists the projects of a user. Ignored when Namespace is set.
	User   string
	Search string
	// Language keeps projects whose language breakdown has this exact key.
	Language string
}

// ListProjects returns every matching project across all pages.
//
// Without Namespace or User it lists the projects the token is a member of,
// or public projects for an anonymous service.
func (s *Service) ListProjects(ctx context.Context, opts *ListProjectsOptions) ([]*Project, error) {
	if opts == nil {
		opts = &ListProjectsOptions{}
	}

	var projects []*Project
	page := 1
	for {
		batch, next, err := s.ListProjectsPage(ctx, opts, page, listPageSize)
		if err != nil {
			return nil, err
		}
		for _, p := range batch {
			if opts.Language != "" {
				ok, err := p.HasLanguage(ctx, opts.Language)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			projects = append(projects, p)
		}
		if next == 0 {
			return projects, nil
		}
		page = next
	}
}

// ListProjectsPage fetches a single page (1-based) of the listing ListProjects
// walks and returns the next page number, 0 after the last page.
// Language is not applied here; callers filter with Project.HasLanguage.
func (s *Service) ListProjectsPage(ctx context.Context, opts *ListProjectsOptions, page, perPage int) ([]*Project, int, error) {
	if opts == nil {
		opts = &ListProjectsOptions{}
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > listPageSize {
		perPage = listPageSize
	}
	lo := gl.ListOptions{Page: page, PerPage: perPage}

	var remotes []*gl.Project
	var resp *gl.Response
	var err error
	switch {
	case opts.Namespace != "":
		opt := &gl.ListGroupProjectsOptions{ListOptions: lo}
		if opts.Search != "" {
			opt.Search = gl.Ptr(opts.Search)
		}
		remotes, resp, err = s.client.Groups.ListGroupProjects(strings.Trim(opts.Namespace, "/"), opt, gl.WithContext(ctx))
		err = check(ctx, "list group projects", resp, err)
	case opts.User != "":
		opt := &gl.ListProjectsOptions{ListOptions: lo}
		if opts.Search != "" {
			opt.Search = gl.Ptr(opts.Search)
		}
		remotes, resp, err = s.client.Projects.ListUserProjects(opts.User, opt, gl.WithContext(ctx))
		err = check(ctx, "list user projects", resp, err)
	default:
		opt := &gl.ListProjectsOptions{ListOptions: lo}
		if s.Authenticated() {
			opt.Membership = gl.Ptr(true)
		}
		if opts.Search != "" {
			opt.Search = gl.Ptr(opts.Search)
		}
		remotes, resp, err = s.client.Projects.ListProjects(opt, gl.WithContext(ctx))
		err = check(ctx, "list projects", resp, err)
	}
	if err != nil {
		return nil, 0, err
	}

	projects := make([]*Project, 0, len(remotes))
	for _, r := range remotes {
		projects = append(projects, s.projectFromRemote(r))
	}
	return projects, resp.NextPage, nil
}

func (s *Service) projectFromRemote(r *gl.Project) *Project {
	namespace, repo := forge.SplitFullName(r.PathWithNamespace)
	if r.Namespace != nil && r.Namespace.FullPath != "" {
		namespace = r.Namespace.FullPath
	}
	if r.Path != "" {
		repo = r.Path
	}
	return &Project{service: s, namespace: namespace, repo: repo, remote: r}
}

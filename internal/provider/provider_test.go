// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/providerserver"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-go/tfprotov6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/forge/gitlab"
)

// testAccPreCheck validates the environment acceptance tests run against.
func testAccPreCheck(t *testing.T) {
	if v := os.Getenv(envBaseURL); v != "" {
		u, err := url.Parse(v)
		if err != nil {
			t.Fatalf("%s is not a valid URL: %v", envBaseURL, err)
		}
		if u.Scheme != "https" && u.Scheme != "http" {
			t.Fatalf("%s must use an http(s) scheme", envBaseURL)
		}
		if u.User != nil {
			t.Fatalf("%s must not include credentials", envBaseURL)
		}
	}

	if v := os.Getenv(envToken); v == "" {
		t.Fatalf("%s must be set for acceptance tests", envToken)
	} else {
		if len(v) < 8 {
			t.Fatalf("%s appears too short", envToken)
		}
		if strings.ContainsAny(v, " \t\r\n") {
			t.Fatalf("%s must not contain whitespace", envToken)
		}
		lower := strings.ToLower(v)
		if lower == "changeme" || strings.Contains(lower, "example") {
			t.Fatalf("%s must not be a placeholder value", envToken)
		}
	}
}

// Provider factory for acceptance tests
var testAccProtoV6ProviderFactories = map[string]func() (tfprotov6.ProviderServer, error){
	"forge": providerserver.NewProtocol6WithError(New("test")()),
}

// fakeProjects is an in-memory projectAPI.
type fakeProjects struct {
	mu       sync.Mutex
	projects map[string]*forge.ProjectInfo
	owner    string
	err      error
	created  []*gitlab.CreateProjectOptions
	listOpts *gitlab.ListProjectsOptions

	// languages maps full path to the languages HasLanguage reports.
	languages map[string][]string
	langCalls int
}

var _ projectAPI = (*fakeProjects)(nil)

func newFakeProjects(owner string, seed ...*forge.ProjectInfo) *fakeProjects {
	f := &fakeProjects{projects: map[string]*forge.ProjectInfo{}, owner: owner}
	for _, p := range seed {
		f.projects[p.FullName] = p
	}
	return f
}

func (f *fakeProjects) CreateProject(_ context.Context, name string, opts *gitlab.CreateProjectOptions) (*forge.ProjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, opts)
	ns := f.owner
	if opts != nil && opts.Namespace != "" {
		ns = opts.Namespace
	}
	full := forge.FullName(ns, name)
	if _, ok := f.projects[full]; ok {
		return nil, &forge.APIError{Op: "create project", StatusCode: http.StatusBadRequest, Message: "has already been taken", Kind: forge.ErrAlreadyExists}
	}
	p := &forge.ProjectInfo{ID: len(f.projects) + 1, Namespace: ns, Repo: name, FullName: full, WebURL: "https://gitlab.example.com/" + full}
	if opts != nil {
		p.Description = opts.Description
	}
	f.projects[full] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) GetProject(_ context.Context, fullPath string) (*forge.ProjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.projects[fullPath]
	if !ok {
		return nil, &forge.APIError{Op: "get project", StatusCode: http.StatusNotFound, Kind: forge.ErrNotFound}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) UpdateDescription(ctx context.Context, fullPath, description string) (*forge.ProjectInfo, error) {
	f.mu.Lock()
	if p, ok := f.projects[fullPath]; ok && f.err == nil {
		p.Description = description
	}
	f.mu.Unlock()
	return f.GetProject(ctx, fullPath)
}

func (f *fakeProjects) DeleteProject(_ context.Context, fullPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.projects[fullPath]; !ok {
		return &forge.APIError{Op: "delete project", StatusCode: http.StatusNotFound, Kind: forge.ErrNotFound}
	}
	delete(f.projects, fullPath)
	return nil
}

func (f *fakeProjects) ListProjectsPage(_ context.Context, opts *gitlab.ListProjectsOptions, page, perPage int) ([]*forge.ProjectInfo, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpts = opts
	if f.err != nil {
		return nil, 0, f.err
	}
	keys := make([]string, 0, len(f.projects))
	for k, p := range f.projects {
		if opts != nil && opts.Namespace != "" && p.Namespace != opts.Namespace {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := (page - 1) * perPage
	if start >= len(keys) {
		return nil, 0, nil
	}
	end := start + perPage
	next := page + 1
	if end >= len(keys) {
		end = len(keys)
		next = 0
	}
	out := make([]*forge.ProjectInfo, 0, end-start)
	for _, k := range keys[start:end] {
		cp := *f.projects[k]
		out = append(out, &cp)
	}
	return out, next, nil
}

func (f *fakeProjects) HasLanguage(_ context.Context, fullPath, language string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.langCalls++
	if f.err != nil {
		return false, f.err
	}
	for _, l := range f.languages[fullPath] {
		if l == language {
			return true, nil
		}
	}
	return false, nil
}

func TestProvider_MetadataAndSchema(t *testing.T) {
	ctx := context.Background()
	p := New("1.2.3")()

	var meta provider.MetadataResponse
	p.Metadata(ctx, provider.MetadataRequest{}, &meta)
	assert.Equal(t, "forge", meta.TypeName)
	assert.Equal(t, "1.2.3", meta.Version)

	var sch provider.SchemaResponse
	p.Schema(ctx, provider.SchemaRequest{}, &sch)
	require.False(t, sch.Diagnostics.HasError(), "%v", sch.Diagnostics)
	assert.False(t, sch.Schema.ValidateImplementation(ctx).HasError())
	tokenAttr, ok := sch.Schema.Attributes[attrToken]
	require.True(t, ok)
	assert.True(t, tokenAttr.IsSensitive())
	for _, a := range []string{attrBaseURL, attrHTTPTimeoutSeconds, attrRetryOn4295xx, attrRetryMaxAttempts, attrRetryInitialBackoff, attrRetryMaxBackoff, attrRateLimit, attrEmailRedactionMode, attrOperationTimeouts} {
		assert.Contains(t, sch.Schema.Attributes, a)
	}
}

func TestProvider_ResourcesAndDataSources(t *testing.T) {
	ctx := context.Background()
	p := &ForgeProvider{}

	resources := p.Resources(ctx)
	require.Len(t, resources, 1)
	var rm resource.MetadataResponse
	resources[0]().Metadata(ctx, resource.MetadataRequest{ProviderTypeName: "forge"}, &rm)
	assert.Equal(t, "forge_project", rm.TypeName)

	var names []string
	for _, f := range p.DataSources(ctx) {
		var dm datasource.MetadataResponse
		f().Metadata(ctx, datasource.MetadataRequest{ProviderTypeName: "forge"}, &dm)
		names = append(names, dm.TypeName)
	}
	assert.ElementsMatch(t, []string{"forge_project", "forge_projects"}, names)
}

func TestServiceClient_ConfigureFrom(t *testing.T) {
	fake := newFakeProjects("me")
	p := &ForgeProvider{client: fake, providerTimeouts: opTimeouts{Read: 5}}

	var c ServiceClient
	var diags diag.Diagnostics
	c.configureFrom(p, "Resource", &diags)
	require.False(t, diags.HasError())
	assert.Same(t, fake, c.client)
	assert.Equal(t, opTimeouts{Read: 5}, c.providerTimeouts)

	var empty ServiceClient
	empty.configureFrom(nil, "Resource", &diags)
	assert.Nil(t, empty.client)

	empty.configureFrom("wrong", "Data Source", &diags)
	require.True(t, diags.HasError())
	assert.Contains(t, diags.Errors()[0].Summary(), "Data Source")
}

func newGitLabTestServer(t *testing.T, status int, user map[string]string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/v4/user" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(user)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testResolvedConfig(baseURL, token string) resolvedConfig {
	return resolvedConfig{
		baseURL:            baseURL,
		token:              token,
		httpTimeoutSeconds: 5,
		retryOn4295xx:      false,
		rateLimit:          1000,
		emailRedactionMode: "full",
	}
}

func TestTestConnection_Success(t *testing.T) {
	srv, calls := newGitLabTestServer(t, http.StatusOK, map[string]string{"username": "jane", "email": "jane@example.com"})
	rc := testResolvedConfig(srv.URL, "glpat-testtoken0000000000")
	p := &ForgeProvider{version: "test"}

	svc, err := p.initService(buildHTTPClient(rc), rc)
	require.NoError(t, err)
	require.True(t, svc.Authenticated())

	var diags diag.Diagnostics
	assert.True(t, p.testConnection(context.Background(), svc, rc, &diags))
	assert.False(t, diags.HasError())
	assert.Equal(t, 1, *calls, "current user is cached after the first lookup")
}

func TestTestConnection_Unauthorized(t *testing.T) {
	srv, _ := newGitLabTestServer(t, http.StatusUnauthorized, nil)
	rc := testResolvedConfig(srv.URL, "glpat-wrongtoken000000000")
	p := &ForgeProvider{version: "test"}

	svc, err := p.initService(buildHTTPClient(rc), rc)
	require.NoError(t, err)

	var diags diag.Diagnostics
	assert.False(t, p.testConnection(context.Background(), svc, rc, &diags))
	require.True(t, diags.HasError())
	d := diags.Errors()[0]
	assert.Equal(t, "authenticate (current user) failed", d.Summary())
	assert.Contains(t, d.Detail(), "HTTP status: 401")
	assert.NotContains(t, d.Detail(), "glpat-wrongtoken000000000")
}

func TestBuildHTTPClient_Timeout(t *testing.T) {
	rc := testResolvedConfig("https://gitlab.com", "")
	rc.httpTimeoutSeconds = 7
	c := buildHTTPClient(rc)
	assert.Equal(t, "7s", c.Timeout.String())
}

func TestProvider_ConfigureErrorsAreAttributed(t *testing.T) {
	var diags diag.Diagnostics
	addValidationErrors(&diags, []validationErr{
		{attr: attrBaseURL, summary: "bad url", detail: "d"},
		{summary: "general", detail: "d"},
	})
	addTimeoutErrors(&diags, []validationErr{{attr: "read", summary: "bad read", detail: "d"}})
	require.Equal(t, 3, diags.ErrorsCount())
}

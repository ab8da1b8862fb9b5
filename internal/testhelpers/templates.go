// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package testhelpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"
)

// AccNamespaceEnv names an optional group that acceptance tests create projects in.
const AccNamespaceEnv = "FORGE_ACC_NAMESPACE"

// TemplatePath returns the path to a template file under testdata/templates.
func TemplatePath(name string) string {
	return filepath.Join("testdata", "templates", name)
}

// MustReadTemplate reads a template by name or fails the test.
func MustReadTemplate(t *testing.T, name string) string {
	t.Helper()
	p := TemplatePath(name)
	b, err := os.ReadFile(p)
	if err != nil {
		wd, _ := os.Getwd()
		var candidates []string
		if entries, dirErr := os.ReadDir(filepath.Dir(p)); dirErr == nil {
			for _, e := range entries {
				if !e.IsDir() {
					candidates = append(candidates, e.Name())
				}
			}
		}
		t.Fatalf("failed to read template %q\n  path: %s\n  cwd:  %s\n  available templates: %v\n  error: %v", name, p, wd, candidates, err)
	}
	return string(b)
}

// MustRender executes the named template with data.
func MustRender(t *testing.T, name string, data any) string {
	t.Helper()
	tpl, err := template.New(name).Option("missingkey=error").Parse(MustReadTemplate(t, name))
	if err != nil {
		t.Fatalf("parse template %q: %v", name, err)
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		t.Fatalf("render template %q: %v", name, err)
	}
	return b.String()
}

// ProjectResource carries the inputs of project_resource.tf.tmpl.
type ProjectResource struct {
	Name        string
	Namespace   string
	Description string
}

// ProjectResourceConfig renders a forge_project "test" resource.
func ProjectResourceConfig(t *testing.T, p ProjectResource) string {
	t.Helper()
	return MustRender(t, "project_resource.tf.tmpl", p)
}

// ProjectDataSourceConfig renders a forge_project "test" data source.
func ProjectDataSourceConfig(t *testing.T, namespace, name string) string {
	t.Helper()
	return MustRender(t, "project_data_source.tf.tmpl", map[string]string{"Namespace": namespace, "Name": name})
}

// ProjectsDataSource carries the inputs of projects_data_source.tf.tmpl.
type ProjectsDataSource struct {
	Namespace string
	User      string
	Search    string
	Language  string
	MaxItems  int
}

// ProjectsDataSourceConfig renders a forge_projects "test" data source.
func ProjectsDataSourceConfig(t *testing.T, p ProjectsDataSource) string {
	t.Helper()
	return MustRender(t, "projects_data_source.tf.tmpl", p)
}

// AccNamespace returns the group for acceptance projects, or "" for the token owner's namespace.
func AccNamespace() string {
	return strings.TrimSpace(os.Getenv(AccNamespaceEnv))
}

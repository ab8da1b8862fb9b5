// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

type projectResourceModel struct {
	ID            types.String `tfsdk:"id"`
	Name          types.String `tfsdk:"name"`
	Namespace     types.String `tfsdk:"namespace"`
	Description   types.String `tfsdk:"description"`
	WebURL        types.String `tfsdk:"web_url"`
	DefaultBranch types.String `tfsdk:"default_branch"`
}

// projectPayload carries the writable attributes of forge_project.
type projectPayload struct {
	Name        string
	Namespace   string
	Description string
}

func (m *projectResourceModel) GetAPIPayload(_ context.Context) (*projectPayload, diag.Diagnostics) {
	return &projectPayload{
		Name:        knownString(m.Name),
		Namespace:   knownString(m.Namespace),
		Description: knownString(m.Description),
	}, nil
}

func (m *projectResourceModel) GetID() string { return m.ID.ValueString() }

// TransformToState maps a project snapshot into Terraform state.
func (m *projectResourceModel) TransformToState(_ context.Context, p *forge.ProjectInfo) diag.Diagnostics {
	diags := diag.Diagnostics{}
	if p == nil {
		diags.AddError("Unexpected empty API model when mapping project", "The forge API returned no project payload to map into state.")
		return diags
	}
	m.ID = types.StringValue(p.FullName)
	m.Name = types.StringValue(p.Repo)
	m.Namespace = stringOrNull(p.Namespace)
	m.Description = stringOrNull(p.Description)
	m.WebURL = stringOrNull(p.WebURL)
	m.DefaultBranch = stringOrNull(p.DefaultBranch)
	return diags
}

// projectsItemModel is one value of the forge_projects map.
type projectsItemModel struct {
	Namespace   types.String `tfsdk:"namespace"`
	Name        types.String `tfsdk:"name"`
	FullPath    types.String `tfsdk:"full_path"`
	Description types.String `tfsdk:"description"`
	WebURL      types.String `tfsdk:"web_url"`
}

func projectsItemAttrTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"namespace":   types.StringType,
		"name":        types.StringType,
		"full_path":   types.StringType,
		"description": types.StringType,
		"web_url":     types.StringType,
	}
}

func mapProjectInfoToItem(_ context.Context, p *forge.ProjectInfo) (projectsItemModel, diag.Diagnostics) {
	var diags diag.Diagnostics
	if p == nil {
		diags.AddError("Unexpected empty API model when mapping project", "The forge API returned an empty project entry.")
		return projectsItemModel{}, diags
	}
	return projectsItemModel{
		Namespace:   stringOrNull(p.Namespace),
		Name:        types.StringValue(p.Repo),
		FullPath:    types.StringValue(p.FullName),
		Description: stringOrNull(p.Description),
		WebURL:      stringOrNull(p.WebURL),
	}, diags
}

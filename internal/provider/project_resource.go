// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/forge/gitlab"
)

var _ resource.Resource = (*projectResource)(nil)
var _ resource.ResourceWithConfigure = (*projectResource)(nil)
var _ resource.ResourceWithImportState = (*projectResource)(nil)

var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// NewProjectResource returns the Terraform resource implementation for forge_project.
func NewProjectResource() resource.Resource { return &projectResource{} }

type projectResource struct {
	ServiceClient
}

func (r *projectResource) Metadata(_ context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_project"
}

func (r *projectResource) Configure(_ context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	r.configureFrom(req.ProviderData, "Resource", &resp.Diagnostics)
}

func (r *projectResource) Schema(_ context.Context, _ resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages a GitLab project. Only the description can change in place; renaming or moving a project replaces it.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "Full path of the project (namespace/name).",
			},
			"name": schema.StringAttribute{
				Required:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
				Validators:          []validator.String{stringvalidator.RegexMatches(projectNamePattern, "must start with a letter or digit and contain only letters, digits, '_', '-' or '.'")},
				MarkdownDescription: "Project path within its namespace.",
			},
			"namespace": schema.StringAttribute{
				Optional: true,
				Computed: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
					stringplanmodifier.UseStateForUnknown(),
				},
				MarkdownDescription: "Group full path to create the project in. Defaults to the personal namespace of the token owner.",
			},
			"description": schema.StringAttribute{
				Optional:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
				MarkdownDescription: "Project description.",
			},
			"web_url": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "Browser URL of the project.",
			},
			"default_branch": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Default branch, empty until the first push.",
			},
		},
	}
}

func (r *projectResource) createProject(ctx context.Context, p *projectPayload) (*forge.ProjectInfo, error) {
	return r.client.CreateProject(ctx, p.Name, &gitlab.CreateProjectOptions{
		Namespace:   p.Namespace,
		Description: p.Description,
	})
}

func (r *projectResource) getProject(ctx context.Context, id string) (*forge.ProjectInfo, error) {
	return r.client.GetProject(ctx, id)
}

func (r *projectResource) updateProject(ctx context.Context, id string, p *projectPayload) (*forge.ProjectInfo, error) {
	return r.client.UpdateDescription(ctx, id, p.Description)
}

func (r *projectResource) deleteProject(ctx context.Context, id string) error {
	return r.client.DeleteProject(ctx, id)
}

// hooks returns the CRUD hooks for the generic runner.
func (r *projectResource) hooks() CRUDHooks[projectResourceModel, *projectPayload, *forge.ProjectInfo] {
	return CRUDHooks[projectResourceModel, *projectPayload, *forge.ProjectInfo]{
		BuildPayload: func(ctx context.Context, st *projectResourceModel) (*projectPayload, diag.Diagnostics) {
			return st.GetAPIPayload(ctx)
		},
		APICreate: r.createProject,
		APIRead:   r.getProject,
		APIUpdate: r.updateProject,
		APIDelete: r.deleteProject,
		ExtractID: func(st *projectResourceModel) string { return st.GetID() },
		MapToState: func(ctx context.Context, api *forge.ProjectInfo, st *projectResourceModel) diag.Diagnostics {
			return st.TransformToState(ctx, api)
		},
		TreatDelete404AsSuccess: true,
	}
}

func (r *projectResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Create)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoCreate(
		ctx,
		func(ctx context.Context, dst *projectResourceModel) diag.Diagnostics {
			return req.Plan.Get(ctx, dst)
		},
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
			return resp.State.Set(ctx, src)
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *projectResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoRead(
		ctx,
		func(ctx context.Context, dst *projectResourceModel) diag.Diagnostics {
			return req.State.Get(ctx, dst)
		},
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
			return resp.State.Set(ctx, src)
		},
		func(ctx context.Context) { resp.State.RemoveResource(ctx) },
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *projectResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Update)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoUpdate(
		ctx,
		func(ctx context.Context, dst *projectResourceModel) diag.Diagnostics {
			return req.Plan.Get(ctx, dst)
		},
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
			return resp.State.Set(ctx, src)
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *projectResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Delete)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoDelete(
		ctx,
		func(ctx context.Context, dst *projectResourceModel) diag.Diagnostics {
			return req.State.Get(ctx, dst)
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

// ImportState accepts the project full path, e.g. "group/sub/repo".
func (r *projectResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoImport(
		ctx,
		req.ID,
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
			return resp.State.Set(ctx, src)
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

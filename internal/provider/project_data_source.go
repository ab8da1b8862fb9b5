// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

var _ datasource.DataSource = (*projectDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*projectDataSource)(nil)

// NewProjectDataSource returns the Terraform data source implementation for forge_project.
func NewProjectDataSource() datasource.DataSource { return &projectDataSource{} }

type projectDataSource struct {
	ServiceClient
}

type projectDataSourceModel struct {
	// Inputs
	Namespace types.String `tfsdk:"namespace"`
	Name      types.String `tfsdk:"name"`

	// Outputs (all computed)
	ID            types.String `tfsdk:"id"`
	Exists        types.Bool   `tfsdk:"exists"`
	Description   types.String `tfsdk:"description"`
	WebURL        types.String `tfsdk:"web_url"`
	DefaultBranch types.String `tfsdk:"default_branch"`
}

func (d *projectDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_project"
}

func (d *projectDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Look up a single GitLab project by namespace and name. A missing project is not an error; `exists` is false instead.",
		Attributes: map[string]schema.Attribute{
			"namespace": schema.StringAttribute{
				Required:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
				MarkdownDescription: "User or group full path owning the project.",
			},
			"name": schema.StringAttribute{
				Required:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
				MarkdownDescription: "Project path within the namespace.",
			},
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Full path of the project (namespace/name).",
			},
			"exists": schema.BoolAttribute{
				Computed:            true,
				MarkdownDescription: "Whether the project exists and is visible to the configured credentials.",
			},
			"description": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Project description.",
			},
			"web_url": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Browser URL of the project.",
			},
			"default_branch": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Default branch of the project.",
			},
		},
	}
}

func (d *projectDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.configureFrom(req.ProviderData, "Data Source", &resp.Diagnostics)
}

func (d *projectDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data projectDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	fullPath := forge.FullName(data.Namespace.ValueString(), data.Name.ValueString())
	data.ID = types.StringValue(fullPath)

	proj, err := d.client.GetProject(ctx, fullPath)
	if forge.IsNotFound(err) {
		tflog.Debug(ctx, "project not found", map[string]interface{}{"full_path": fullPath})
		data.Exists = types.BoolValue(false)
		data.Description = types.StringNull()
		data.WebURL = types.StringNull()
		data.DefaultBranch = types.StringNull()
		resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
		return
	}
	if !EnsureSuccessOrDiag(ctx, "get project", err, &resp.Diagnostics, nil) {
		return
	}

	// Reuse the resource mapping for consistency.
	var m projectResourceModel
	if diags := m.TransformToState(ctx, proj); diags.HasError() {
		resp.Diagnostics.Append(diags...)
		return
	}
	data.ID = m.ID
	data.Exists = types.BoolValue(true)
	data.Description = m.Description
	data.WebURL = m.WebURL
	data.DefaultBranch = m.DefaultBranch

	if diags := resp.State.Set(ctx, &data); diags.HasError() {
		resp.Diagnostics.AddError(
			"Failed to set data source state",
			"An unexpected error occurred while writing computed data to Terraform state. See diagnostics for details.",
		)
		resp.Diagnostics.Append(diags...)
		return
	}
}

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
	"github.com/devops-wiz/terraform-provider-forge/internal/forge/gitlab"
)

var _ datasource.DataSource = (*projectsDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*projectsDataSource)(nil)

// projectsWarnThreshold adds a "large result set" warning to uncapped listings.
const projectsWarnThreshold = 1000

// NewProjectsDataSource returns the Terraform data source implementation for forge_projects.
func NewProjectsDataSource() datasource.DataSource { return &projectsDataSource{} }

type projectsDataSource struct {
	ServiceClient
}

type projectsDataSourceModel struct {
	// Optional filters
	Namespace types.String `tfsdk:"namespace"`
	User      types.String `tfsdk:"user"`
	Search    types.String `tfsdk:"search"`
	Language  types.String `tfsdk:"language"`
	MaxItems  types.Int64  `tfsdk:"max_items"`

	// Outputs
	Projects types.Map `tfsdk:"projects"`
}

func (d *projectsDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_projects"
}

func (d *projectsDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "List GitLab projects of a group or user, or the projects the token is a member of. Public projects are listed when no token is configured.",
		Attributes: map[string]schema.Attribute{
			"namespace": schema.StringAttribute{
				Optional: true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
					stringvalidator.ConflictsWith(path.MatchRoot("user")),
				},
				MarkdownDescription: "Group full path; includes all pages of the group's projects.",
			},
			"user": schema.StringAttribute{
				Optional:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
				MarkdownDescription: "Username whose personal projects are listed.",
			},
			"search": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Server-side search on project name and path.",
			},
			"language": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Keep only projects whose language breakdown contains this language, matched exactly (e.g. `C++`). Costs one extra request per project.",
			},
			"max_items": schema.Int64Attribute{
				Optional:            true,
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
				MarkdownDescription: "Cap on the number of returned projects. A warning is emitted when the result is truncated.",
			},
			"projects": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: projectsItemAttrTypes()},
				MarkdownDescription: "Map of projects keyed by full path. Values include namespace, name, full_path, description and web_url.",
			},
		},
	}
}

func (d *projectsDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.configureFrom(req.ProviderData, "Data Source", &resp.Diagnostics)
}

// hooks pages through the listing so max_items stops both fetching and
// the per-project language lookups.
func (d *projectsDataSource) hooks(opts *gitlab.ListProjectsOptions) ListHooks[*forge.ProjectInfo, projectsItemModel] {
	h := ListHooks[*forge.ProjectInfo, projectsItemModel]{
		ListPage: func(ctx context.Context, page, perPage int) ([]*forge.ProjectInfo, int, diag.Diagnostics) {
			var diags diag.Diagnostics
			items, next, err := d.client.ListProjectsPage(ctx, opts, page, perPage)
			if !EnsureSuccessOrDiag(ctx, "list projects", err, &diags, nil) {
				return nil, 0, diags
			}
			return items, next, diags
		},
		KeyOf:     func(item *forge.ProjectInfo) string { return item.FullName },
		MapToOut:  mapProjectInfoToItem,
		AttrTypes: projectsItemAttrTypes,
	}
	if opts != nil && opts.Language != "" {
		h.Filter = func(ctx context.Context, item *forge.ProjectInfo) (bool, diag.Diagnostics) {
			var diags diag.Diagnostics
			ok, err := d.client.HasLanguage(ctx, item.FullName, opts.Language)
			if !EnsureSuccessOrDiag(ctx, "get project languages", err, &diags, nil) {
				return false, diags
			}
			return ok, diags
		}
	}
	return h
}

func (d *projectsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data projectsDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	opts := &gitlab.ListProjectsOptions{
		Namespace: knownString(data.Namespace),
		User:      knownString(data.User),
		Search:    knownString(data.Search),
		Language:  knownString(data.Language),
	}
	listOpts := ListOptions{RespectContext: true, WarnThreshold: projectsWarnThreshold}
	if !data.MaxItems.IsNull() && !data.MaxItems.IsUnknown() {
		listOpts.MaxItems = int(data.MaxItems.ValueInt64())
	}

	h := d.hooks(opts)
	objMap, diags := DoListToMapWithLimit(ctx, h, listOpts)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	var mDiag diag.Diagnostics
	data.Projects, mDiag = types.MapValueFrom(ctx, types.ObjectType{AttrTypes: h.AttrTypes()}, objMap)
	if mDiag.HasError() {
		resp.Diagnostics.AddAttributeError(
			path.Root("projects"),
			"Failed to build projects map",
			fmt.Sprintf("Could not encode %d projects into state. See diagnostics for details.", len(objMap)),
		)
		resp.Diagnostics.Append(mDiag...)
		return
	}

	if diags := resp.State.Set(ctx, &data); diags.HasError() {
		resp.Diagnostics.AddError(
			"Failed to set data source state",
			"An unexpected error occurred while writing computed data to Terraform state. See diagnostics for details.",
		)
		resp.Diagnostics.Append(diags...)
		return
	}
}

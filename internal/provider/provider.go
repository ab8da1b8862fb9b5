// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/devops-wiz/terraform-provider-forge/internal/redact"
)

// Ensure ForgeProvider satisfies various provider interfaces.
var _ provider.Provider = &ForgeProvider{}
var _ provider.ProviderWithValidateConfig = &ForgeProvider{}

// ForgeProvider defines the provider implementation.
type ForgeProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
	// client is the configured project backend.
	client projectAPI
	// providerTimeouts are the parsed operation_timeouts.
	providerTimeouts opTimeouts
}

// ForgeProviderModel describes the provider data model.
type ForgeProviderModel struct {
	// Base Configuration
	BaseURL types.String `tfsdk:"base_url"`
	Token   types.String `tfsdk:"token"`

	// HTTP
	HTTPTimeoutSeconds types.Int64   `tfsdk:"http_timeout_seconds"`
	RateLimit          types.Float64 `tfsdk:"rate_limit"`

	// Retry
	RetryOn4295xx         types.Bool  `tfsdk:"retry_on_429_5xx"`
	RetryMaxAttempts      types.Int64 `tfsdk:"retry_max_attempts"`
	RetryInitialBackoffMs types.Int64 `tfsdk:"retry_initial_backoff_ms"`
	RetryMaxBackoffMs     types.Int64 `tfsdk:"retry_max_backoff_ms"`

	// Privacy & Redaction
	EmailRedactionMode types.String `tfsdk:"email_redaction_mode"`

	OperationTimeouts *OperationTimeoutsModel `tfsdk:"operation_timeouts"`
}

func (p *ForgeProvider) Metadata(_ context.Context, _ provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "forge"
	resp.Version = p.version
}

func (p *ForgeProvider) Schema(_ context.Context, _ provider.SchemaRequest, resp *provider.SchemaResponse) {
	durationAttr := func(op string) schema.StringAttribute {
		return schema.StringAttribute{
			Optional:            true,
			MarkdownDescription: "Deadline for " + op + " operations as a Go duration (e.g. `30s`, `2m`).",
		}
	}
	resp.Schema = schema.Schema{
		MarkdownDescription: "Forge provider for managing GitLab projects through the official GitLab API client.",
		Attributes: map[string]schema.Attribute{
			// Base Configuration
			attrBaseURL: schema.StringAttribute{
				MarkdownDescription: "Base URL of the GitLab instance. Defaults to `https://gitlab.com`. Can also be set with `GITLAB_BASE_URL` or `CI_SERVER_URL`.",
				Optional:            true,
			},
			attrToken: schema.StringAttribute{
				MarkdownDescription: "Personal, group or project access token. Can also be set with `GITLAB_TOKEN` or `GITLAB_PRIVATE_TOKEN`. Without a token only public data is readable.",
				Optional:            true,
				Sensitive:           true,
			},

			// HTTP
			attrHTTPTimeoutSeconds: schema.Int64Attribute{
				MarkdownDescription: "Per-request HTTP timeout in seconds (1-600). Defaults to 30.",
				Optional:            true,
				Validators:          []validator.Int64{int64validator.Between(1, 600)},
			},
			attrRateLimit: schema.Float64Attribute{
				MarkdownDescription: "Client-side request rate in requests per second. Zero or unset uses the limit advertised by the server.",
				Optional:            true,
				Validators:          []validator.Float64{float64validator.AtLeast(0)},
			},

			// Retry
			attrRetryOn4295xx: schema.BoolAttribute{
				MarkdownDescription: "Retry requests answered with 429 or 5xx, honoring `Retry-After`. Defaults to true.",
				Optional:            true,
			},
			attrRetryMaxAttempts: schema.Int64Attribute{
				MarkdownDescription: "Maximum retry attempts (1-10). Defaults to 4.",
				Optional:            true,
				Validators:          []validator.Int64{int64validator.Between(1, 10)},
			},
			attrRetryInitialBackoff: schema.Int64Attribute{
				MarkdownDescription: "Initial retry backoff in milliseconds (100-600000). Defaults to 500.",
				Optional:            true,
				Validators:          []validator.Int64{int64validator.Between(100, 600000)},
			},
			attrRetryMaxBackoff: schema.Int64Attribute{
				MarkdownDescription: "Maximum retry backoff in milliseconds (100-600000). Defaults to 5000.",
				Optional:            true,
				Validators:          []validator.Int64{int64validator.Between(100, 600000)},
			},

			// Privacy & Redaction
			attrEmailRedactionMode: schema.StringAttribute{
				MarkdownDescription: "How e-mail addresses appear in logs: `full` hides them, `mask` keeps the first character and the domain. Defaults to `full`.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.OneOf(redact.EmailFull, redact.EmailMask)},
			},

			attrOperationTimeouts: schema.SingleNestedAttribute{
				MarkdownDescription: "Default deadlines applied to resource and data source operations.",
				Optional:            true,
				Attributes: map[string]schema.Attribute{
					"create": durationAttr("create"),
					"read":   durationAttr("read"),
					"update": durationAttr("update"),
					"delete": durationAttr("delete"),
				},
			},
		},
	}
}

func (p *ForgeProvider) ValidateConfig(ctx context.Context, req provider.ValidateConfigRequest, resp *provider.ValidateConfigResponse) {
	var data ForgeProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Unknown values are resolved at apply time; only check what is known now.
	if data.BaseURL.IsUnknown() || data.Token.IsUnknown() {
		return
	}

	rc := deriveResolvedConfig(data)
	addValidationErrors(&resp.Diagnostics, validateResolvedConfig(rc))

	_, errs := parseOperationTimeouts(data.OperationTimeouts)
	addTimeoutErrors(&resp.Diagnostics, errs)
}

func (p *ForgeProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data ForgeProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	rc := deriveResolvedConfig(data)
	if errs := validateResolvedConfig(rc); len(errs) > 0 {
		addValidationErrors(&resp.Diagnostics, errs)
		return
	}

	timeouts, errs := parseOperationTimeouts(data.OperationTimeouts)
	if len(errs) > 0 {
		addTimeoutErrors(&resp.Diagnostics, errs)
		return
	}

	svc, err := p.initService(buildHTTPClient(rc), rc)
	if err != nil {
		resp.Diagnostics.AddError("Error creating GitLab client", sanitizeText(err.Error(), rc))
		return
	}

	if svc.Authenticated() {
		if !p.testConnection(ctx, svc, rc, &resp.Diagnostics) {
			return
		}
	} else {
		tflog.Info(ctx, "no token configured; only public data is readable", map[string]interface{}{"host": svc.Hostname()})
	}

	p.client = newGitLabProjects(svc)
	p.providerTimeouts = timeouts

	resp.ResourceData = p
	resp.DataSourceData = p
}

func addValidationErrors(diags *diag.Diagnostics, errs []validationErr) {
	for _, e := range errs {
		if e.attr == "" {
			diags.AddError(e.summary, e.detail)
			continue
		}
		diags.AddAttributeError(path.Root(e.attr), e.summary, e.detail)
	}
}

func addTimeoutErrors(diags *diag.Diagnostics, errs []validationErr) {
	for _, e := range errs {
		diags.AddAttributeError(path.Root(attrOperationTimeouts).AtName(e.attr), e.summary, e.detail)
	}
}

func (p *ForgeProvider) Resources(_ context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewProjectResource,
	}
}

func (p *ForgeProvider) DataSources(_ context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewProjectDataSource,
		NewProjectsDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &ForgeProvider{
			version: version,
		}
	}
}

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/diag"
)

// ServiceClient is embedded by resources and data sources to receive the
// configured backend from the provider.
type ServiceClient struct {
	client           projectAPI
	providerTimeouts opTimeouts
}

// configureFrom copies the client out of provider data. kind names the
// receiver in the diagnostic, e.g. "Resource".
func (c *ServiceClient) configureFrom(providerData any, kind string, diags *diag.Diagnostics) {
	if providerData == nil {
		return
	}
	p, ok := providerData.(*ForgeProvider)
	if !ok {
		diags.AddError(
			fmt.Sprintf("Unexpected %s Configure Type", kind),
			fmt.Sprintf("Expected *ForgeProvider, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return
	}
	c.client = p.client
	c.providerTimeouts = p.providerTimeouts
}

// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

// This file instantiates generic runners with all currently supported
// resource/data-source types so the constrained generics keep compiling.

import (
	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// CRUDRunner instantiations (state, payload, api)
var (
	_ CRUDRunner[projectResourceModel, *projectPayload, *forge.ProjectInfo]
)

// ListHooks instantiations (api list item, out model)
var (
	_ ListHooks[*forge.ProjectInfo, projectsItemModel]
)

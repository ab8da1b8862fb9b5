// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// Function type aliases used by CRUDHooks.
//
// Resources implement these via small closures over their projectAPI client.
// Every API function returns the backend error untouched; the runner classifies
// it with the forge sentinels (not found, unauthorized, already exists).

// PayloadBuilderFunc builds the API payload (TPayload) from the planned Terraform state (TState).
// Return diagnostics for validation or value derivation errors encountered during build.
type PayloadBuilderFunc[TState StateConstraint, TPayload PayloadConstraint] func(ctx context.Context, st *TState) (TPayload, diag.Diagnostics)

// CreateFunc invokes the concrete create call and returns the created API model (TAPI).
type CreateFunc[TPayload PayloadConstraint, TAPI APIConstraint] func(ctx context.Context, p TPayload) (TAPI, error)

// ReadFunc fetches TAPI by its stable identifier.
type ReadFunc[TAPI APIConstraint] func(ctx context.Context, id string) (TAPI, error)

// UpdateFunc applies payload to id and returns the refreshed TAPI.
type UpdateFunc[TPayload PayloadConstraint, TAPI APIConstraint] func(ctx context.Context, id string, p TPayload) (TAPI, error)

// DeleteFunc removes id.
type DeleteFunc func(ctx context.Context, id string) error

// ExtractIDFunc returns the stable identifier from the current state (typically id string).
type ExtractIDFunc[TState StateConstraint] func(st *TState) string

// MapToStateFunc maps the API model (TAPI) into the Terraform state model (TState).
// Return diagnostics when mapping encounters unexpected values or schema mismatches.
type MapToStateFunc[TState StateConstraint, TAPI APIConstraint] func(ctx context.Context, api TAPI, st *TState) diag.Diagnostics

// PostAPIHook is an optional extra step after an API call, e.g. a follow-up read.
type PostAPIHook[TState StateConstraint, TAPI APIConstraint] func(ctx context.Context, api TAPI, st *TState) (TAPI, error)

// Generic type constraints restricted to available provider types.
//
// Add new state, payload and API types to the unions below when introducing a resource.

// StateConstraint enumerates the Terraform state models supported by the CRUD runner.
type StateConstraint interface {
	projectResourceModel
}

// PayloadConstraint enumerates the payload types used in Create/Update.
type PayloadConstraint interface {
	*projectPayload
}

// APIConstraint enumerates the API models returned by the backend.
type APIConstraint interface {
	*forge.ProjectInfo
}

// CRUDHooks defines per-resource behavior consumed by the generic runner.
//
// Required
// - BuildPayload: Construct the API payload from planned state (Create/Update).
// - APICreate/APIRead/APIUpdate/APIDelete: Call the backend.
// - ExtractID: Return the stable identifier from state (used for Read/Update/Delete).
// - MapToState: Map the API model to Terraform state (also used by Import).
//
// Optional
// - PostCreate/PostRead/PostUpdate: follow-up calls after the main API call.
// - TreatDelete404AsSuccess: Make Delete idempotent by treating not found as success.
type CRUDHooks[TState StateConstraint, TPayload PayloadConstraint, TAPI APIConstraint] struct {
	BuildPayload PayloadBuilderFunc[TState, TPayload]

	APICreate CreateFunc[TPayload, TAPI]
	APIRead   ReadFunc[TAPI]
	APIUpdate UpdateFunc[TPayload, TAPI]
	APIDelete DeleteFunc

	ExtractID  ExtractIDFunc[TState]
	MapToState MapToStateFunc[TState, TAPI]

	PostCreate PostAPIHook[TState, TAPI]
	PostRead   PostAPIHook[TState, TAPI]
	PostUpdate PostAPIHook[TState, TAPI]

	TreatDelete404AsSuccess bool
}

// CRUDRunner coordinates the CRUD lifecycle using the per-resource CRUDHooks.
// It is generic over TState (Terraform model), TPayload (API payload), and TAPI (API model).
type CRUDRunner[TState StateConstraint, TPayload PayloadConstraint, TAPI APIConstraint] struct {
	hooks CRUDHooks[TState, TPayload, TAPI]
}

// NewCRUDRunner constructs a CRUDRunner bound to the provided hooks.
// Typical usage: runner := NewCRUDRunner(r.hooks())
func NewCRUDRunner[TState StateConstraint, TPayload PayloadConstraint, TAPI APIConstraint](hooks CRUDHooks[TState, TPayload, TAPI]) CRUDRunner[TState, TPayload, TAPI] {
	return CRUDRunner[TState, TPayload, TAPI]{hooks: hooks}
}

// runPostHook runs an optional post-API hook (create/read/update) with shared ensure handling.
func (r CRUDRunner[TState, TPayload, TAPI]) runPostHook(
	ctx context.Context,
	label string,
	hook PostAPIHook[TState, TAPI],
	api TAPI,
	st *TState,
	ensure ensureFunc,
) (TAPI, bool) {
	if hook == nil {
		return api, true
	}
	api2, err := hook(ctx, api, st)
	if !ensure(ctx, label, err, nil) {
		var zero TAPI
		return zero, false
	}
	return api2, true
}

// mapAndSetState performs the MapToState + setState sequence and returns accumulated diagnostics.
func (r CRUDRunner[TState, TPayload, TAPI]) mapAndSetState(
	ctx context.Context,
	api TAPI,
	st *TState,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
) diag.Diagnostics {
	var diags diag.Diagnostics
	diags.Append(r.hooks.MapToState(ctx, api, st)...)
	if diags.HasError() {
		return diags
	}
	diags.Append(setState(ctx, st)...)
	return diags
}

// DoCreate orchestrates the Create lifecycle:
//
// 1) getPlan: Read the Terraform planned state into TState.
// 2) BuildPayload: Build the API payload (TPayload) from TState.
// 3) APICreate: Call the backend to create the resource.
// 4) PostCreate (optional): Fetch the full model if Create returns a partial object.
// 5) MapToState + setState: Persist the final state back to Terraform.
func (r CRUDRunner[TState, TPayload, TAPI]) DoCreate(
	ctx context.Context,
	getPlan func(ctx context.Context, dst *TState) diag.Diagnostics,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	ensure ensureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	if d := getPlan(ctx, &st); d.HasError() {
		return d
	}

	payload, d2 := r.hooks.BuildPayload(ctx, &st)
	diags.Append(d2...)
	if diags.HasError() {
		return diags
	}

	api, err := r.hooks.APICreate(ctx, payload)
	if !ensure(ctx, "create resource", err, nil) {
		return diags
	}

	api, ok := r.runPostHook(ctx, "post-create hook", r.hooks.PostCreate, api, &st, ensure)
	if !ok {
		return diags
	}

	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

// DoRead refreshes state from the remote API.
//
// A not-found answer calls remove() to drop the resource from state; any other
// failure is reported via ensure.
func (r CRUDRunner[TState, TPayload, TAPI]) DoRead(
	ctx context.Context,
	getState func(ctx context.Context, dst *TState) diag.Diagnostics,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	remove func(ctx context.Context),
	ensure ensureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	if d := getState(ctx, &st); d.HasError() {
		return d
	}
	id := r.hooks.ExtractID(&st)

	api, err := r.hooks.APIRead(ctx, id)
	if forge.IsNotFound(err) {
		tflog.Warn(ctx, "resource not found; removing from state", map[string]interface{}{"id": id})
		remove(ctx)
		return diags
	}
	if !ensure(ctx, "read resource", err, nil) {
		return diags
	}

	api, ok := r.runPostHook(ctx, "post-read hook", r.hooks.PostRead, api, &st, ensure)
	if !ok {
		return diags
	}

	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

// DoUpdate applies changes to the remote API and updates state.
//
// getPlan → BuildPayload → APIUpdate → PostUpdate → MapToState → setState
func (r CRUDRunner[TState, TPayload, TAPI]) DoUpdate(
	ctx context.Context,
	getPlan func(ctx context.Context, dst *TState) diag.Diagnostics,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	ensure ensureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	if d := getPlan(ctx, &st); d.HasError() {
		return d
	}
	id := r.hooks.ExtractID(&st)

	payload, d2 := r.hooks.BuildPayload(ctx, &st)
	diags.Append(d2...)
	if diags.HasError() {
		return diags
	}

	api, err := r.hooks.APIUpdate(ctx, id, payload)
	if !ensure(ctx, "update resource", err, nil) {
		return diags
	}

	api, ok := r.runPostHook(ctx, "post-update hook", r.hooks.PostUpdate, api, &st, ensure)
	if !ok {
		return diags
	}

	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

// DoDelete removes the resource remotely. With TreatDelete404AsSuccess a
// not-found answer counts as a successful destroy.
func (r CRUDRunner[TState, TPayload, TAPI]) DoDelete(
	ctx context.Context,
	getState func(ctx context.Context, dst *TState) diag.Diagnostics,
	ensure ensureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	if d := getState(ctx, &st); d.HasError() {
		return d
	}
	id := r.hooks.ExtractID(&st)

	err := r.hooks.APIDelete(ctx, id)
	ensure(ctx, "delete resource", err, &EnsureSuccessOrDiagOptions{TreatNotFoundAsSuccess: r.hooks.TreatDelete404AsSuccess})
	return diags
}

// DoImport mirrors Read using an arbitrary import identifier. Unlike Read, a
// missing resource is an error.
func (r CRUDRunner[TState, TPayload, TAPI]) DoImport(
	ctx context.Context,
	id string,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	ensure ensureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	api, err := r.hooks.APIRead(ctx, id)
	if !ensure(ctx, "read imported resource", err, nil) {
		return diags
	}

	api, ok := r.runPostHook(ctx, "post-read on import hook", r.hooks.PostRead, api, &st, ensure)
	if !ok {
		return diags
	}

	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

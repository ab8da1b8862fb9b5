// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// apiErr builds a classified backend error for the given status.
func apiErr(op string, status int) error {
	return &forge.APIError{
		Forge:      "gitlab",
		Op:         op,
		StatusCode: status,
		Kind:       forge.KindForStatus(status, "", false),
		Err:        errors.New(http.StatusText(status)),
	}
}

type crudHooks = CRUDHooks[projectResourceModel, *projectPayload, *forge.ProjectInfo]

func okHooks(mapCalls *int) crudHooks {
	return crudHooks{
		BuildPayload: func(ctx context.Context, st *projectResourceModel) (*projectPayload, diag.Diagnostics) {
			return &projectPayload{Name: "n"}, nil
		},
		APICreate: func(ctx context.Context, p *projectPayload) (*forge.ProjectInfo, error) {
			return &forge.ProjectInfo{FullName: "ns/created", Repo: "created"}, nil
		},
		APIRead: func(ctx context.Context, id string) (*forge.ProjectInfo, error) {
			return &forge.ProjectInfo{FullName: id}, nil
		},
		APIUpdate: func(ctx context.Context, id string, p *projectPayload) (*forge.ProjectInfo, error) {
			return &forge.ProjectInfo{FullName: id, Description: p.Description}, nil
		},
		APIDelete: func(ctx context.Context, id string) error { return nil },
		ExtractID: func(st *projectResourceModel) string { return st.ID.ValueString() },
		MapToState: func(ctx context.Context, api *forge.ProjectInfo, st *projectResourceModel) diag.Diagnostics {
			*mapCalls++
			st.ID = types.StringValue(api.FullName)
			return nil
		},
		TreatDelete404AsSuccess: true,
	}
}

func withID(id string) func(ctx context.Context, dst *projectResourceModel) diag.Diagnostics {
	return func(ctx context.Context, dst *projectResourceModel) diag.Diagnostics {
		dst.ID = types.StringValue(id)
		return nil
	}
}

func TestCRUDRunner_Create_Update_Delete_Read_HappyPaths(t *testing.T) {
	ctx := context.Background()
	var mapCalls int
	var diags diag.Diagnostics
	var last string
	setState := func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
		last = src.ID.ValueString()
		return nil
	}
	r := NewCRUDRunner(okHooks(&mapCalls))

	if d := r.DoCreate(ctx, withID(""), setState, ensureWith(&diags)); d.HasError() || diags.HasError() {
		t.Fatalf("unexpected diagnostics on create: %v %v", d, diags)
	}
	if mapCalls != 1 || last != "ns/created" {
		t.Fatalf("expected one mapping to ns/created, got %d %q", mapCalls, last)
	}

	mapCalls = 0
	if d := r.DoRead(ctx, withID("ns/read"), setState, func(context.Context) { t.Fatal("unexpected remove") }, ensureWith(&diags)); d.HasError() || diags.HasError() {
		t.Fatalf("unexpected diagnostics on read: %v %v", d, diags)
	}
	if mapCalls != 1 || last != "ns/read" {
		t.Fatalf("expected one mapping to ns/read, got %d %q", mapCalls, last)
	}

	mapCalls = 0
	if d := r.DoUpdate(ctx, withID("ns/upd"), setState, ensureWith(&diags)); d.HasError() || diags.HasError() {
		t.Fatalf("unexpected diagnostics on update: %v %v", d, diags)
	}
	if mapCalls != 1 || last != "ns/upd" {
		t.Fatalf("expected one mapping to ns/upd, got %d %q", mapCalls, last)
	}

	if d := r.DoDelete(ctx, withID("ns/upd"), ensureWith(&diags)); d.HasError() || diags.HasError() {
		t.Fatalf("unexpected diagnostics on delete: %v %v", d, diags)
	}
}

func TestCRUDRunner_Delete_404_TreatedAsSuccess(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.APIDelete = func(ctx context.Context, id string) error { return apiErr("delete project", http.StatusNotFound) }

	d := NewCRUDRunner(h).DoDelete(ctx, withID("ns/gone"), ensureWith(&diags))
	if d.HasError() || diags.HasError() {
		t.Fatalf("expected 404 delete to be treated as success, got diags: %v %v", d, diags)
	}
}

func TestCRUDRunner_Delete_404_ErrorWhenNotTolerated(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.TreatDelete404AsSuccess = false
	h.APIDelete = func(ctx context.Context, id string) error { return apiErr("delete project", http.StatusNotFound) }

	NewCRUDRunner(h).DoDelete(ctx, withID("ns/gone"), ensureWith(&diags))
	if !diags.HasError() {
		t.Fatalf("expected error diagnostic for 404 delete without tolerance")
	}
}

func TestCRUDRunner_Delete_500_Error(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.APIDelete = func(ctx context.Context, id string) error {
		return apiErr("delete project", http.StatusInternalServerError)
	}

	NewCRUDRunner(h).DoDelete(ctx, withID("ns/x"), ensureWith(&diags))
	if !diags.HasError() {
		t.Fatalf("expected error diagnostic for 500 delete")
	}
}

func TestCRUDRunner_MapToStateError_Propagates(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.MapToState = func(ctx context.Context, api *forge.ProjectInfo, st *projectResourceModel) diag.Diagnostics {
		mapCalls++
		var d diag.Diagnostics
		d.AddError("map error", "failed mapping")
		return d
	}
	setCalls := 0
	cd := NewCRUDRunner(h).DoCreate(ctx, withID(""),
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics { setCalls++; return nil },
		ensureWith(&diags),
	)
	if !cd.HasError() {
		t.Fatalf("expected mapping error to propagate in diagnostics")
	}
	if mapCalls != 1 {
		t.Fatalf("expected MapToState once, got %d", mapCalls)
	}
	if setCalls != 0 {
		t.Fatalf("expected state not to be set after mapping error, got %d", setCalls)
	}
}

func TestCRUDRunner_BuildPayloadError_SkipsAPI(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.BuildPayload = func(ctx context.Context, st *projectResourceModel) (*projectPayload, diag.Diagnostics) {
		var d diag.Diagnostics
		d.AddError("bad plan", "cannot build payload")
		return nil, d
	}
	h.APICreate = func(ctx context.Context, p *projectPayload) (*forge.ProjectInfo, error) {
		t.Fatal("APICreate must not be called")
		return nil, nil
	}
	cd := NewCRUDRunner(h).DoCreate(ctx, withID(""), func(context.Context, *projectResourceModel) diag.Diagnostics { return nil }, ensureWith(&diags))
	if !cd.HasError() {
		t.Fatalf("expected payload build error")
	}
}

func TestCRUDRunner_Read_404_RemovesState_NoError(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var ensureCalls int
	var mapCalls int
	removed := false

	h := okHooks(&mapCalls)
	h.APIRead = func(ctx context.Context, id string) (*forge.ProjectInfo, error) {
		return nil, apiErr("get project", http.StatusNotFound)
	}
	ensure := func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool {
		ensureCalls++
		return EnsureSuccessOrDiag(ctx, action, err, &diags, opts)
	}
	d := NewCRUDRunner(h).DoRead(ctx, withID("ns/gone"),
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics { return nil },
		func(ctx context.Context) { removed = true },
		ensure,
	)
	if d.HasError() || diags.HasError() {
		t.Fatalf("expected no diagnostics on 404 read removal, got: %v %v", d, diags)
	}
	if !removed {
		t.Fatalf("expected remove() to be called on 404")
	}
	if ensureCalls != 0 {
		t.Fatalf("expected ensure not to be called on 404 path, got %d", ensureCalls)
	}
	if mapCalls != 0 {
		t.Fatalf("expected MapToState not to be called on 404 path, got %d", mapCalls)
	}
}

func TestCRUDRunner_Read_401_ErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.APIRead = func(ctx context.Context, id string) (*forge.ProjectInfo, error) {
		return nil, apiErr("get project", http.StatusUnauthorized)
	}
	NewCRUDRunner(h).DoRead(ctx, withID("ns/x"),
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics { return nil },
		func(ctx context.Context) { t.Fatal("state must not be removed on 401") },
		ensureWith(&diags),
	)
	if !diags.HasError() {
		t.Fatalf("expected error diagnostic on 401 read")
	}
}

func TestCRUDRunner_PostCreate_CalledAndMapped(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	var ensureCalls int
	postCalled := false
	var finalID string

	h := okHooks(&mapCalls)
	h.PostCreate = func(ctx context.Context, api *forge.ProjectInfo, st *projectResourceModel) (*forge.ProjectInfo, error) {
		postCalled = true
		return &forge.ProjectInfo{FullName: "ns/post"}, nil
	}
	ensure := func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool {
		ensureCalls++
		return EnsureSuccessOrDiag(ctx, action, err, &diags, opts)
	}
	cd := NewCRUDRunner(h).DoCreate(ctx, withID(""),
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
			finalID = src.ID.ValueString()
			return nil
		},
		ensure,
	)
	if cd.HasError() || diags.HasError() {
		t.Fatalf("unexpected diagnostics on post-create: %v %v", cd, diags)
	}
	if !postCalled {
		t.Fatalf("expected PostCreate to be called")
	}
	if ensureCalls != 2 {
		t.Fatalf("expected ensure to be called twice (create & post-create), got %d", ensureCalls)
	}
	if mapCalls != 1 {
		t.Fatalf("expected single MapToState call, got %d", mapCalls)
	}
	if finalID != "ns/post" {
		t.Fatalf("expected final state ID to be 'ns/post', got %q", finalID)
	}
}

func TestCRUDRunner_PostUpdateError_StopsBeforeMapping(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.PostUpdate = func(ctx context.Context, api *forge.ProjectInfo, st *projectResourceModel) (*forge.ProjectInfo, error) {
		return nil, apiErr("get project", http.StatusBadGateway)
	}
	NewCRUDRunner(h).DoUpdate(ctx, withID("ns/x"), func(context.Context, *projectResourceModel) diag.Diagnostics { return nil }, ensureWith(&diags))
	if !diags.HasError() {
		t.Fatalf("expected post-update error diagnostic")
	}
	if mapCalls != 0 {
		t.Fatalf("expected no mapping after post-update failure, got %d", mapCalls)
	}
}

func TestCRUDRunner_Create_AlreadyExists_HasHint(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.APICreate = func(ctx context.Context, p *projectPayload) (*forge.ProjectInfo, error) {
		return nil, &forge.APIError{Forge: "gitlab", Op: "create project", StatusCode: http.StatusBadRequest, Message: "name has already been taken", Kind: forge.ErrAlreadyExists}
	}
	NewCRUDRunner(h).DoCreate(ctx, withID(""), func(context.Context, *projectResourceModel) diag.Diagnostics { return nil }, ensureWith(&diags))
	if !diags.HasError() {
		t.Fatalf("expected error diagnostic on duplicate create")
	}
	if got := diags.Errors()[0].Detail(); !containsAll(got, "HTTP status: 400", "already exists") {
		t.Fatalf("expected status and hint in detail, got %q", got)
	}
}

func TestCRUDRunner_Import_NotFoundIsError(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	h := okHooks(&mapCalls)
	h.APIRead = func(ctx context.Context, id string) (*forge.ProjectInfo, error) {
		return nil, apiErr("get project", http.StatusNotFound)
	}
	NewCRUDRunner(h).DoImport(ctx, "ns/missing", func(context.Context, *projectResourceModel) diag.Diagnostics { return nil }, ensureWith(&diags))
	if !diags.HasError() {
		t.Fatalf("expected import of a missing project to fail")
	}
}

func TestCRUDRunner_Import_MapsByID(t *testing.T) {
	ctx := context.Background()
	var diags diag.Diagnostics
	var mapCalls int
	var got string
	d := NewCRUDRunner(okHooks(&mapCalls)).DoImport(ctx, "group/sub/repo",
		func(ctx context.Context, src *projectResourceModel) diag.Diagnostics {
			got = src.ID.ValueString()
			return nil
		},
		ensureWith(&diags),
	)
	if d.HasError() || diags.HasError() {
		t.Fatalf("unexpected diagnostics on import: %v %v", d, diags)
	}
	if got != "group/sub/repo" {
		t.Fatalf("expected imported ID group/sub/repo, got %q", got)
	}
}

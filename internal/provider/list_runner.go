// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"

	"github.com/devops-wiz/terraform-provider-forge/internal/forge"
)

// Function type aliases for list-to-map flows.
//
// Usage:
// - Implement ListPage to fetch one page of items from the remote listing.
// - Optionally implement Filter to apply client-side filtering.
// - KeyOf must return a stable string key (e.g., the project full path).
// - MapToOut converts an API item to the Terraform object model (struct of types.* fields).
type FilterFunc[TAPI APIListConstraint] func(ctx context.Context, item TAPI) (bool, diag.Diagnostics)
type KeyOfFunc[TAPI APIListConstraint] func(item TAPI) string
type MapToOutFunc[TAPI APIListConstraint, TOut OutModelConstraint] func(ctx context.Context, item TAPI) (TOut, diag.Diagnostics)
type AttrTypesFunc func() map[string]attr.Type

// ListPageFunc fetches one page of items. Return items, the next page number (0 on the last page), and diagnostics.
// - page: 1-based page number
// - perPage: desired page size. Implementations may return fewer items.
// DoListToMapWithLimit iterates pages until nextPage=0, context cancellation, or reaching MaxItems.
type ListPageFunc[TAPI APIListConstraint] func(ctx context.Context, page, perPage int) (items []TAPI, nextPage int, d diag.Diagnostics)

// APIListConstraint enumerates the API models that appear in lists.
type APIListConstraint interface {
	*forge.ProjectInfo
}

// OutModelConstraint enumerates the Terraform object models used as map values.
type OutModelConstraint interface {
	projectsItemModel
}

// ListHooks defines list-to-map helpers for data sources.
type ListHooks[TAPI APIListConstraint, TOut OutModelConstraint] struct {
	// ListPage fetches pages; DoListToMapWithLimit aggregates them incrementally.
	ListPage ListPageFunc[TAPI]

	// Optional filter applied client-side (return true to keep). It runs only
	// until MaxItems items are kept.
	Filter FilterFunc[TAPI]

	KeyOf    KeyOfFunc[TAPI]
	MapToOut MapToOutFunc[TAPI, TOut]

	// AttrTypes returns the ObjectType attribute types for TOut.
	AttrTypes AttrTypesFunc
}

// ListOptions configures DoListToMapWithLimit behavior.
//
// Fields
// - MaxItems: hard cap on kept items (post-filter). 0 = unlimited (default).
// - WarnThreshold: soft threshold that adds a warning once kept items reach/exceed it. 0 = disabled.
// - RespectContext: if true, checks ctx.Done() periodically and returns early with a warning if canceled.
type ListOptions struct {
	MaxItems       int
	WarnThreshold  int
	RespectContext bool
}

// DoListToMapWithLimit builds a map[string]TOut using hooks with guardrails for large datasets.
//
// Behavior
// - Pages are fetched incrementally with a default page size (100), or MaxItems when smaller and no Filter is set.
// - Filter (when provided) is applied before mapping.
// - Last write wins for duplicate keys.
// - If MaxItems > 0, paging and filtering stop after that many kept items and a warning is added.
// - If WarnThreshold > 0 and kept >= threshold, a warning is added (once).
// - If RespectContext is true, ctx.Done() is checked every 1000 processed items and between pages.
//
// Errors from ListPage, Filter and MapToOut return immediately with no partial result.
func DoListToMapWithLimit[TAPI APIListConstraint, TOut OutModelConstraint](
	ctx context.Context,
	h ListHooks[TAPI, TOut],
	opts ListOptions,
) (map[string]TOut, diag.Diagnostics) {
	const (
		pageSizeDefault  = 100
		checkCancelEvery = 1000
	)
	var diags diag.Diagnostics

	warnedThreshold := false
	warnCanceled := func(reason string) { diags.AddWarning("listing canceled", reason) }
	warnThreshold := func(count int) {
		if !warnedThreshold {
			warnedThreshold = true
			diags.AddWarning("large result set", "number of items kept reached threshold: "+strconv.Itoa(count))
		}
	}
	warnCapped := func(max int) {
		diags.AddWarning("result capped", "maximum items reached; result truncated at "+strconv.Itoa(max))
	}
	canceled := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}

	kept := 0
	processed := 0

	processItems := func(items []TAPI, result map[string]TOut) bool {
		for _, it := range items {
			processed++
			if opts.RespectContext && processed%checkCancelEvery == 0 && canceled() {
				warnCanceled("context canceled or deadline exceeded during listing; returning partial results")
				return false
			}
			if h.Filter != nil {
				keep, d := h.Filter(ctx, it)
				diags.Append(d...)
				if diags.HasError() {
					return false
				}
				if !keep {
					continue
				}
			}
			k := h.KeyOf(it)
			obj, d2 := h.MapToOut(ctx, it)
			diags.Append(d2...)
			if diags.HasError() {
				return false
			}
			result[k] = obj
			kept++
			if opts.WarnThreshold > 0 && kept >= opts.WarnThreshold {
				warnThreshold(kept)
			}
			if opts.MaxItems > 0 && kept >= opts.MaxItems {
				warnCapped(opts.MaxItems)
				return false
			}
		}
		return true
	}

	perPage := pageSizeDefault
	if opts.MaxItems > 0 && opts.MaxItems < perPage && h.Filter == nil {
		perPage = opts.MaxItems
	}
	capHint := perPage
	if opts.MaxItems > 0 && opts.MaxItems < capHint {
		capHint = opts.MaxItems
	}
	result := make(map[string]TOut, capHint)

	page := 1
	for {
		items, next, d := h.ListPage(ctx, page, perPage)
		diags.Append(d...)
		if diags.HasError() {
			return nil, diags
		}
		if !processItems(items, result) {
			if diags.HasError() {
				return nil, diags
			}
			break
		}
		// An empty or non-advancing page would loop forever.
		if next <= page || len(items) == 0 {
			break
		}
		if opts.RespectContext && canceled() {
			warnCanceled("context canceled or deadline exceeded during pagination; returning partial results")
			break
		}
		page = next
	}
	return result, diags
}

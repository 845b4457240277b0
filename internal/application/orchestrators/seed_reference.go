package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"attendseed/internal/adapters/docstore"
	"attendseed/internal/domain/branch"
	"attendseed/internal/domain/shift"
)

// ReferenceDeps holds the store access needed for reference data loading.
type ReferenceDeps struct {
	Store referenceStore
}

type referenceStore interface {
	List(ctx context.Context, collection string) ([]docstore.Document, error)
	Set(ctx context.Context, collection, id string, d docstore.Document, merge bool) error
}

// ExecuteLoadReference loads branches and shifts from the store.
//
// The two collections fall back differently on purpose: an empty branches
// collection gets a default branch persisted (every later record references
// a branch by ID, so one must exist in the store), while an empty shifts
// collection falls back to an in-memory set that is never written.
// POST: Returned branch list is non-empty; shift list is non-empty
func ExecuteLoadReference(ctx context.Context, deps ReferenceDeps, now time.Time) ([]branch.Branch, []shift.Shift, error) {
	branchDocs, err := deps.Store.List(ctx, docstore.CollectionBranches)
	if err != nil {
		return nil, nil, fmt.Errorf("load branches: %w", err)
	}
	var branches []branch.Branch
	for _, d := range branchDocs {
		id, _ := d[docstore.IDField].(string)
		branches = append(branches, branch.FromDoc(id, d))
	}
	if len(branches) == 0 {
		def := branch.Default(now)
		if err := deps.Store.Set(ctx, docstore.CollectionBranches, def.ID, def.Doc(), true); err != nil {
			return nil, nil, fmt.Errorf("seed default branch: %w", err)
		}
		branches = []branch.Branch{def}
		slog.Info("seed_event", "event", "default_branch_created", "branch_id", def.ID)
	}

	shiftDocs, err := deps.Store.List(ctx, docstore.CollectionShifts)
	if err != nil {
		return nil, nil, fmt.Errorf("load shifts: %w", err)
	}
	var shifts []shift.Shift
	for _, d := range shiftDocs {
		id, _ := d[docstore.IDField].(string)
		shifts = append(shifts, shift.FromDoc(id, d))
	}
	if len(shifts) == 0 {
		shifts = shift.Fallback()
		slog.Info("seed_event", "event", "shift_fallback_used", "count", len(shifts))
	}

	slog.Info("seed_event", "event", "reference_loaded", "branches", len(branches), "shifts", len(shifts))
	return branches, shifts, nil
}

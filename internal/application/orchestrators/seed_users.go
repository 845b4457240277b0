package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"attendseed/internal/adapters/docstore"
	"attendseed/internal/application/randgen"
	"attendseed/internal/domain/branch"
	"attendseed/internal/domain/shift"
	"attendseed/internal/domain/user"
)

// UsersDeps holds what the user seeding loop needs.
type UsersDeps struct {
	Store usersStore
	Rand  *randgen.Generator
}

type usersStore interface {
	Get(ctx context.Context, collection, id string) (docstore.Document, error)
	Set(ctx context.Context, collection, id string, d docstore.Document, merge bool) error
}

// UsersParams configures one user seeding run.
type UsersParams struct {
	Count    int
	Password string // development password shared by all seeded users
	Now      time.Time
}

// ExecuteSeedUsers creates or normalizes EMP-001..EMP-NNN.
//
// For each code, a fresh randomized record is built; if a document with that
// code already exists, stored business fields win over the fresh ones and
// only code/status/statusLabel/updatedAt are forced — so re-running the
// seeder never clobbers operator edits. Writes use merge semantics.
// PRE: branches and shifts are non-empty
// POST: Returns the final (post-merge) user records in code order
func ExecuteSeedUsers(ctx context.Context, deps UsersDeps, params UsersParams, branches []branch.Branch, shifts []shift.Shift) ([]user.User, error) {
	hash, err := user.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]user.User, 0, params.Count)
	created, normalized := 0, 0
	for i := 1; i <= params.Count; i++ {
		code := user.Code(i)
		br := branches[deps.Rand.Index(len(branches))]
		sh := shifts[deps.Rand.Index(len(shifts))]

		fresh := buildUser(deps.Rand, i, br, sh, params.Now)
		fresh.PasswordHash = hash

		final := fresh
		existing, err := deps.Store.Get(ctx, docstore.CollectionUsers, code)
		switch {
		case err == nil:
			final = user.Normalize(fresh, user.FromDoc(existing), params.Now)
			normalized++
		case errors.Is(err, docstore.ErrNotFound):
			created++
		default:
			return nil, fmt.Errorf("get user %s: %w", code, err)
		}

		if err := final.Validate(); err != nil {
			return nil, fmt.Errorf("user %s: %w", code, err)
		}
		if err := deps.Store.Set(ctx, docstore.CollectionUsers, code, final.Doc(), true); err != nil {
			return nil, fmt.Errorf("save user %s: %w", code, err)
		}
		users = append(users, final)
	}

	slog.Info("seed_event", "event", "users_seeded", "created", created, "normalized", normalized)
	return users, nil
}

// buildUser constructs one fresh user record with randomized content and
// deterministic shape.
func buildUser(g *randgen.Generator, index int, br branch.Branch, sh shift.Shift, now time.Time) user.User {
	name := g.FullName()
	return user.User{
		Code:            user.Code(index),
		Name:            name,
		FullName:        name,
		Email:           g.Email(name, index),
		Phone:           g.Phone(),
		Role:            g.Pick(user.Roles),
		BranchID:        br.ID,
		BranchName:      br.Name,
		PrimaryBranchID: br.ID,
		ShiftID:         sh.ID,
		ShiftName:       sh.Name,
		AssignedShiftID: sh.ID,
		Status:          user.StatusApproved,
		StatusLabel:     user.StatusLabelApproved,
		SalaryBase:      g.IntBetween(user.SalaryBaseMin, user.SalaryBaseMax),
		Allowances:      0,
		Deductions:      []user.Deduction{{Name: "absense", Amount: 0}},
		OvertimeRate:    user.OvertimeRate,
		AllowAnyBranch:  false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Package admins answers "is this user an admin" over the union of the
// statically configured allow-list and the dynamically granted admins table.
package admins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	// ErrAlreadyAdmin is returned by Add when the id is already in the
	// effective admin set (static or dynamic).
	ErrAlreadyAdmin = errors.New("already an admin")
	// ErrNotAdmin is returned by Remove when no dynamic row exists for the
	// id. Statically configured admins cannot be removed and also report
	// ErrNotAdmin.
	ErrNotAdmin = errors.New("not an admin")
)

// Store is the slice of the repository the resolver needs.
type Store interface {
	ListAdminIDs(ctx context.Context) ([]int64, error)
	AddAdmin(ctx context.Context, adminID, addedBy int64) (bool, error)
	RemoveAdmin(ctx context.Context, adminID int64) (bool, error)
}

// Resolver merges the static config admin set with the admins table.
type Resolver struct {
	static []int64
	store  Store
	log    *slog.Logger
}

func New(logger *slog.Logger, staticIDs []int64, store Store) *Resolver {
	return &Resolver{
		static: slices.Clone(staticIDs),
		store:  store,
		log:    logger.With(slog.String("op", "admins.Resolver")),
	}
}

// IsAdmin reports whether userID is in the effective admin set.
func (r *Resolver) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if slices.Contains(r.static, userID) {
		return true, nil
	}
	ids, err := r.store.ListAdminIDs(ctx)
	if err != nil {
		return false, fmt.Errorf("admins.IsAdmin: %w", err)
	}
	return slices.Contains(ids, userID), nil
}

// List returns the effective admin set: static ids first, then dynamic ids
// in grant order, deduplicated. The order is a display choice only.
func (r *Resolver) List(ctx context.Context) ([]int64, error) {
	dynamic, err := r.store.ListAdminIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("admins.List: %w", err)
	}
	all := slices.Clone(r.static)
	for _, id := range dynamic {
		if !slices.Contains(all, id) {
			all = append(all, id)
		}
	}
	return all, nil
}

// Add grants admin rights to newAdminID, recording addedBy as the grantor.
// Returns ErrAlreadyAdmin when the id is already effective. Permission of
// the grantor is the caller's check.
func (r *Resolver) Add(ctx context.Context, addedBy, newAdminID int64) error {
	if slices.Contains(r.static, newAdminID) {
		return ErrAlreadyAdmin
	}
	inserted, err := r.store.AddAdmin(ctx, newAdminID, addedBy)
	if err != nil {
		return fmt.Errorf("admins.Add: %w", err)
	}
	if !inserted {
		return ErrAlreadyAdmin
	}
	r.log.Info("admin added",
		slog.Int64("admin_id", newAdminID),
		slog.Int64("added_by", addedBy),
	)
	return nil
}

// Remove revokes a dynamically granted admin. Static admins have no row to
// delete, so removing one reports ErrNotAdmin and the effective set keeps
// them.
func (r *Resolver) Remove(ctx context.Context, adminID int64) error {
	removed, err := r.store.RemoveAdmin(ctx, adminID)
	if err != nil {
		return fmt.Errorf("admins.Remove: %w", err)
	}
	if !removed {
		return ErrNotAdmin
	}
	r.log.Info("admin removed", slog.Int64("admin_id", adminID))
	return nil
}

package admins

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
)

type memStore struct {
	ids     []int64
	grants  map[int64]int64
	failErr error
}

func newMemStore() *memStore {
	return &memStore{grants: make(map[int64]int64)}
}

func (s *memStore) ListAdminIDs(_ context.Context) ([]int64, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	return slices.Clone(s.ids), nil
}

func (s *memStore) AddAdmin(_ context.Context, adminID, addedBy int64) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	if slices.Contains(s.ids, adminID) {
		return false, nil
	}
	s.ids = append(s.ids, adminID)
	s.grants[adminID] = addedBy
	return true, nil
}

func (s *memStore) RemoveAdmin(_ context.Context, adminID int64) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	i := slices.Index(s.ids, adminID)
	if i < 0 {
		return false, nil
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true, nil
}

func newTestResolver(static []int64, store Store) *Resolver {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), static, store)
}

func TestIsAdminUnion(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.ids = []int64{20}
	r := newTestResolver([]int64{10}, store)
	ctx := context.Background()

	for id, want := range map[int64]bool{10: true, 20: true, 30: false} {
		got, err := r.IsAdmin(ctx, id)
		if err != nil {
			t.Fatalf("IsAdmin(%d): %v", id, err)
		}
		if got != want {
			t.Fatalf("IsAdmin(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestListDeduplicates(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.ids = []int64{10, 20}
	r := newTestResolver([]int64{10}, store)

	ids, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected deduplicated union, got %v", ids)
	}
	if !slices.Contains(ids, int64(10)) || !slices.Contains(ids, int64(20)) {
		t.Fatalf("union incomplete: %v", ids)
	}
}

func TestListEmptyWhenBothSourcesEmpty(t *testing.T) {
	t.Parallel()

	r := newTestResolver(nil, newMemStore())
	ids, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestAddIsIdempotentUnderReAddition(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := newTestResolver(nil, store)
	ctx := context.Background()

	if err := r.Add(ctx, 1, 42); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if got := store.grants[42]; got != 1 {
		t.Fatalf("grantor not recorded: %d", got)
	}

	if err := r.Add(ctx, 1, 42); !errors.Is(err, ErrAlreadyAdmin) {
		t.Fatalf("second add: got %v, want ErrAlreadyAdmin", err)
	}
	if len(store.ids) != 1 {
		t.Fatalf("effective set size changed: %v", store.ids)
	}
}

func TestAddStaticAdminFailsWithoutWrite(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := newTestResolver([]int64{10}, store)

	if err := r.Add(context.Background(), 1, 10); !errors.Is(err, ErrAlreadyAdmin) {
		t.Fatalf("got %v, want ErrAlreadyAdmin", err)
	}
	if len(store.ids) != 0 {
		t.Fatalf("static duplicate must not be written: %v", store.ids)
	}
}

func TestRemoveDynamicAdmin(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.ids = []int64{42}
	r := newTestResolver(nil, store)
	ctx := context.Background()

	if err := r.Remove(ctx, 42); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	isAdm, err := r.IsAdmin(ctx, 42)
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if isAdm {
		t.Fatalf("removed admin still effective")
	}
}

func TestRemoveStaticAdminKeepsEffectiveSet(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := newTestResolver([]int64{10}, store)
	ctx := context.Background()

	if err := r.Remove(ctx, 10); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("got %v, want ErrNotAdmin", err)
	}
	isAdm, err := r.IsAdmin(ctx, 10)
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if !isAdm {
		t.Fatalf("static admin must survive removal attempts")
	}
}

func TestRemoveUnknownID(t *testing.T) {
	t.Parallel()

	r := newTestResolver(nil, newMemStore())
	if err := r.Remove(context.Background(), 99); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("got %v, want ErrNotAdmin", err)
	}
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	cause := errors.New("connection refused")
	store.failErr = cause
	r := newTestResolver(nil, store)
	ctx := context.Background()

	if _, err := r.IsAdmin(ctx, 1); !errors.Is(err, cause) {
		t.Fatalf("IsAdmin error not wrapped: %v", err)
	}
	if err := r.Add(ctx, 1, 2); !errors.Is(err, cause) {
		t.Fatalf("Add error not wrapped: %v", err)
	}
	if err := r.Remove(ctx, 2); !errors.Is(err, cause) {
		t.Fatalf("Remove error not wrapped: %v", err)
	}
}

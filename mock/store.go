package mock

import (
	"context"

	petfood "github.com/thaochithai/pet-food-analysis"
)

var _ petfood.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of petfood.SnapshotStore.
type SnapshotStore struct {
	RootFn             func() string
	TermsFn            func(ctx context.Context) ([]string, error)
	RunsFn             func(ctx context.Context) ([]petfood.RunKey, error)
	ListingSnapshotsFn func(ctx context.Context, term string, run petfood.RunKey) ([]string, error)
	ProductSnapshotsFn func(ctx context.Context, term string) ([]string, error)
	ReadFn             func(ctx context.Context, path string) (*petfood.Snapshot, error)
}

func (s *SnapshotStore) Root() string {
	return s.RootFn()
}

func (s *SnapshotStore) Terms(ctx context.Context) ([]string, error) {
	return s.TermsFn(ctx)
}

func (s *SnapshotStore) Runs(ctx context.Context) ([]petfood.RunKey, error) {
	return s.RunsFn(ctx)
}

func (s *SnapshotStore) ListingSnapshots(ctx context.Context, term string, run petfood.RunKey) ([]string, error) {
	return s.ListingSnapshotsFn(ctx, term, run)
}

func (s *SnapshotStore) ProductSnapshots(ctx context.Context, term string) ([]string, error) {
	return s.ProductSnapshotsFn(ctx, term)
}

func (s *SnapshotStore) Read(ctx context.Context, path string) (*petfood.Snapshot, error) {
	return s.ReadFn(ctx, path)
}

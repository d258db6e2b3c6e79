package slog

import (
	"context"
	"log/slog"
	"time"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Ensure LoggingSnapshotStore implements petfood.SnapshotStore.
var _ petfood.SnapshotStore = (*LoggingSnapshotStore)(nil)

// LoggingSnapshotStore wraps a SnapshotStore with debug logging for
// discovery operations. Reads are not logged; they happen once per
// snapshot and the parse decorators already record the path.
type LoggingSnapshotStore struct {
	next   petfood.SnapshotStore
	logger *slog.Logger
}

// NewLoggingSnapshotStore creates a new LoggingSnapshotStore.
func NewLoggingSnapshotStore(next petfood.SnapshotStore, logger *slog.Logger) *LoggingSnapshotStore {
	return &LoggingSnapshotStore{next: next, logger: logger}
}

// Root delegates to the wrapped store.
func (s *LoggingSnapshotStore) Root() string {
	return s.next.Root()
}

// Terms delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) Terms(ctx context.Context) (terms []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("term discovery",
			"root", s.next.Root(),
			"count", len(terms),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Terms(ctx)
}

// Runs delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) Runs(ctx context.Context) (runs []petfood.RunKey, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("run discovery",
			"root", s.next.Root(),
			"count", len(runs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Runs(ctx)
}

// ListingSnapshots delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) ListingSnapshots(ctx context.Context, term string, run petfood.RunKey) (paths []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("listing snapshot discovery",
			"term", term,
			"run", run.String(),
			"count", len(paths),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListingSnapshots(ctx, term, run)
}

// ProductSnapshots delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) ProductSnapshots(ctx context.Context, term string) (paths []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("product snapshot discovery",
			"term", term,
			"count", len(paths),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ProductSnapshots(ctx, term)
}

// Read delegates to the wrapped store.
func (s *LoggingSnapshotStore) Read(ctx context.Context, path string) (*petfood.Snapshot, error) {
	return s.next.Read(ctx, path)
}

package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	petfood "github.com/thaochithai/pet-food-analysis"
	"github.com/thaochithai/pet-food-analysis/fs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements petfood.SnapshotStore at compile time.
var _ petfood.SnapshotStore = (*fs.Store)(nil)

// writeSnapshot creates an empty snapshot file plus its parent dirs.
func writeSnapshot(t *testing.T, parts ...string) string {
	t.Helper()

	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))
	return path
}

// captureRoot builds a small two-term capture tree.
func captureRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeSnapshot(t, root, "dog_food", "2024-01-15", "14-30", "dog_food_page1_14-30-05.html")
	writeSnapshot(t, root, "dog_food", "2024-01-15", "14-30", "dog_food_page2_14-30-41.html")
	writeSnapshot(t, root, "dog_food", "2024-01-16", "09-00", "dog_food_page1_09-00-02.html")
	writeSnapshot(t, root, "cat_food", "2024-01-15", "14-30", "cat_food_page1_14-30-19.html")
	writeSnapshot(t, root, "cat_food", "B000CAT001_20240115_143000.html")
	return root
}

func TestStore_Terms(t *testing.T) {
	t.Parallel()

	t.Run("lists term directories sorted", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(captureRoot(t))
		terms, err := store.Terms(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"cat_food", "dog_food"}, terms)
	})

	t.Run("missing root is fatal", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(filepath.Join(t.TempDir(), "nope"))
		_, err := store.Terms(context.Background())

		require.Error(t, err)
		assert.Equal(t, petfood.ENOTFOUND, petfood.ErrorCode(err))
	})
}

func TestStore_Runs(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(captureRoot(t))
	runs, err := store.Runs(context.Background())

	require.NoError(t, err)
	// The 14-30 run appears under both terms but is discovered once.
	assert.Equal(t, []petfood.RunKey{
		{Date: "2024-01-15", Time: "14-30"},
		{Date: "2024-01-16", Time: "09-00"},
	}, runs)
}

func TestStore_ListingSnapshots(t *testing.T) {
	t.Parallel()

	t.Run("all runs for a term", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(captureRoot(t))
		paths, err := store.ListingSnapshots(context.Background(), "dog food", petfood.RunKey{})

		require.NoError(t, err)
		require.Len(t, paths, 3)
	})

	t.Run("restricted to one run", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(captureRoot(t))
		run := petfood.RunKey{Date: "2024-01-15", Time: "14-30"}
		paths, err := store.ListingSnapshots(context.Background(), "dog food", run)

		require.NoError(t, err)
		require.Len(t, paths, 2)
		for _, p := range paths {
			assert.Contains(t, p, filepath.Join("2024-01-15", "14-30"))
		}
	})

	t.Run("missing term directory", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(captureRoot(t))
		_, err := store.ListingSnapshots(context.Background(), "bird seed", petfood.RunKey{})

		require.Error(t, err)
		assert.Equal(t, petfood.ENOTFOUND, petfood.ErrorCode(err))
	})
}

func TestStore_ProductSnapshots(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(captureRoot(t))
	paths, err := store.ProductSnapshots(context.Background(), "cat food")

	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "B000CAT001_20240115_143000.html")
}

func TestStore_Read(t *testing.T) {
	t.Parallel()

	t.Run("returns the snapshot bytes", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		path := writeSnapshot(t, root, "dog_food", "B000DOG001_20240115_143000.html")

		store := fs.NewStore(root)
		snap, err := store.Read(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, path, snap.Path)
		assert.Equal(t, []byte("<html></html>"), snap.Body)
	})

	t.Run("unreadable snapshot", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		_, err := store.Read(context.Background(), filepath.Join(store.Root(), "missing.html"))

		require.Error(t, err)
		assert.Equal(t, petfood.EUNREADABLE, petfood.ErrorCode(err))
	})
}

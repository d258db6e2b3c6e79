package main_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	petfood "github.com/thaochithai/pet-food-analysis"
	main "github.com/thaochithai/pet-food-analysis/cmd/petfood"
	"github.com/thaochithai/pet-food-analysis/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes per-run csv files", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"serp", root, "-o", out}, stdout, stderr)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "Extracted 2 listing records.")

		raw, err := os.ReadFile(filepath.Join(out, "run_2024-01-15_14-30.csv"))
		require.NoError(t, err)
		content := string(raw)
		assert.Contains(t, content, "B000123ABC")
		assert.Contains(t, content, "Acme Adult Dog Food")
		assert.Contains(t, content, "19.99")
		assert.Contains(t, content, "dog food")
	})

	t.Run("single file mode writes both formats", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"serp", root, "-o", out, "--single-file", "--format", "both"}, stdout, stderr)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(out, "listings.csv"))
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(out, "listings.ndjson"))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		assert.Len(t, lines, 2)
	})

	t.Run("run filter restricts extraction", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"serp", root, "-o", out, "--run", "2030-01-01_00-00"}, stdout, stderr)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "No listing records extracted.")
	})

	t.Run("malformed run key returns error", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"serp", root, "--run", "not-a-run"}, stdout, stderr)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "YYYY-MM-DD_HH-MM")
	})

	t.Run("persists to sqlite when db flag is set", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		dbPath := filepath.Join(t.TempDir(), "records.db")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"serp", root, "-o", out, "--db", dbPath}, stdout, stderr)
		require.NoError(t, err)

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		records, err := sqlite.NewRecordService(db).FindListings(testContext(), petfood.ListingFilter{})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "B000123ABC", records[0].ASIN)
		assert.Equal(t, 1, records[0].Position)
		assert.Equal(t, "B000456DEF", records[1].ASIN)
		assert.Equal(t, 2, records[1].Position)
	})
}

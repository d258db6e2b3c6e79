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

func TestProductsCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes product csv", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"products", root, "-o", out}, stdout, stderr)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "Extracted 1 product records.")

		raw, err := os.ReadFile(filepath.Join(out, "products.csv"))
		require.NoError(t, err)
		content := string(raw)
		assert.Contains(t, content, "B000123ABC")
		assert.Contains(t, content, "Acme Adult Dog Food")
		assert.Contains(t, content, "Acme")
		assert.Contains(t, content, "dog food")
	})

	t.Run("term filter restricts extraction", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"products", root, "-o", out, "-t", "cat food"}, stdout, stderr)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "cat_food")
	})

	t.Run("unidentifiable snapshot does not abort persistence", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "dog_food", "unrecognized_name.html"), []byte(productHTML), 0644))

		out := t.TempDir()
		dbPath := filepath.Join(t.TempDir(), "records.db")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"products", root, "-o", out, "--db", dbPath}, stdout, stderr)
		require.NoError(t, err)

		// Both snapshots still reach the file output.
		assert.Contains(t, stdout.String(), "Extracted 2 product records.")
		raw, err := os.ReadFile(filepath.Join(out, "products.csv"))
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(string(raw), "\n")) // header + 2 rows

		// The ASIN-less record is skipped, not fatal: the keyed one lands.
		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		records, err := sqlite.NewRecordService(db).FindProducts(testContext(), petfood.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "B000123ABC", records[0].ASIN)
		assert.Contains(t, stderr.String(), "product record not persisted")
	})

	t.Run("persists to sqlite when db flag is set", func(t *testing.T) {
		t.Parallel()

		root := captureRoot(t)
		out := t.TempDir()
		dbPath := filepath.Join(t.TempDir(), "records.db")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(testContext(), []string{"products", root, "-o", out, "--db", dbPath}, stdout, stderr)
		require.NoError(t, err)

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		records, err := sqlite.NewRecordService(db).FindProducts(testContext(), petfood.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "B000123ABC", records[0].ASIN)
		assert.Equal(t, "Acme", records[0].Brand)
		assert.Equal(t, "2024-01-15", records[0].ScrapeDate)
	})
}

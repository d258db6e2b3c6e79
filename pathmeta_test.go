package petfood_test

import (
	"path/filepath"
	"testing"

	petfood "github.com/thaochithai/pet-food-analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProductPath(t *testing.T) {
	t.Parallel()

	t.Run("compact timestamp convention", func(t *testing.T) {
		t.Parallel()

		meta := petfood.ResolveProductPath("data/dog_food/B000123ABC_20240115_143000.html")

		assert.Equal(t, "B000123ABC", meta.ASIN)
		assert.Equal(t, "2024-01-15", meta.ScrapeDate)
		assert.Equal(t, "14:30:00", meta.ScrapeTime)
		assert.Equal(t, "14", meta.ScrapeHour)
	})

	t.Run("dashed timestamp convention yields identical result", func(t *testing.T) {
		t.Parallel()

		meta := petfood.ResolveProductPath("data/dog_food/B000123ABC_2024-01-15_14-30-00.html")

		assert.Equal(t, "B000123ABC", meta.ASIN)
		assert.Equal(t, "2024-01-15", meta.ScrapeDate)
		assert.Equal(t, "14:30:00", meta.ScrapeTime)
	})

	t.Run("unrecognized suffix yields absent date and time", func(t *testing.T) {
		t.Parallel()

		meta := petfood.ResolveProductPath("data/dog_food/B000123ABC_latest.html")

		assert.Equal(t, "B000123ABC", meta.ASIN)
		assert.Empty(t, meta.ScrapeDate)
		assert.Empty(t, meta.ScrapeTime)
	})

	t.Run("impossible date yields absent fields", func(t *testing.T) {
		t.Parallel()

		meta := petfood.ResolveProductPath("B000123ABC_20241350_990000.html")

		assert.Empty(t, meta.ScrapeDate)
		assert.Empty(t, meta.ScrapeTime)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		path := "data/cat_food/B0CAT00001_20240201_080000.html"
		assert.Equal(t, petfood.ResolveProductPath(path), petfood.ResolveProductPath(path))
	})
}

func TestResolveListingPath(t *testing.T) {
	t.Parallel()

	root := filepath.Join("data", "html")

	t.Run("full run layout", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(root, "dog_food", "2024-01-15", "14-30", "dog_food_page2_14-30-05.html")
		meta := petfood.ResolveListingPath(root, path)

		assert.Equal(t, "dog food", meta.SearchTerm)
		assert.Equal(t, "2024-01-15", meta.ScrapeDate)
		assert.Equal(t, "14:30:05", meta.ScrapeTime)
		assert.Equal(t, "14", meta.ScrapeHour)
		assert.Equal(t, 2, meta.PageNumber)
		assert.Equal(t, petfood.RunKey{Date: "2024-01-15", Time: "14-30"}, meta.Run)
	})

	t.Run("page number defaults to 1", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(root, "cat_food", "2024-01-15", "09-00", "cat_food_09-00-12.html")
		meta := petfood.ResolveListingPath(root, path)

		assert.Equal(t, 1, meta.PageNumber)
	})

	t.Run("missing run directories yield absent provenance", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(root, "cat_food", "cat_food_page1.html")
		meta := petfood.ResolveListingPath(root, path)

		assert.Equal(t, "cat food", meta.SearchTerm)
		assert.Empty(t, meta.ScrapeDate)
		assert.Empty(t, meta.ScrapeTime)
		assert.True(t, meta.Run.IsZero() || meta.Run.Date == "")
	})
}

func TestSlugRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dog_food_grain_free", petfood.Slug("dog food grain-free"))
	assert.Equal(t, "dog food grain free", petfood.TermFromSlug("dog_food_grain_free"))
}

func TestParseRunKey(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		key, err := petfood.ParseRunKey("2024-01-15_14-30")
		require.NoError(t, err)
		assert.Equal(t, petfood.RunKey{Date: "2024-01-15", Time: "14-30"}, key)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		_, err := petfood.ParseRunKey("20240115-1430")
		require.Error(t, err)
		assert.Equal(t, petfood.EINVALID, petfood.ErrorCode(err))
	})
}

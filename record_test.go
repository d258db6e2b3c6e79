package petfood_test

import (
	"testing"

	petfood "github.com/thaochithai/pet-food-analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("missing ASIN", func(t *testing.T) {
		t.Parallel()

		rec := &petfood.ListingRecord{Position: 1}
		err := rec.Validate()
		require.Error(t, err)
		assert.Equal(t, petfood.EINVALID, petfood.ErrorCode(err))
	})

	t.Run("zero position", func(t *testing.T) {
		t.Parallel()

		rec := &petfood.ListingRecord{ASIN: "B000123ABC"}
		require.Error(t, rec.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		rec := &petfood.ListingRecord{ASIN: "B000123ABC", Position: 1}
		require.NoError(t, rec.Validate())
	})
}

func TestListingRecord_RunKey(t *testing.T) {
	t.Parallel()

	rec := &petfood.ListingRecord{ScrapeDate: "2024-01-15", ScrapeTime: "14:30:05"}
	assert.Equal(t, petfood.RunKey{Date: "2024-01-15", Time: "14-30"}, rec.RunKey())
}

func TestProductRecord_Flatten(t *testing.T) {
	t.Parallel()

	rec := &petfood.ProductRecord{
		Categories:   []string{"Pet Supplies", "Dogs", "Food"},
		BulletPoints: []string{"Grain free", "Made in USA"},
		ProductDetails: map[string]string{
			"item_weight": "4 Pounds",
			"brand":       "Acme",
		},
	}

	assert.Equal(t, "Pet Supplies|Dogs|Food", rec.FlatCategories())
	assert.Equal(t, "Grain free|Made in USA", rec.FlatBulletPoints())
	assert.Equal(t, "brand=Acme; item_weight=4 Pounds", rec.FlatProductDetails())
}

func TestFlattenList_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, petfood.FlattenList(nil))
	assert.Empty(t, petfood.FlattenDetails(nil))
}

func TestGroupByRun(t *testing.T) {
	t.Parallel()

	recs := []*petfood.ListingRecord{
		{ASIN: "B000000001", SearchTerm: "dog food", ScrapeDate: "2024-01-15", ScrapeTime: "14:30:05", Position: 1},
		{ASIN: "B000000002", SearchTerm: "cat food", ScrapeDate: "2024-01-15", ScrapeTime: "09:00:12", Position: 1},
		{ASIN: "B000000003", SearchTerm: "dog food", ScrapeDate: "2024-01-15", ScrapeTime: "14:30:05", Position: 2},
		{ASIN: "B000000004", SearchTerm: "dog food", ScrapeDate: "2024-01-14", ScrapeTime: "14:30:01", Position: 1},
	}

	runs := petfood.GroupByRun(recs)

	require.Len(t, runs, 3)

	// Chronological by key, then term.
	assert.Equal(t, petfood.RunKey{Date: "2024-01-14", Time: "14-30"}, runs[0].Key)
	assert.Equal(t, "dog food", runs[0].Term)

	assert.Equal(t, petfood.RunKey{Date: "2024-01-15", Time: "09-00"}, runs[1].Key)
	assert.Equal(t, "cat food", runs[1].Term)

	assert.Equal(t, petfood.RunKey{Date: "2024-01-15", Time: "14-30"}, runs[2].Key)
	require.Len(t, runs[2].Records, 2)
	assert.Equal(t, "B000000001", runs[2].Records[0].ASIN)
	assert.Equal(t, "B000000003", runs[2].Records[1].ASIN)
}

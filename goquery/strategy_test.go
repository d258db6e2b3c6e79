package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"

	petfood "github.com/thaochithai/pet-food-analysis"
	"github.com/thaochithai/pet-food-analysis/goquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selection(t *testing.T, html string) *gq.Selection {
	t.Helper()

	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

func TestChain_Extract(t *testing.T) {
	t.Parallel()

	t.Run("earlier strategy wins when both match", func(t *testing.T) {
		t.Parallel()

		chain := goquery.Chain{Field: "title", Strategies: []goquery.Strategy{
			{Name: "first", Fn: func(*gq.Selection) string { return "from first" }},
			{Name: "second", Fn: func(*gq.Selection) string { return "from second" }},
		}}

		for i := 0; i < 5; i++ {
			result := chain.Extract(selection(t, "<html></html>"))
			require.True(t, result.Present())
			assert.Equal(t, "from first", result.Value)
			assert.Equal(t, 0, result.Strategy)
		}
	})

	t.Run("short-circuits past misses", func(t *testing.T) {
		t.Parallel()

		calls := 0
		chain := goquery.Chain{Field: "title", Strategies: []goquery.Strategy{
			{Name: "miss", Fn: func(*gq.Selection) string { return "" }},
			{Name: "whitespace is a miss", Fn: func(*gq.Selection) string { return "  \n " }},
			{Name: "hit", Fn: func(*gq.Selection) string { return "value" }},
			{Name: "never consulted", Fn: func(*gq.Selection) string { calls++; return "late" }},
		}}

		result := chain.Extract(selection(t, "<html></html>"))
		require.True(t, result.Present())
		assert.Equal(t, "value", result.Value)
		assert.Equal(t, 2, result.Strategy)
		assert.Zero(t, calls)
	})

	t.Run("all strategies missing yields the absent field", func(t *testing.T) {
		t.Parallel()

		chain := goquery.Chain{Field: "brand", Strategies: []goquery.Strategy{
			{Name: "miss", Fn: func(*gq.Selection) string { return "" }},
		}}

		result := chain.Extract(selection(t, "<html></html>"))
		assert.False(t, result.Present())
		assert.Equal(t, petfood.AbsentField, result)
	})

	t.Run("a panicking strategy is a miss, not a failure", func(t *testing.T) {
		t.Parallel()

		chain := goquery.Chain{Field: "price", Strategies: []goquery.Strategy{
			{Name: "buggy", Fn: func(*gq.Selection) string { panic("boom") }},
			{Name: "fallback", Fn: func(*gq.Selection) string { return "ok" }},
		}}

		result := chain.Extract(selection(t, "<html></html>"))
		require.True(t, result.Present())
		assert.Equal(t, "ok", result.Value)
		assert.Equal(t, 1, result.Strategy)
	})
}

func TestDetectorChain_Detect(t *testing.T) {
	t.Parallel()

	t.Run("any firing detector is enough", func(t *testing.T) {
		t.Parallel()

		chain := goquery.DetectorChain{Field: "prime", Detectors: []goquery.Detector{
			{Name: "miss", Fn: func(*gq.Selection) bool { return false }},
			{Name: "hit", Fn: func(*gq.Selection) bool { return true }},
		}}

		assert.True(t, chain.Detect(selection(t, "<html></html>")))
	})

	t.Run("defaults to false", func(t *testing.T) {
		t.Parallel()

		chain := goquery.DetectorChain{Field: "prime"}
		assert.False(t, chain.Detect(selection(t, "<html></html>")))
	})

	t.Run("a panicking detector does not fire", func(t *testing.T) {
		t.Parallel()

		chain := goquery.DetectorChain{Field: "sponsored", Detectors: []goquery.Detector{
			{Name: "buggy", Fn: func(*gq.Selection) bool { panic("boom") }},
		}}

		assert.False(t, chain.Detect(selection(t, "<html></html>")))
	})
}

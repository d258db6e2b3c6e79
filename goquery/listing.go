package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Ensure ListingParser implements petfood.ListingParser at compile time.
var _ petfood.ListingParser = (*ListingParser)(nil)

// resultItemSelector matches one search-result item container.
const resultItemSelector = "div[data-component-type='s-search-result']"

var (
	asinLinkRE        = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})(?:/|\?|$)`)
	asinComponentRE   = regexp.MustCompile(`(?:asin|product)/([A-Z0-9]{10})`)
	reviewsLabelRE    = regexp.MustCompile(`(?i)([\d.,]+)\s+(?:ratings|reviews)`)
	sponsoredTextRE   = regexp.MustCompile(`(?i)sponsored`)
	primeTextRE       = regexp.MustCompile(`(?i)prime shipping|prime delivery`)
	salesHistoryRE    = regexp.MustCompile(`(?i)bought|orders|purchased`)
	ratingAriaLabelRE = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s+out of\s+\d+\s+stars`)
)

// ListingParser extracts listing records from Amazon search-result
// snapshots. Field strategy chains are declared once at construction and
// shared read-only across documents; parsing holds no mutable state, so
// one parser may be used from any number of goroutines.
type ListingParser struct {
	asin          Chain
	title         Chain
	price         Chain
	originalPrice Chain
	rating        Chain
	reviews       Chain
	salesHistory  Chain
	sponsored     DetectorChain
	prime         DetectorChain
}

// NewListingParser creates a ListingParser with its field chains in
// their declared priority order: most template-specific match first,
// most generic fallback last.
func NewListingParser() *ListingParser {
	return &ListingParser{
		asin: Chain{Field: "asin", Strategies: []Strategy{
			{Name: "data-asin attribute", Fn: extractASINAttr},
			{Name: "component id", Fn: extractASINComponentID},
			{Name: "detail link", Fn: extractASINLink},
		}},
		title: Chain{Field: "title", Strategies: []Strategy{
			{Name: "heading span", Fn: firstText("h2 a span, h5 a span, span.a-size-medium.a-color-base.a-text-normal")},
			{Name: "link title attribute", Fn: firstAttr("a[title]", "title")},
			{Name: "heading text", Fn: firstText("h2")},
		}},
		price: Chain{Field: "price", Strategies: []Strategy{
			{Name: "offscreen price", Fn: firstText("span.a-price span.a-offscreen")},
			{Name: "whole price", Fn: firstText("span.a-price-whole")},
			{Name: "color price", Fn: firstText("span.a-color-price")},
			{Name: "price container", Fn: firstText("span.a-price")},
		}},
		originalPrice: Chain{Field: "original_price", Strategies: []Strategy{
			{Name: "struck offscreen", Fn: firstText("span.a-price.a-text-price[data-a-strike='true'] span.a-offscreen")},
			{Name: "struck aria-hidden", Fn: firstText("span.a-price.a-text-price[data-a-strike='true'] span[aria-hidden='true']")},
		}},
		rating: Chain{Field: "rating", Strategies: []Strategy{
			{Name: "star icon text", Fn: extractRatingText},
			{Name: "star class token", Fn: extractRatingClass},
			{Name: "aria label", Fn: extractRatingAriaLabel},
		}},
		reviews: Chain{Field: "reviews_count", Strategies: []Strategy{
			{Name: "labelled count", Fn: extractReviewsLabelled("span.a-size-base.s-underline-text, span.a-size-base.a-color-secondary, a[href*='customerReviews'] span")},
			{Name: "generic count", Fn: extractReviewsLabelled("a[href*='customerReviews'], span.a-size-base.puis-normal-weight-text, div.a-row.a-size-small span.a-size-base")},
		}},
		salesHistory: Chain{Field: "sales_history", Strategies: []Strategy{
			{Name: "purchase signal text", Fn: extractSalesHistory},
		}},
		sponsored: DetectorChain{Field: "sponsored", Detectors: []Detector{
			{Name: "sponsored badge", Fn: anyPresent(
				"span.puis-label-popover-default",
				"span.s-label-popover-default",
				"span.aok-inline-block.s-sponsored-label-info-icon",
			)},
			{Name: "sponsored text", Fn: func(scope *goquery.Selection) bool {
				return textNodeMatching(scope, sponsoredTextRE) != nil
			}},
			{Name: "component type", Fn: func(scope *goquery.Selection) bool {
				return strings.Contains(attr(scope, "data-component-type"), "sp-sponsored")
			}},
		}},
		prime: DetectorChain{Field: "prime", Detectors: []Detector{
			{Name: "prime badge", Fn: anyPresent(
				"i.a-icon-prime",
				"span.aok-relative span.a-icon-prime",
				"span.a-icon.a-icon-prime",
			)},
			{Name: "prime text", Fn: func(scope *goquery.Selection) bool {
				return textNodeMatching(scope, primeTextRE) != nil
			}},
		}},
	}
}

// ParseListing parses a search-results snapshot into one record per
// result item. Items without a resolvable ASIN are dropped; emitted
// records carry contiguous 1-based positions in document order. A field
// miss leaves that field absent without affecting the rest of the
// record.
func (p *ListingParser) ParseListing(snap *petfood.Snapshot, meta petfood.PathMeta) ([]*petfood.ListingRecord, error) {
	doc, err := Parse(snap.Body)
	if err != nil {
		return nil, err
	}

	var records []*petfood.ListingRecord
	doc.QueryAll(resultItemSelector).Each(func(_ int, item *goquery.Selection) {
		asin := p.asin.Extract(item)
		if !asin.Present() {
			return
		}

		rec := &petfood.ListingRecord{
			ASIN:       asin.Value,
			SearchTerm: meta.SearchTerm,
			PageNumber: meta.PageNumber,
			Position:   len(records) + 1,
			ScrapeDate: meta.ScrapeDate,
			ScrapeTime: meta.ScrapeTime,
			ScrapeHour: meta.ScrapeHour,
			Title:      p.title.Extract(item).Value,
			Sponsored:  p.sponsored.Detect(item),
			Prime:      p.prime.Detect(item),
		}

		if raw := p.price.Extract(item); raw.Present() {
			if v, ok := petfood.ParsePrice(raw.Value); ok {
				rec.Price = &v
			}
		}
		if raw := p.originalPrice.Extract(item); raw.Present() {
			if v, ok := petfood.ParsePrice(raw.Value); ok {
				rec.OriginalPrice = &v
			}
		}
		if raw := p.rating.Extract(item); raw.Present() {
			if v, ok := parseRating(raw.Value); ok {
				rec.Rating = &v
			}
		}
		if raw := p.reviews.Extract(item); raw.Present() {
			if n, ok := petfood.ParseCount(raw.Value); ok {
				rec.ReviewsCount = &n
			}
		}
		rec.SalesHistory = p.salesHistory.Extract(item).Value

		records = append(records, rec)
	})

	return records, nil
}

// parseRating normalizes a raw rating value produced by any of the
// rating strategies: "X out of Y stars" text or a star class token.
func parseRating(raw string) (float64, bool) {
	if v, ok := petfood.ParseRatingText(raw); ok {
		return v, true
	}
	return petfood.ParseStarClass(raw)
}

func extractASINAttr(scope *goquery.Selection) string {
	asin := attr(scope, "data-asin")
	if len(asin) > 5 {
		return asin
	}
	return ""
}

func extractASINComponentID(scope *goquery.Selection) string {
	if m := asinComponentRE.FindStringSubmatch(attr(scope, "data-component-id")); m != nil {
		return m[1]
	}
	return ""
}

func extractASINLink(scope *goquery.Selection) string {
	var asin string
	scope.Find("a[href*='/dp/'], a[href*='/gp/product/']").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if m := asinLinkRE.FindStringSubmatch(attr(link, "href")); m != nil {
			asin = m[1]
			return false
		}
		return true
	})
	return asin
}

func extractRatingText(scope *goquery.Selection) string {
	var raw string
	scope.Find("i.a-icon-star, i.a-icon-star-small, span.a-icon-alt").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if t := text(sel); t != "" {
			if _, ok := petfood.ParseRatingText(t); ok {
				raw = t
				return false
			}
		}
		return true
	})
	return raw
}

func extractRatingClass(scope *goquery.Selection) string {
	var raw string
	scope.Find("i.a-icon-star, i.a-icon-star-small").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, class := range strings.Fields(attr(sel, "class")) {
			if _, ok := petfood.ParseStarClass(class); ok {
				raw = class
				return false
			}
		}
		return true
	})
	return raw
}

func extractRatingAriaLabel(scope *goquery.Selection) string {
	var raw string
	scope.Find("[aria-label*='stars']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if label := attr(sel, "aria-label"); ratingAriaLabelRE.MatchString(label) {
			raw = label
			return false
		}
		return true
	})
	return raw
}

// extractReviewsLabelled returns a strategy yielding the first node text
// under selector that reads like "<number> ratings|reviews".
func extractReviewsLabelled(selector string) func(scope *goquery.Selection) string {
	return func(scope *goquery.Selection) string {
		var raw string
		scope.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if t := text(sel); reviewsLabelRE.MatchString(t) {
				raw = t
				return false
			}
			return true
		})
		return raw
	}
}

func extractSalesHistory(scope *goquery.Selection) string {
	var raw string
	scope.Find("span.a-size-base").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if t := text(sel); t != "" && salesHistoryRE.MatchString(t) {
			raw = t
			return false
		}
		return true
	})
	return raw
}

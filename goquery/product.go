package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Ensure ProductParser implements petfood.ProductParser at compile time.
var _ petfood.ProductParser = (*ProductParser)(nil)

var (
	brandPrefixRE    = regexp.MustCompile(`(?i)^(?:Visit the|Brand:|by)\s+`)
	brandSuffixRE    = regexp.MustCompile(`\s+Store$`)
	bestsellerRankRE = regexp.MustCompile(`Best Sellers Rank`)
)

// breadcrumb separator glyphs that must not become categories.
var categorySeparators = map[string]bool{"›": true, "‹": true, "/": true}

// ProductParser extracts one product record per product-detail snapshot.
// Like ListingParser, its strategy chains are declared once and shared
// read-only across documents.
type ProductParser struct {
	title        Chain
	brand        Chain
	color        Chain
	description  Chain
	rank         Chain
	pricePerUnit Chain
	image        Chain
}

// NewProductParser creates a ProductParser with its field chains in
// declared priority order.
func NewProductParser() *ProductParser {
	return &ProductParser{
		title: Chain{Field: "title", Strategies: []Strategy{
			{Name: "product title", Fn: firstText("#productTitle")},
			{Name: "large heading", Fn: firstText("h1.a-size-large")},
			{Name: "generic heading", Fn: firstText("h1.product-title")},
		}},
		brand: Chain{Field: "brand", Strategies: []Strategy{
			{Name: "byline", Fn: firstText("#bylineInfo")},
			{Name: "overview row", Fn: firstText(".po-brand .a-span9")},
			{Name: "brand container", Fn: firstText("#brand, a#brand")},
			{Name: "meta tag", Fn: firstAttr("meta[name='brand']", "content")},
		}},
		color: Chain{Field: "color", Strategies: []Strategy{
			{Name: "overview row", Fn: firstText("tr.po-color td.a-span9 span")},
			{Name: "twister label", Fn: firstText("#variation_color_name .selection")},
		}},
		description: Chain{Field: "description", Strategies: []Strategy{
			{Name: "description block", Fn: firstText("#productDescription")},
			{Name: "overview block", Fn: firstText("#aplus, #dpx-aplus-product-description_feature_div")},
			{Name: "iframe placeholder", Fn: extractDescriptionIframe},
		}},
		rank: Chain{Field: "bestseller_rank", Strategies: []Strategy{
			{Name: "sales rank row", Fn: extractRankRow},
			{Name: "rank heading siblings", Fn: extractRankSiblings},
			{Name: "detail bullet", Fn: extractRankBullet},
		}},
		pricePerUnit: Chain{Field: "price_per_unit", Strategies: []Strategy{
			{Name: "canonical container", Fn: extractPricePerUnitCanonical},
			{Name: "alternate containers", Fn: firstText(".a-price-per-unit, .pricePerUnit .a-price, [data-testid='price-per-unit']")},
		}},
		image: Chain{Field: "image_url", Strategies: []Strategy{
			{Name: "landing image", Fn: firstAttr("#landingImage", "src")},
			{Name: "wrapper image", Fn: firstAttr("#imgTagWrapperId img", "src")},
			{Name: "first thumbnail", Fn: extractFirstThumbnail},
		}},
	}
}

// ParseProduct parses a product-detail snapshot into one record. All
// content fields degrade independently to their zero values; provenance
// comes from meta.
func (p *ProductParser) ParseProduct(snap *petfood.Snapshot, meta petfood.PathMeta) (*petfood.ProductRecord, error) {
	doc, err := Parse(snap.Body)
	if err != nil {
		return nil, err
	}
	scope := doc.Selection()

	rec := &petfood.ProductRecord{
		ASIN:           meta.ASIN,
		SearchTerm:     meta.SearchTerm,
		ScrapeDate:     meta.ScrapeDate,
		ScrapeTime:     meta.ScrapeTime,
		Title:          p.title.Extract(scope).Value,
		Brand:          cleanBrand(p.brand.Extract(scope).Value),
		Color:          p.color.Extract(scope).Value,
		Categories:     extractCategories(scope),
		BulletPoints:   extractBulletPoints(scope),
		Description:    p.description.Extract(scope).Value,
		BestsellerRank: p.rank.Extract(scope).Value,
		PricePerUnit:   p.pricePerUnit.Extract(scope).Value,
		ProductDetails: extractDetailsTable(scope),
		ImageURL:       p.image.Extract(scope).Value,
	}

	// The overview table is the fallback source for color when no
	// dedicated row matched.
	if rec.Color == "" {
		rec.Color = rec.ProductDetails["color"]
	}

	return rec, nil
}

// cleanBrand strips the decorative prefixes and suffix Amazon wraps
// around byline brand names.
func cleanBrand(raw string) string {
	raw = brandPrefixRE.ReplaceAllString(raw, "")
	raw = brandSuffixRE.ReplaceAllString(raw, "")
	return strings.TrimSpace(raw)
}

// extractCategories collects the breadcrumb trail in document order,
// excluding separator glyphs, then appends the selected search-dropdown
// category if present. An empty collection is returned as nil, never as
// an empty slice.
func extractCategories(scope *goquery.Selection) []string {
	var categories []string
	scope.Find("#wayfinding-breadcrumbs_feature_div li, #wayfinding-breadcrumbs a").Each(func(_ int, sel *goquery.Selection) {
		if t := text(sel); t != "" && !categorySeparators[t] {
			categories = append(categories, t)
		}
	})
	if selected := queryOne(scope, "#searchDropdownBox option[selected]"); selected != nil {
		if t := text(selected); t != "" {
			categories = append(categories, t)
		}
	}
	return categories
}

// extractBulletPoints collects feature bullets from the canonical block,
// then from the alternate feature div, in that order.
func extractBulletPoints(scope *goquery.Selection) []string {
	var bullets []string
	collect := func(_ int, sel *goquery.Selection) {
		if t := text(sel); t != "" {
			bullets = append(bullets, t)
		}
	}
	scope.Find("#feature-bullets li:not(.aok-hidden)").Each(collect)
	scope.Find("#featurebullets_feature_div li").Each(collect)
	return bullets
}

func extractDescriptionIframe(scope *goquery.Selection) string {
	iframe := queryOne(scope, "#product-description-iframe")
	if iframe == nil {
		return ""
	}
	return "[Description in iframe: " + attr(iframe, "src") + "]"
}

func extractRankRow(scope *goquery.Selection) string {
	return text(queryOne(scope, "tr[id*='SalesRank']"))
}

// extractRankSiblings locates the "Best Sellers Rank" label text and
// concatenates up to five element siblings following its parent. Rank
// listings are spread across unlabelled siblings in the detail section,
// so structural selection alone cannot reach them.
func extractRankSiblings(scope *goquery.Selection) string {
	node := textNodeMatching(scope, bestsellerRankRE)
	if node == nil || node.Parent == nil {
		return ""
	}
	return followingSiblingsText(node.Parent, 5)
}

func extractRankBullet(scope *goquery.Selection) string {
	var raw string
	scope.Find("#detailBulletsWrapper_feature_div li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if t := text(sel); strings.Contains(t, "Best Sellers Rank") {
			raw = t
			return false
		}
		return true
	})
	return raw
}

func extractPricePerUnitCanonical(scope *goquery.Selection) string {
	sel := queryOne(scope, "span.pricePerUnit")
	if sel == nil {
		return ""
	}
	t := text(sel)
	t = strings.NewReplacer("(", "", ")", "").Replace(t)
	return petfood.CollapseSpace(t)
}

func extractFirstThumbnail(scope *goquery.Selection) string {
	var src string
	scope.Find("#altImages img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if s := attr(sel, "src"); s != "" {
			src = s
			return false
		}
		return true
	})
	return src
}

// extractDetailsTable merges the two overview-table conventions into one
// mapping keyed by lower-cased, space-to-underscore label. The canonical
// table is scanned first and wins per key; the class-based rows only add
// keys not already seen.
func extractDetailsTable(scope *goquery.Selection) map[string]string {
	details := make(map[string]string)

	scope.Find("table.a-normal.a-spacing-micro tr").Each(func(_ int, row *goquery.Selection) {
		label := text(queryOne(row, "td:first-child span.a-text-bold"))
		value := text(queryOne(row, "td.a-span9 span.po-break-word"))
		addDetail(details, label, value)
	})

	scope.Find("tr[class*='po-']").Each(func(_ int, row *goquery.Selection) {
		label := text(queryOne(row, "td:first-child span"))
		value := text(queryOne(row, "td:last-child span"))
		addDetail(details, label, value)
	})

	if len(details) == 0 {
		return nil
	}
	return details
}

// addDetail inserts a normalized key unless an earlier scan already
// produced it: first scan wins per key.
func addDetail(details map[string]string, label, value string) {
	if label == "" || value == "" {
		return
	}
	key := strings.ReplaceAll(strings.ToLower(label), " ", "_")
	if _, ok := details[key]; !ok {
		details[key] = value
	}
}

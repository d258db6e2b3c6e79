package petfood

import (
	"sort"
	"strings"
)

// ListDelimiter joins collection-valued fields when a record is flattened
// for a tabular sink.
const ListDelimiter = "|"

// ListingRecord is one row per search-result item on a listing snapshot.
// Content fields may be absent; provenance fields (search term, scrape
// date, scrape time) are always populated from the snapshot path.
type ListingRecord struct {
	ASIN          string   `json:"asin"`
	SearchTerm    string   `json:"search_term"`
	PageNumber    int      `json:"page_number"`
	Position      int      `json:"position"`
	ScrapeDate    string   `json:"scrape_date"`
	ScrapeTime    string   `json:"scrape_time"`
	ScrapeHour    string   `json:"scrape_hour"`
	Title         string   `json:"title"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	Sponsored     bool     `json:"sponsored"`
	ReviewsCount  *int     `json:"reviews_count"`
	Rating        *float64 `json:"rating"`
	SalesHistory  string   `json:"sales_history"`
	Prime         bool     `json:"prime"`
}

// Validate returns an error if the record is missing required identifiers.
func (r *ListingRecord) Validate() error {
	if r.ASIN == "" {
		return Errorf(EINVALID, "listing record ASIN required")
	}
	if r.Position < 1 {
		return Errorf(EINVALID, "listing record position must be 1-based")
	}
	return nil
}

// RunKey returns the (date, hour-minute) run the record was captured in.
func (r *ListingRecord) RunKey() RunKey {
	return RunKey{Date: r.ScrapeDate, Time: hourMinute(r.ScrapeTime)}
}

// ProductRecord is one row per product-detail snapshot.
type ProductRecord struct {
	ASIN           string            `json:"asin"`
	SearchTerm     string            `json:"search_term"`
	ScrapeDate     string            `json:"scrape_date"`
	ScrapeTime     string            `json:"scrape_time"`
	Title          string            `json:"title"`
	Brand          string            `json:"brand"`
	Color          string            `json:"color"`
	Categories     []string          `json:"categories"`
	BulletPoints   []string          `json:"bullet_points"`
	Description    string            `json:"description"`
	BestsellerRank string            `json:"bestseller_rank"`
	PricePerUnit   string            `json:"price_per_unit"`
	ProductDetails map[string]string `json:"product_details"`
	ImageURL       string            `json:"image_url"`
}

// Validate returns an error if the record is missing required identifiers.
func (r *ProductRecord) Validate() error {
	if r.ASIN == "" {
		return Errorf(EINVALID, "product record ASIN required")
	}
	return nil
}

// FlatCategories returns the category trail joined for tabular output.
func (r *ProductRecord) FlatCategories() string {
	return FlattenList(r.Categories)
}

// FlatBulletPoints returns the bullet points joined for tabular output.
func (r *ProductRecord) FlatBulletPoints() string {
	return FlattenList(r.BulletPoints)
}

// FlatProductDetails returns the attribute table as "key=value" pairs
// joined with "; ", keys sorted so the flattening is deterministic.
func (r *ProductRecord) FlatProductDetails() string {
	return FlattenDetails(r.ProductDetails)
}

// FlattenList joins a collection-valued field for a flat-tabular sink.
// An absent (nil or empty) collection flattens to the empty string.
func FlattenList(values []string) string {
	return strings.Join(values, ListDelimiter)
}

// FlattenDetails flattens an attribute table for a flat-tabular sink.
func FlattenDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+details[k])
	}
	return strings.Join(pairs, "; ")
}

// hourMinute reduces an HH:MM:SS scrape time to the HH-MM run directory form.
func hourMinute(scrapeTime string) string {
	if len(scrapeTime) < 5 {
		return ""
	}
	return strings.ReplaceAll(scrapeTime[:5], ":", "-")
}

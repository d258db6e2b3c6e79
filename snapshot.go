package petfood

import "context"

// Snapshot is one archived page: its raw bytes plus the path it was
// captured to. Snapshots are ephemeral. They exist for the duration of
// a single extraction call and are never mutated.
type Snapshot struct {
	Path string
	Body []byte
}

// FieldResult is the outcome of running a strategy chain for one field.
// Strategy is the index of the winning strategy in declared order, or -1
// when every strategy missed. It is retained for diagnostics only.
type FieldResult struct {
	Value    string
	Strategy int
}

// AbsentField is the result of a chain where every strategy missed.
var AbsentField = FieldResult{Strategy: -1}

// Present reports whether any strategy produced a raw value.
func (r FieldResult) Present() bool {
	return r.Strategy >= 0
}

// ListingParser extracts listing records from a search-results snapshot.
// One record is produced per result item, in document order with
// contiguous 1-based positions. Items without a resolvable ASIN are
// dropped. A per-field miss never fails the parse; only an unparseable
// body returns an error (EUNREADABLE).
type ListingParser interface {
	ParseListing(snap *Snapshot, meta PathMeta) ([]*ListingRecord, error)
}

// ProductParser extracts a single product record from a product-detail
// snapshot. All content fields are optional; provenance comes from meta.
type ProductParser interface {
	ParseProduct(snap *Snapshot, meta PathMeta) (*ProductRecord, error)
}

// SnapshotStore discovers and reads snapshots beneath a capture root.
//
// The expected layout mirrors the capture tooling:
//
//	root/<term-slug>/<date>/<hour-minute>/<slug>_pageN_HH-MM-SS.html  (listing)
//	root/<term-slug>/<ASIN>_<timestamp>.html                          (product)
type SnapshotStore interface {
	// Root returns the capture root directory.
	Root() string

	// Terms lists the search-term slugs present under the root.
	Terms(ctx context.Context) ([]string, error)

	// Runs lists every (date, hour-minute) run discovered across all
	// term directories, sorted ascending.
	Runs(ctx context.Context) ([]RunKey, error)

	// ListingSnapshots lists listing snapshot paths for a term. A
	// non-zero run restricts results to that run's directory.
	// Returns ENOTFOUND if the term directory does not exist.
	ListingSnapshots(ctx context.Context, term string, run RunKey) ([]string, error)

	// ProductSnapshots lists product snapshot paths for a term.
	// Returns ENOTFOUND if the term directory does not exist.
	ProductSnapshots(ctx context.Context, term string) ([]string, error)

	// Read loads one snapshot's bytes.
	Read(ctx context.Context, path string) (*Snapshot, error)
}

// ListingWriter emits listing records to an output sink.
type ListingWriter interface {
	WriteListings(records []*ListingRecord) error
	Close() error
}

// ProductWriter emits product records to an output sink.
type ProductWriter interface {
	WriteProducts(records []*ProductRecord) error
	Close() error
}

// ListingFilter represents a filter for RecordService.FindListings.
type ListingFilter struct {
	ASIN       *string `json:"asin"`
	SearchTerm *string `json:"searchTerm"`
	ScrapeDate *string `json:"scrapeDate"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProductFilter represents a filter for RecordService.FindProducts.
type ProductFilter struct {
	ASIN       *string `json:"asin"`
	SearchTerm *string `json:"searchTerm"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordService persists extracted records for downstream querying.
type RecordService interface {
	// CreateListings stores a batch of listing records.
	CreateListings(ctx context.Context, records []*ListingRecord) error

	// CreateProduct stores one product record.
	CreateProduct(ctx context.Context, record *ProductRecord) error

	// FindListings retrieves listing records matching the filter.
	FindListings(ctx context.Context, filter ListingFilter) ([]*ListingRecord, error)

	// FindProducts retrieves product records matching the filter.
	FindProducts(ctx context.Context, filter ProductFilter) ([]*ProductRecord, error)
}

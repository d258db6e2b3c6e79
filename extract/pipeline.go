// Package extract orchestrates snapshot discovery, parsing, and record
// assembly. It coordinates the snapshot store and the page parsers,
// isolating per-snapshot failures so one broken capture never aborts a
// term or a run.
package extract

import (
	"context"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	petfood "github.com/thaochithai/pet-food-analysis"
)

const (
	defaultConcurrency = 8

	// seenCacheSize bounds the duplicate-detection cache. Capture runs
	// top out at a few hundred snapshots per term, so evictions only
	// happen across very large roots, where a rare duplicate re-parse
	// is harmless.
	seenCacheSize = 4096
)

// Pipeline runs extraction across snapshot trees.
type Pipeline struct {
	Store    petfood.SnapshotStore
	Listings petfood.ListingParser
	Products petfood.ProductParser

	Logger      *slog.Logger
	Metrics     *Metrics
	Concurrency int

	seen *lru.Cache[uint64, string]
}

// NewPipeline creates a pipeline over a store and parsers. Metrics and
// concurrency can be adjusted on the returned value before first use.
func NewPipeline(store petfood.SnapshotStore, listings petfood.ListingParser, products petfood.ProductParser, logger *slog.Logger) *Pipeline {
	seen, _ := lru.New[uint64, string](seenCacheSize)
	return &Pipeline{
		Store:    store,
		Listings: listings,
		Products: products,
		Logger:   logger,
		seen:     seen,
	}
}

func (p *Pipeline) concurrency() int {
	if p.Concurrency > 0 {
		return p.Concurrency
	}
	return defaultConcurrency
}

// ExtractListingDocument parses one listing snapshot. An unreadable file
// or unparseable body returns an error; per-field misses do not.
func (p *Pipeline) ExtractListingDocument(ctx context.Context, path string) ([]*petfood.ListingRecord, error) {
	snap, err := p.Store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	meta := petfood.ResolveListingPath(p.Store.Root(), path)
	records, err := p.Listings.ParseListing(snap, meta)
	if err != nil {
		return nil, err
	}
	p.Metrics.IncSnapshot("listing")
	p.Metrics.AddRecords("listing", len(records))
	return records, nil
}

// ExtractTerm extracts every listing snapshot under one term directory,
// across all runs. Individual snapshot failures are logged and skipped;
// a missing term directory returns ENOTFOUND.
func (p *Pipeline) ExtractTerm(ctx context.Context, term string) ([]*petfood.ListingRecord, error) {
	return p.extractListings(ctx, term, petfood.RunKey{})
}

// ExtractRun extracts listing snapshots for a single run across every
// term directory. Terms that did not capture that run contribute nothing.
func (p *Pipeline) ExtractRun(ctx context.Context, key petfood.RunKey) ([]*petfood.ListingRecord, error) {
	terms, err := p.Store.Terms(ctx)
	if err != nil {
		return nil, err
	}

	var records []*petfood.ListingRecord
	for _, term := range terms {
		recs, err := p.extractListings(ctx, term, key)
		if err != nil {
			p.Logger.Error("term extraction failed",
				"term", term,
				"run", key.String(),
				"error", err,
			)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// ExtractRoot extracts every listing snapshot under the capture root.
// Per-term failures are logged and skipped so sibling terms still
// process.
func (p *Pipeline) ExtractRoot(ctx context.Context) ([]*petfood.ListingRecord, error) {
	terms, err := p.Store.Terms(ctx)
	if err != nil {
		return nil, err
	}

	var records []*petfood.ListingRecord
	for _, term := range terms {
		recs, err := p.ExtractTerm(ctx, term)
		if err != nil {
			p.Logger.Error("term extraction failed", "term", term, "error", err)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// ExtractProductDocument parses one product-detail snapshot. The search
// term is not derivable from product file names, so the caller supplies
// the enclosing term.
func (p *Pipeline) ExtractProductDocument(ctx context.Context, path, term string) (*petfood.ProductRecord, error) {
	snap, err := p.Store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	meta := petfood.ResolveProductPath(path)
	meta.SearchTerm = term
	record, err := p.Products.ParseProduct(snap, meta)
	if err != nil {
		return nil, err
	}
	p.Metrics.IncSnapshot("product")
	p.Metrics.AddRecords("product", 1)
	return record, nil
}

// ExtractProducts extracts every product snapshot under one term
// directory. Individual snapshot failures are logged and skipped.
func (p *Pipeline) ExtractProducts(ctx context.Context, term string) ([]*petfood.ProductRecord, error) {
	paths, err := p.Store.ProductSnapshots(ctx, term)
	if err != nil {
		return nil, err
	}

	type result struct {
		position int
		path     string
		record   *petfood.ProductRecord
		err      error
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())
	resultCh := make(chan result, len(paths))

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				rec, err := p.ExtractProductDocument(gctx, path, petfood.TermFromSlug(term))
				resultCh <- result{position: i, path: path, record: rec, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]result, len(paths))
	for r := range resultCh {
		results[r.position] = r
	}

	records := make([]*petfood.ProductRecord, 0, len(paths))
	for _, r := range results {
		if r.err != nil {
			p.Metrics.IncError(petfood.ErrorCode(r.err))
			p.Logger.Error("product snapshot failed", "path", r.path, "error", r.err)
			continue
		}
		records = append(records, r.record)
	}
	return records, nil
}

// ExtractAllProducts extracts product snapshots for every term under the
// root. Per-term failures are logged and skipped.
func (p *Pipeline) ExtractAllProducts(ctx context.Context) ([]*petfood.ProductRecord, error) {
	terms, err := p.Store.Terms(ctx)
	if err != nil {
		return nil, err
	}

	var records []*petfood.ProductRecord
	for _, term := range terms {
		recs, err := p.ExtractProducts(ctx, term)
		if err != nil {
			p.Logger.Error("term extraction failed", "term", term, "error", err)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// extractListings runs the listing worker pool over one term directory.
// Results are collected back into snapshot-path order so record positions
// stay deterministic regardless of worker scheduling.
func (p *Pipeline) extractListings(ctx context.Context, term string, run petfood.RunKey) ([]*petfood.ListingRecord, error) {
	paths, err := p.Store.ListingSnapshots(ctx, term, run)
	if err != nil {
		return nil, err
	}

	type result struct {
		position int
		path     string
		records  []*petfood.ListingRecord
		err      error
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())
	resultCh := make(chan result, len(paths))

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				recs, err := p.extractListingSnapshot(gctx, path)
				resultCh <- result{position: i, path: path, records: recs, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]result, len(paths))
	for r := range resultCh {
		results[r.position] = r
	}

	var records []*petfood.ListingRecord
	for _, r := range results {
		if r.err != nil {
			p.Metrics.IncError(petfood.ErrorCode(r.err))
			p.Logger.Error("listing snapshot failed", "path", r.path, "error", r.err)
			continue
		}
		records = append(records, r.records...)
	}
	return records, nil
}

func (p *Pipeline) extractListingSnapshot(ctx context.Context, path string) ([]*petfood.ListingRecord, error) {
	snap, err := p.Store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	meta := petfood.ResolveListingPath(p.Store.Root(), path)
	if p.isDuplicate(snap, meta.Run) {
		p.Metrics.IncDuplicate()
		p.Logger.Debug("duplicate snapshot skipped", "path", path)
		return nil, nil
	}
	records, err := p.Listings.ParseListing(snap, meta)
	if err != nil {
		return nil, err
	}
	p.Metrics.IncSnapshot("listing")
	p.Metrics.AddRecords("listing", len(records))
	return records, nil
}

// isDuplicate reports whether an identical body was already seen in the
// same run. Scheduler retries in the capture tooling can save the same
// response twice under different file names.
func (p *Pipeline) isDuplicate(snap *petfood.Snapshot, run petfood.RunKey) bool {
	if p.seen == nil {
		return false
	}
	digest := xxhash.New()
	_, _ = digest.WriteString(run.String())
	_, _ = digest.Write(snap.Body)
	previous, _ := p.seen.ContainsOrAdd(digest.Sum64(), snap.Path)
	return previous
}

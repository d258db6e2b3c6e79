// Package fs implements snapshot discovery and record output on the
// local filesystem. Snapshots live under a capture root laid out by the
// collection tooling:
//
//	root/<term-slug>/<date>/<hour-minute>/<slug>_pageN_HH-MM-SS.html  (listing)
//	root/<term-slug>/<ASIN>_<timestamp>.html                          (product)
package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Ensure Store implements petfood.SnapshotStore at compile time.
var _ petfood.SnapshotStore = (*Store)(nil)

// Store discovers and reads snapshots beneath a capture root. It is
// read-only and holds no state beyond the root path, so it is safe for
// concurrent use.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given capture directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the capture root directory.
func (s *Store) Root() string {
	return s.root
}

// Terms lists the search-term slugs present under the root. An
// unreadable root is fatal to the whole run, so the error propagates.
func (s *Store) Terms(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, petfood.Errorf(petfood.ENOTFOUND, "capture root %q not readable: %v", s.root, err)
	}

	var terms []string
	for _, e := range entries {
		if e.IsDir() {
			terms = append(terms, e.Name())
		}
	}
	sort.Strings(terms)
	return terms, nil
}

// Runs lists every (date, hour-minute) run discovered across all term
// directories, sorted chronologically. Grouping is discovered, not
// declared: any run directory pair found on disk is a run.
func (s *Store) Runs(ctx context.Context) ([]petfood.RunKey, error) {
	terms, err := s.Terms(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[petfood.RunKey]bool)
	for _, term := range terms {
		for _, key := range s.termRuns(term) {
			seen[key] = true
		}
	}

	runs := make([]petfood.RunKey, 0, len(seen))
	for key := range seen {
		runs = append(runs, key)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Less(runs[j]) })
	return runs, nil
}

// termRuns lists the run directory pairs under one term directory.
// Discovery problems under a single term are not fatal; the term simply
// contributes no runs.
func (s *Store) termRuns(term string) []petfood.RunKey {
	var runs []petfood.RunKey

	termDir := filepath.Join(s.root, petfood.Slug(term))
	dates, err := os.ReadDir(termDir)
	if err != nil {
		return nil
	}
	for _, date := range dates {
		if !date.IsDir() {
			continue
		}
		times, err := os.ReadDir(filepath.Join(termDir, date.Name()))
		if err != nil {
			continue
		}
		for _, tm := range times {
			if tm.IsDir() {
				runs = append(runs, petfood.RunKey{Date: date.Name(), Time: tm.Name()})
			}
		}
	}
	return runs
}

// ListingSnapshots lists listing snapshot paths for a term, sorted. A
// non-zero run restricts results to that run's date/hour-minute
// directory. Returns ENOTFOUND when the term directory is missing.
func (s *Store) ListingSnapshots(ctx context.Context, term string, run petfood.RunKey) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	termDir := filepath.Join(s.root, petfood.Slug(term))
	if _, err := os.Stat(termDir); err != nil {
		return nil, petfood.Errorf(petfood.ENOTFOUND, "search term directory %q not found", termDir)
	}

	datePattern, timePattern := "*", "*"
	if !run.IsZero() {
		datePattern, timePattern = run.Date, run.Time
	}

	paths, err := filepath.Glob(filepath.Join(termDir, datePattern, timePattern, "*.html"))
	if err != nil {
		return nil, petfood.Errorf(petfood.EINVALID, "bad listing glob for term %q: %v", term, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ProductSnapshots lists product snapshot paths for a term, sorted.
// Product snapshots sit directly in the term directory. Returns
// ENOTFOUND when the term directory is missing.
func (s *Store) ProductSnapshots(ctx context.Context, term string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	termDir := filepath.Join(s.root, petfood.Slug(term))
	if _, err := os.Stat(termDir); err != nil {
		return nil, petfood.Errorf(petfood.ENOTFOUND, "search term directory %q not found", termDir)
	}

	paths, err := filepath.Glob(filepath.Join(termDir, "*.html"))
	if err != nil {
		return nil, petfood.Errorf(petfood.EINVALID, "bad product glob for term %q: %v", term, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Read loads one snapshot's bytes. Unreadable files surface as
// EUNREADABLE so the pipeline can skip the document and continue.
func (s *Store) Read(ctx context.Context, path string) (*petfood.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, petfood.Errorf(petfood.EUNREADABLE, "snapshot %q not readable: %v", path, err)
	}
	return &petfood.Snapshot{Path: path, Body: body}, nil
}

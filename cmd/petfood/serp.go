package main

import (
	"fmt"
	"os"
	"path/filepath"

	petfood "github.com/thaochithai/pet-food-analysis"
	"github.com/thaochithai/pet-food-analysis/fs"
	"github.com/thaochithai/pet-food-analysis/sqlite"
)

// Run executes the serp command.
func (c *SerpCmd) Run(deps *Dependencies) error {
	pipeline := deps.newPipeline(c.Dir, c.Concurrency)

	var records []*petfood.ListingRecord
	var err error
	switch {
	case c.RunKey != "":
		var key petfood.RunKey
		key, err = petfood.ParseRunKey(c.RunKey)
		if err == nil {
			records, err = pipeline.ExtractRun(deps.Ctx, key)
		}
	case c.Term != "":
		records, err = pipeline.ExtractTerm(deps.Ctx, petfood.Slug(c.Term))
	default:
		records, err = pipeline.ExtractRoot(deps.Ctx)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", petfood.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No listing records extracted.")
		return nil
	}

	if c.DB != "" {
		if err := persistListings(deps, c.DB, records); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	if c.SingleFile {
		written, err = writeListingFiles(records, filepath.Join(c.OutputDir, "listings"), c.Format)
	} else {
		written, err = writeRunFiles(records, c.OutputDir, c.Format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d listing records.\n", len(records))
	for _, path := range written {
		fmt.Fprintln(deps.Stdout, path)
	}
	return nil
}

// writeRunFiles emits one file set per run, every term's records for that
// run combined in term order.
func writeRunFiles(records []*petfood.ListingRecord, dir, format string) ([]string, error) {
	runs := petfood.GroupByRun(records)

	// GroupByRun is sorted by key then term, so same-key runs are adjacent.
	var written []string
	for i := 0; i < len(runs); {
		key := runs[i].Key
		var batch []*petfood.ListingRecord
		for ; i < len(runs) && runs[i].Key == key; i++ {
			batch = append(batch, runs[i].Records...)
		}

		base := filepath.Join(dir, "run_"+key.String())
		paths, err := writeListingFiles(batch, base, format)
		if err != nil {
			return nil, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

// writeListingFiles writes records to base.csv and/or base.ndjson.
func writeListingFiles(records []*petfood.ListingRecord, base, format string) ([]string, error) {
	var written []string
	if format == "csv" || format == "both" {
		path := base + ".csv"
		if err := writeListingsTo(path, records, func(p string) (petfood.ListingWriter, error) {
			return fs.NewListingCSVWriter(p)
		}); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if format == "json" || format == "both" {
		path := base + ".ndjson"
		if err := writeListingsTo(path, records, func(p string) (petfood.ListingWriter, error) {
			return fs.NewListingJSONWriter(p)
		}); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeListingsTo(path string, records []*petfood.ListingRecord, open func(string) (petfood.ListingWriter, error)) error {
	w, err := open(path)
	if err != nil {
		return err
	}
	if err := w.WriteListings(records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func persistListings(deps *Dependencies, path string, records []*petfood.ListingRecord) error {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	defer db.Close()

	if err := sqlite.NewRecordService(db).CreateListings(deps.Ctx, records); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", petfood.ErrorMessage(err))
		return err
	}
	return nil
}

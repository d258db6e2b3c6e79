package main

import (
	"fmt"
	"os"
	"path/filepath"

	petfood "github.com/thaochithai/pet-food-analysis"
	"github.com/thaochithai/pet-food-analysis/fs"
	"github.com/thaochithai/pet-food-analysis/sqlite"
)

// Run executes the products command.
func (c *ProductsCmd) Run(deps *Dependencies) error {
	pipeline := deps.newPipeline(c.Dir, c.Concurrency)

	var records []*petfood.ProductRecord
	var err error
	if c.Term != "" {
		records, err = pipeline.ExtractProducts(deps.Ctx, petfood.Slug(c.Term))
	} else {
		records, err = pipeline.ExtractAllProducts(deps.Ctx)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", petfood.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No product records extracted.")
		return nil
	}

	if c.DB != "" {
		if err := persistProducts(deps, c.DB, records); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written, err := writeProductFiles(records, filepath.Join(c.OutputDir, "products"), c.Format)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d product records.\n", len(records))
	for _, path := range written {
		fmt.Fprintln(deps.Stdout, path)
	}
	return nil
}

// writeProductFiles writes records to base.csv and/or base.ndjson.
func writeProductFiles(records []*petfood.ProductRecord, base, format string) ([]string, error) {
	var written []string
	if format == "csv" || format == "both" {
		path := base + ".csv"
		if err := writeProductsTo(path, records, func(p string) (petfood.ProductWriter, error) {
			return fs.NewProductCSVWriter(p)
		}); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if format == "json" || format == "both" {
		path := base + ".ndjson"
		if err := writeProductsTo(path, records, func(p string) (petfood.ProductWriter, error) {
			return fs.NewProductJSONWriter(p)
		}); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeProductsTo(path string, records []*petfood.ProductRecord, open func(string) (petfood.ProductWriter, error)) error {
	w, err := open(path)
	if err != nil {
		return err
	}
	if err := w.WriteProducts(records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func persistProducts(deps *Dependencies, path string, records []*petfood.ProductRecord) error {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	defer db.Close()

	svc := sqlite.NewRecordService(db)
	for _, record := range records {
		// Snapshots with unrecognizable file names still produce a
		// record, just without an ASIN. Those rows go to the file
		// writers but cannot be keyed in the database; skip them
		// without aborting the rest of the batch.
		if err := svc.CreateProduct(deps.Ctx, record); err != nil {
			if petfood.ErrorCode(err) == petfood.EINVALID {
				deps.Logger.Warn("product record not persisted",
					"term", record.SearchTerm,
					"error", petfood.ErrorMessage(err),
				)
				continue
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", petfood.ErrorMessage(err))
			return err
		}
	}
	return nil
}

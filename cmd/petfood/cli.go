package main

import (
	"context"
	"io"
	"log/slog"

	petfood "github.com/thaochithai/pet-food-analysis"
	"github.com/thaochithai/pet-food-analysis/extract"
	"github.com/thaochithai/pet-food-analysis/fs"
	"github.com/thaochithai/pet-food-analysis/goquery"
	petslog "github.com/thaochithai/pet-food-analysis/slog"
)

// Dependencies holds shared services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// newStore builds a snapshot store over a capture root.
func (d *Dependencies) newStore(dir string) petfood.SnapshotStore {
	return petslog.NewLoggingSnapshotStore(fs.NewStore(dir), d.Logger)
}

// newPipeline wires the extraction pipeline over a capture root.
func (d *Dependencies) newPipeline(dir string, concurrency int) *extract.Pipeline {
	listings := petslog.NewLoggingListingParser(goquery.NewListingParser(), d.Logger)
	products := petslog.NewLoggingProductParser(goquery.NewProductParser(), d.Logger)
	p := extract.NewPipeline(d.newStore(dir), listings, products, d.Logger)
	p.Concurrency = concurrency
	return p
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Serp     SerpCmd     `cmd:"" help:"Extract listing records from search-results snapshots"`
	Products ProductsCmd `cmd:"" help:"Extract product records from product-detail snapshots"`
	Runs     RunsCmd     `cmd:"" help:"List capture runs discovered under a root"`
}

// SerpCmd is the "serp" subcommand.
type SerpCmd struct {
	Dir         string `arg:"" type:"existingdir" help:"Capture root directory"`
	Term        string `short:"t" help:"Restrict extraction to one search term"`
	RunKey      string `name:"run" help:"Restrict extraction to one run (YYYY-MM-DD_HH-MM)"`
	OutputDir   string `short:"o" default:"." help:"Directory for output files"`
	Format      string `default:"csv" enum:"csv,json,both" help:"Output format"`
	SingleFile  bool   `help:"Write one combined file instead of per-run files"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent snapshot parse limit"`
	DB          string `help:"Also persist records to this SQLite database"`
}

// ProductsCmd is the "products" subcommand.
type ProductsCmd struct {
	Dir         string `arg:"" type:"existingdir" help:"Capture root directory"`
	Term        string `short:"t" help:"Restrict extraction to one search term"`
	OutputDir   string `short:"o" default:"." help:"Directory for output files"`
	Format      string `default:"csv" enum:"csv,json,both" help:"Output format"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent snapshot parse limit"`
	DB          string `help:"Also persist records to this SQLite database"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Capture root directory"`
}

// Package slog provides logging decorators for petfood services.
package slog

import (
	"log/slog"
	"time"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Ensure LoggingListingParser implements petfood.ListingParser.
var _ petfood.ListingParser = (*LoggingListingParser)(nil)

// LoggingListingParser wraps a ListingParser with debug logging.
type LoggingListingParser struct {
	next   petfood.ListingParser
	logger *slog.Logger
}

// NewLoggingListingParser creates a new LoggingListingParser.
func NewLoggingListingParser(next petfood.ListingParser, logger *slog.Logger) *LoggingListingParser {
	return &LoggingListingParser{next: next, logger: logger}
}

// ParseListing delegates to the wrapped parser and logs the operation.
func (p *LoggingListingParser) ParseListing(snap *petfood.Snapshot, meta petfood.PathMeta) (records []*petfood.ListingRecord, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("listing parse",
			"path", snap.Path,
			"term", meta.SearchTerm,
			"page", meta.PageNumber,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseListing(snap, meta)
}

// Ensure LoggingProductParser implements petfood.ProductParser.
var _ petfood.ProductParser = (*LoggingProductParser)(nil)

// LoggingProductParser wraps a ProductParser with debug logging.
type LoggingProductParser struct {
	next   petfood.ProductParser
	logger *slog.Logger
}

// NewLoggingProductParser creates a new LoggingProductParser.
func NewLoggingProductParser(next petfood.ProductParser, logger *slog.Logger) *LoggingProductParser {
	return &LoggingProductParser{next: next, logger: logger}
}

// ParseProduct delegates to the wrapped parser and logs the operation.
func (p *LoggingProductParser) ParseProduct(snap *petfood.Snapshot, meta petfood.PathMeta) (record *petfood.ProductRecord, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("product parse",
			"path", snap.Path,
			"asin", meta.ASIN,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseProduct(snap, meta)
}

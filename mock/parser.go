package mock

import (
	petfood "github.com/thaochithai/pet-food-analysis"
)

var _ petfood.ListingParser = (*ListingParser)(nil)

// ListingParser is a mock implementation of petfood.ListingParser.
type ListingParser struct {
	ParseListingFn func(snap *petfood.Snapshot, meta petfood.PathMeta) ([]*petfood.ListingRecord, error)
}

func (p *ListingParser) ParseListing(snap *petfood.Snapshot, meta petfood.PathMeta) ([]*petfood.ListingRecord, error) {
	return p.ParseListingFn(snap, meta)
}

var _ petfood.ProductParser = (*ProductParser)(nil)

// ProductParser is a mock implementation of petfood.ProductParser.
type ProductParser struct {
	ParseProductFn func(snap *petfood.Snapshot, meta petfood.PathMeta) (*petfood.ProductRecord, error)
}

func (p *ProductParser) ParseProduct(snap *petfood.Snapshot, meta petfood.PathMeta) (*petfood.ProductRecord, error) {
	return p.ParseProductFn(snap, meta)
}

package mock

import (
	petfood "github.com/thaochithai/pet-food-analysis"
)

var _ petfood.ListingWriter = (*ListingWriter)(nil)

// ListingWriter is a mock implementation of petfood.ListingWriter.
type ListingWriter struct {
	WriteListingsFn func(records []*petfood.ListingRecord) error
	CloseFn         func() error
}

func (w *ListingWriter) WriteListings(records []*petfood.ListingRecord) error {
	return w.WriteListingsFn(records)
}

func (w *ListingWriter) Close() error {
	return w.CloseFn()
}

var _ petfood.ProductWriter = (*ProductWriter)(nil)

// ProductWriter is a mock implementation of petfood.ProductWriter.
type ProductWriter struct {
	WriteProductsFn func(records []*petfood.ProductRecord) error
	CloseFn         func() error
}

func (w *ProductWriter) WriteProducts(records []*petfood.ProductRecord) error {
	return w.WriteProductsFn(records)
}

func (w *ProductWriter) Close() error {
	return w.CloseFn()
}

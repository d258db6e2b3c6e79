package mock

import (
	"context"

	petfood "github.com/thaochithai/pet-food-analysis"
)

var _ petfood.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of petfood.RecordService.
type RecordService struct {
	CreateListingsFn func(ctx context.Context, records []*petfood.ListingRecord) error
	CreateProductFn  func(ctx context.Context, record *petfood.ProductRecord) error
	FindListingsFn   func(ctx context.Context, filter petfood.ListingFilter) ([]*petfood.ListingRecord, error)
	FindProductsFn   func(ctx context.Context, filter petfood.ProductFilter) ([]*petfood.ProductRecord, error)
}

func (s *RecordService) CreateListings(ctx context.Context, records []*petfood.ListingRecord) error {
	return s.CreateListingsFn(ctx, records)
}

func (s *RecordService) CreateProduct(ctx context.Context, record *petfood.ProductRecord) error {
	return s.CreateProductFn(ctx, record)
}

func (s *RecordService) FindListings(ctx context.Context, filter petfood.ListingFilter) ([]*petfood.ListingRecord, error) {
	return s.FindListingsFn(ctx, filter)
}

func (s *RecordService) FindProducts(ctx context.Context, filter petfood.ProductFilter) ([]*petfood.ProductRecord, error) {
	return s.FindProductsFn(ctx, filter)
}

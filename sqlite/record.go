package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Compile-time interface verification.
var _ petfood.RecordService = (*RecordService)(nil)

// RecordService implements petfood.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

const listingColumns = `id, asin, search_term, page_number, position,
	scrape_date, scrape_time, scrape_hour, title, price, original_price,
	sponsored, reviews_count, rating, sales_history, prime`

const productColumns = `id, asin, search_term, scrape_date, scrape_time,
	title, brand, color, categories, bullet_points, description,
	bestseller_rank, price_per_unit, product_details, image_url`

// CreateListing stores one listing record.
func (s *RecordService) CreateListing(ctx context.Context, record *petfood.ListingRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), record.ASIN, record.SearchTerm, record.PageNumber,
		record.Position, record.ScrapeDate, record.ScrapeTime, record.ScrapeHour,
		record.Title, record.Price, record.OriginalPrice, record.Sponsored,
		record.ReviewsCount, record.Rating, record.SalesHistory, record.Prime,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// CreateListings stores a batch of listing records in one transaction, so
// a run's records land atomically.
func (s *RecordService) CreateListings(ctx context.Context, records []*petfood.ListingRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, record := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO listings (`+listingColumns+`, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), record.ASIN, record.SearchTerm, record.PageNumber,
			record.Position, record.ScrapeDate, record.ScrapeTime, record.ScrapeHour,
			record.Title, record.Price, record.OriginalPrice, record.Sponsored,
			record.ReviewsCount, record.Rating, record.SalesHistory, record.Prime,
			now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateProduct stores one product record. Collection-valued fields are
// stored as JSON so FindProducts can restore their structure.
func (s *RecordService) CreateProduct(ctx context.Context, record *petfood.ProductRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	categories, err := marshalStrings(record.Categories)
	if err != nil {
		return err
	}
	bullets, err := marshalStrings(record.BulletPoints)
	if err != nil {
		return err
	}
	details, err := marshalDetails(record.ProductDetails)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), record.ASIN, record.SearchTerm, record.ScrapeDate,
		record.ScrapeTime, record.Title, record.Brand, record.Color, categories,
		bullets, record.Description, record.BestsellerRank, record.PricePerUnit,
		details, record.ImageURL,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// FindListings retrieves listing records matching the filter, ordered the
// way they were extracted: by run, page, then position.
func (s *RecordService) FindListings(ctx context.Context, filter petfood.ListingFilter) ([]*petfood.ListingRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + listingColumns + " FROM listings WHERE 1=1")

	if filter.ASIN != nil {
		query.WriteString(" AND asin = ?")
		args = append(args, *filter.ASIN)
	}
	if filter.SearchTerm != nil {
		query.WriteString(" AND search_term = ?")
		args = append(args, *filter.SearchTerm)
	}
	if filter.ScrapeDate != nil {
		query.WriteString(" AND scrape_date = ?")
		args = append(args, *filter.ScrapeDate)
	}

	query.WriteString(" ORDER BY scrape_date, scrape_time, search_term, page_number, position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*petfood.ListingRecord
	for rows.Next() {
		record, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// FindProducts retrieves product records matching the filter.
func (s *RecordService) FindProducts(ctx context.Context, filter petfood.ProductFilter) ([]*petfood.ProductRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + productColumns + " FROM products WHERE 1=1")

	if filter.ASIN != nil {
		query.WriteString(" AND asin = ?")
		args = append(args, *filter.ASIN)
	}
	if filter.SearchTerm != nil {
		query.WriteString(" AND search_term = ?")
		args = append(args, *filter.SearchTerm)
	}

	query.WriteString(" ORDER BY search_term, asin")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*petfood.ProductRecord
	for rows.Next() {
		record, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanListing(rows *sql.Rows) (*petfood.ListingRecord, error) {
	var record petfood.ListingRecord
	var id string
	var price, originalPrice, rating sql.NullFloat64
	var reviews sql.NullInt64

	if err := rows.Scan(&id, &record.ASIN, &record.SearchTerm, &record.PageNumber,
		&record.Position, &record.ScrapeDate, &record.ScrapeTime, &record.ScrapeHour,
		&record.Title, &price, &originalPrice, &record.Sponsored, &reviews,
		&rating, &record.SalesHistory, &record.Prime); err != nil {
		return nil, err
	}

	if price.Valid {
		record.Price = &price.Float64
	}
	if originalPrice.Valid {
		record.OriginalPrice = &originalPrice.Float64
	}
	if rating.Valid {
		record.Rating = &rating.Float64
	}
	if reviews.Valid {
		count := int(reviews.Int64)
		record.ReviewsCount = &count
	}
	return &record, nil
}

func scanProduct(rows *sql.Rows) (*petfood.ProductRecord, error) {
	var record petfood.ProductRecord
	var id, categories, bullets, details string

	if err := rows.Scan(&id, &record.ASIN, &record.SearchTerm, &record.ScrapeDate,
		&record.ScrapeTime, &record.Title, &record.Brand, &record.Color,
		&categories, &bullets, &record.Description, &record.BestsellerRank,
		&record.PricePerUnit, &details, &record.ImageURL); err != nil {
		return nil, err
	}

	var err error
	if record.Categories, err = unmarshalStrings(categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if record.BulletPoints, err = unmarshalStrings(bullets); err != nil {
		return nil, fmt.Errorf("failed to decode bullet_points: %w", err)
	}
	if record.ProductDetails, err = unmarshalDetails(details); err != nil {
		return nil, fmt.Errorf("failed to decode product_details: %w", err)
	}
	return &record, nil
}

func marshalStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	b, err := json.Marshal(values)
	return string(b), err
}

func unmarshalStrings(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	var values []string
	err := json.Unmarshal([]byte(value), &values)
	return values, err
}

func marshalDetails(details map[string]string) (string, error) {
	if len(details) == 0 {
		return "", nil
	}
	b, err := json.Marshal(details)
	return string(b), err
}

func unmarshalDetails(value string) (map[string]string, error) {
	if value == "" {
		return nil, nil
	}
	var details map[string]string
	err := json.Unmarshal([]byte(value), &details)
	return details, err
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

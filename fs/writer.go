package fs

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Compile-time interface verification.
var (
	_ petfood.ListingWriter = (*ListingCSVWriter)(nil)
	_ petfood.ListingWriter = (*ListingJSONWriter)(nil)
	_ petfood.ProductWriter = (*ProductCSVWriter)(nil)
	_ petfood.ProductWriter = (*ProductJSONWriter)(nil)
)

// utf8BOM is prepended to CSV output so spreadsheet tools detect the
// encoding, matching the capture tooling's historical output.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var listingHeader = []string{
	"asin", "search_term", "page_number", "position",
	"scrape_date", "scrape_time", "scrape_hour",
	"title", "price", "original_price", "sponsored",
	"reviews_count", "rating", "sales_history", "prime",
}

var productHeader = []string{
	"asin", "search_term", "scrape_date", "scrape_time",
	"title", "brand", "color", "categories", "bullet_points",
	"description", "bestseller_rank", "price_per_unit",
	"product_details", "image_url",
}

// ListingCSVWriter writes listing records to a CSV file, one row per
// record, nullable fields rendered as empty cells.
type ListingCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewListingCSVWriter creates the output file and writes the header row.
func NewListingCSVWriter(filename string) (*ListingCSVWriter, error) {
	f, writer, err := newCSVFile(filename, listingHeader)
	if err != nil {
		return nil, err
	}
	return &ListingCSVWriter{file: f, writer: writer}, nil
}

// WriteListings appends records to the CSV output.
func (w *ListingCSVWriter) WriteListings(records []*petfood.ListingRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, rec := range records {
		row := []string{
			rec.ASIN,
			rec.SearchTerm,
			strconv.Itoa(rec.PageNumber),
			strconv.Itoa(rec.Position),
			rec.ScrapeDate,
			rec.ScrapeTime,
			rec.ScrapeHour,
			rec.Title,
			formatFloat(rec.Price),
			formatFloat(rec.OriginalPrice),
			strconv.FormatBool(rec.Sponsored),
			formatInt(rec.ReviewsCount),
			formatFloat(rec.Rating),
			rec.SalesHistory,
			strconv.FormatBool(rec.Prime),
		}
		if err := w.writer.Write(row); err != nil {
			return fmt.Errorf("write listing row: %w", err)
		}
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush listing rows: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (w *ListingCSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return w.file.Close()
}

// ProductCSVWriter writes product records to a CSV file. Collection
// fields are flattened for the tabular sink: categories and bullet
// points delimiter-joined, the details table rendered as sorted
// "key=value" pairs.
type ProductCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewProductCSVWriter creates the output file and writes the header row.
func NewProductCSVWriter(filename string) (*ProductCSVWriter, error) {
	f, writer, err := newCSVFile(filename, productHeader)
	if err != nil {
		return nil, err
	}
	return &ProductCSVWriter{file: f, writer: writer}, nil
}

// WriteProducts appends records to the CSV output.
func (w *ProductCSVWriter) WriteProducts(records []*petfood.ProductRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, rec := range records {
		row := []string{
			rec.ASIN,
			rec.SearchTerm,
			rec.ScrapeDate,
			rec.ScrapeTime,
			rec.Title,
			rec.Brand,
			rec.Color,
			rec.FlatCategories(),
			rec.FlatBulletPoints(),
			rec.Description,
			rec.BestsellerRank,
			rec.PricePerUnit,
			rec.FlatProductDetails(),
			rec.ImageURL,
		}
		if err := w.writer.Write(row); err != nil {
			return fmt.Errorf("write product row: %w", err)
		}
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush product rows: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (w *ProductCSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return w.file.Close()
}

// ListingJSONWriter writes newline-delimited JSON listing records with
// the structured (non-flattened) field representation.
type ListingJSONWriter struct {
	mu      sync.Mutex
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewListingJSONWriter creates the output file.
func NewListingJSONWriter(filename string) (*ListingJSONWriter, error) {
	f, bw, enc, err := newJSONFile(filename)
	if err != nil {
		return nil, err
	}
	return &ListingJSONWriter{file: f, writer: bw, encoder: enc}, nil
}

// WriteListings appends records as NDJSON lines.
func (w *ListingJSONWriter) WriteListings(records []*petfood.ListingRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, rec := range records {
		if err := w.encoder.Encode(rec); err != nil {
			return fmt.Errorf("encode listing record: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the file handle.
func (w *ListingJSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return w.file.Close()
}

// ProductJSONWriter writes newline-delimited JSON product records,
// categories and details kept as native lists and mappings.
type ProductJSONWriter struct {
	mu      sync.Mutex
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewProductJSONWriter creates the output file.
func NewProductJSONWriter(filename string) (*ProductJSONWriter, error) {
	f, bw, enc, err := newJSONFile(filename)
	if err != nil {
		return nil, err
	}
	return &ProductJSONWriter{file: f, writer: bw, encoder: enc}, nil
}

// WriteProducts appends records as NDJSON lines.
func (w *ProductJSONWriter) WriteProducts(records []*petfood.ProductRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, rec := range records {
		if err := w.encoder.Encode(rec); err != nil {
			return fmt.Errorf("encode product record: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the file handle.
func (w *ProductJSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return w.file.Close()
}

func newCSVFile(filename string, header []string) (*os.File, *csv.Writer, error) {
	if err := ensureDir(filename); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("create csv file: %w", err)
	}
	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("write csv BOM: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("flush csv header: %w", err)
	}
	return f, writer, nil
}

func newJSONFile(filename string) (*os.File, *bufio.Writer, *json.Encoder, error) {
	if err := ensureDir(filename); err != nil {
		return nil, nil, nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create json file: %w", err)
	}
	bw := bufio.NewWriter(f)
	return f, bw, json.NewEncoder(bw), nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Package sqlite persists extracted records in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// WAL is ~7x faster for writes and allows concurrent reads during writes.
	// Trade-off: creates additional -wal and -shm files alongside the database.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			asin TEXT NOT NULL,
			search_term TEXT NOT NULL,
			page_number INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL DEFAULT 0,
			scrape_date TEXT NOT NULL DEFAULT '',
			scrape_time TEXT NOT NULL DEFAULT '',
			scrape_hour TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			price REAL,
			original_price REAL,
			sponsored INTEGER NOT NULL DEFAULT 0,
			reviews_count INTEGER,
			rating REAL,
			sales_history TEXT NOT NULL DEFAULT '',
			prime INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			asin TEXT NOT NULL,
			search_term TEXT NOT NULL DEFAULT '',
			scrape_date TEXT NOT NULL DEFAULT '',
			scrape_time TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '',
			bullet_points TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			bestseller_rank TEXT NOT NULL DEFAULT '',
			price_per_unit TEXT NOT NULL DEFAULT '',
			product_details TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_search_term ON listings(search_term);
		CREATE INDEX IF NOT EXISTS idx_listings_asin ON listings(asin);
		CREATE INDEX IF NOT EXISTS idx_listings_scrape_date ON listings(scrape_date);
		CREATE INDEX IF NOT EXISTS idx_products_search_term ON products(search_term);
		CREATE INDEX IF NOT EXISTS idx_products_asin ON products(asin);
	`

	_, err := db.db.Exec(schema)
	return err
}

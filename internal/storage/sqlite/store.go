// Package sqlite provides the SQLite-backed catalog and ledger store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/lfernandes/caixa/internal/platform/storage/sqlitemigrate"
	"github.com/lfernandes/caixa/internal/storage"
	"github.com/lfernandes/caixa/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// timestampLayout is the persisted form of all timestamps: UTC, second
// precision, lexically sortable.
const timestampLayout = "2006-01-02 15:04:05"

// Store persists catalog and ledger state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// dbtx is the subset of *sql.DB and *sql.Tx the write helpers need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func formatTimestamp(value time.Time) string {
	return value.UTC().Truncate(time.Second).Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(timestampLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// UpsertProduct inserts the product or fully replaces the existing row with
// the same code. The code is the identity and never changes.
func (s *Store) UpsertProduct(ctx context.Context, product storage.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	code := normalizeCode(product.Code)
	name := strings.TrimSpace(product.Name)
	if code == "" {
		return fmt.Errorf("product code is required")
	}
	if name == "" {
		return fmt.Errorf("product name is required")
	}
	if product.Quantity < 0 {
		return fmt.Errorf("product quantity must not be negative")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO products (code, name, cost_price, sale_price, quantity)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   name = excluded.name,
		   cost_price = excluded.cost_price,
		   sale_price = excluded.sale_price,
		   quantity = excluded.quantity`,
		code,
		name,
		product.CostPrice,
		product.SalePrice,
		product.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetProduct returns the product with the given code after trimming and
// case-folding it.
func (s *Store) GetProduct(ctx context.Context, code string) (storage.Product, error) {
	if err := ctx.Err(); err != nil {
		return storage.Product{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Product{}, fmt.Errorf("storage is not configured")
	}
	code = normalizeCode(code)
	if code == "" {
		return storage.Product{}, fmt.Errorf("product code is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT code, name, cost_price, sale_price, quantity
		 FROM products
		 WHERE code = ?`,
		code,
	)
	var product storage.Product
	err := row.Scan(
		&product.Code,
		&product.Name,
		&product.CostPrice,
		&product.SalePrice,
		&product.Quantity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Product{}, storage.ErrNotFound
		}
		return storage.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// listTokenSeparator joins the name/code keyset position inside a page token.
const listTokenSeparator = "\x1f"

// ListProducts returns one page of the reduced product projection ordered by
// name then code. The page token is opaque to callers.
func (s *Store) ListProducts(ctx context.Context, pageSize int, pageToken string) (storage.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProductPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProductPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.ProductPage{}, fmt.Errorf("page size must be greater than zero")
	}

	page := storage.ProductPage{
		Products: make([]storage.ProductListing, 0, pageSize),
	}

	var (
		rows *sql.Rows
		err  error
	)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT code, name, sale_price, quantity
			 FROM products
			 ORDER BY name ASC, code ASC
			 LIMIT ?`,
			pageSize+1,
		)
	} else {
		afterName, afterCode, ok := strings.Cut(pageToken, listTokenSeparator)
		if !ok {
			return storage.ProductPage{}, fmt.Errorf("malformed page token")
		}
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT code, name, sale_price, quantity
			 FROM products
			 WHERE (name, code) > (?, ?)
			 ORDER BY name ASC, code ASC
			 LIMIT ?`,
			afterName,
			afterCode,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listing storage.ProductListing
		if err := rows.Scan(
			&listing.Code,
			&listing.Name,
			&listing.SalePrice,
			&listing.Quantity,
		); err != nil {
			return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
		}
		page.Products = append(page.Products, listing)
	}
	if err := rows.Err(); err != nil {
		return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	if len(page.Products) > pageSize {
		last := page.Products[pageSize-1]
		page.NextPageToken = last.Name + listTokenSeparator + last.Code
		page.Products = page.Products[:pageSize]
	}

	return page, nil
}

// DeleteProduct removes the product row and reports whether one existed.
// Historical line items referencing the code are left untouched.
func (s *Store) DeleteProduct(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	code = normalizeCode(code)
	if code == "" {
		return false, fmt.Errorf("product code is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM products WHERE code = ?`, code)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return affected > 0, nil
}

// DecrementStock reduces the product's on-hand quantity inside its own
// transaction. It fails without mutation when the product is missing or the
// requested quantity exceeds stock.
func (s *Store) DecrementStock(ctx context.Context, code string, qty int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := decrementStock(ctx, tx, code, qty); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stock decrement: %w", err)
	}
	return nil
}

// decrementStock is the shared primitive behind DecrementStock and
// CommitSale. It runs against whatever unit of work the caller manages and
// never commits on its own.
func decrementStock(ctx context.Context, db dbtx, code string, qty int64) error {
	code = normalizeCode(code)
	if code == "" {
		return fmt.Errorf("product code is required")
	}
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive")
	}

	result, err := db.ExecContext(
		ctx,
		`UPDATE products
		 SET quantity = quantity - ?
		 WHERE code = ? AND quantity >= ?`,
		qty,
		code,
		qty,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a missing product from a short one.
	var current int64
	row := db.QueryRowContext(ctx, `SELECT quantity FROM products WHERE code = ?`, code)
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	return storage.ErrInsufficientStock
}

var _ storage.Store = (*Store)(nil)

// Package storage defines persistence contracts for catalog and ledger state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientStock indicates a stock decrement larger than the on-hand
// quantity. The decrement leaves the row untouched.
var ErrInsufficientStock = errors.New("insufficient stock")

// Product stores one catalog entry keyed by its normalized code.
type Product struct {
	Code      string
	Name      string
	CostPrice float64
	SalePrice float64
	Quantity  int64
}

// ProductListing is the reduced projection returned by listings. Cost price
// is internal and deliberately absent.
type ProductListing struct {
	Code      string
	Name      string
	SalePrice float64
	Quantity  int64
}

// ProductPage stores one page of product listings ordered by name.
type ProductPage struct {
	Products      []ProductListing
	NextPageToken string
}

// Sale stores one committed sale header. Sales are immutable once committed.
type Sale struct {
	ID             int64
	Timestamp      time.Time
	Total          float64
	AmountTendered float64
}

// LineItem stores one sold line within a sale. ProductCode is a soft
// reference: the product may be deleted later without cascading here, and
// UnitPrice is the price captured at commit time, not a live reference.
type LineItem struct {
	ID          int64
	SaleID      int64
	ProductCode string
	Quantity    int64
	UnitPrice   float64
}

// ProfitSummary stores the all-time revenue and gross profit aggregates.
type ProfitSummary struct {
	Revenue     float64
	GrossProfit float64
}

// ProductStore persists catalog entries.
type ProductStore interface {
	UpsertProduct(ctx context.Context, product Product) error
	GetProduct(ctx context.Context, code string) (Product, error)
	ListProducts(ctx context.Context, pageSize int, pageToken string) (ProductPage, error)
	DeleteProduct(ctx context.Context, code string) (bool, error)
	DecrementStock(ctx context.Context, code string, qty int64) error
}

// SaleStore persists sales atomically against product stock.
type SaleStore interface {
	// CommitSale persists the sale header, its line items, and the stock
	// decrement for every line inside one transaction. It returns the new
	// sale id, or an error after rolling the whole unit back.
	CommitSale(ctx context.Context, sale Sale, items []LineItem) (int64, error)
	ListRecentSales(ctx context.Context, limit int) ([]Sale, error)
	ListLineItems(ctx context.Context, saleID int64) ([]LineItem, error)
	ProfitSummary(ctx context.Context) (ProfitSummary, error)
}

// TelemetryEvent stores one operational event.
type TelemetryEvent struct {
	Timestamp time.Time
	Severity  string
	Name      string
	Detail    string
}

// TelemetryStore persists operational events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// Store is the full persistence surface owned by the application.
type Store interface {
	ProductStore
	SaleStore
	TelemetryStore
	Close() error
}

// Package catalog implements the product catalog component: creation,
// lookup, listing, removal, and the stock-decrement primitive.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/lfernandes/caixa/internal/errors"
	"github.com/lfernandes/caixa/internal/storage"
	"github.com/lfernandes/caixa/internal/telemetry"
)

// listPageSize bounds each page drained by ListAll.
const listPageSize = 100

// Catalog owns product entities. It has no knowledge of sales.
type Catalog struct {
	store   storage.ProductStore
	emitter *telemetry.Emitter
}

// New creates a catalog over the given product store. The emitter may be
// nil.
func New(store storage.ProductStore, emitter *telemetry.Emitter) *Catalog {
	return &Catalog{store: store, emitter: emitter}
}

// NormalizeCode returns the canonical form of a product code: trimmed and
// upper-cased. Every catalog operation applies it before touching storage.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Upsert inserts the product or fully replaces the row sharing its code.
// It validates the shape first; valid input never fails on either path.
func (c *Catalog) Upsert(ctx context.Context, product storage.Product) error {
	product.Code = NormalizeCode(product.Code)
	product.Name = strings.TrimSpace(product.Name)

	if product.Code == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "product code is required")
	}
	if product.Name == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "product name is required")
	}
	if product.CostPrice < 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "cost price must not be negative")
	}
	if product.SalePrice < 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "sale price must not be negative")
	}
	if product.Quantity < 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "quantity must not be negative")
	}

	if err := c.store.UpsertProduct(ctx, product); err != nil {
		return fmt.Errorf("upsert product %s: %w", product.Code, err)
	}
	_ = c.emitter.Emit(ctx, telemetry.SeverityInfo, "product.saved", product.Code)
	return nil
}

// Find looks the product up by trimmed, case-insensitive code. A missing
// code is an explicit not-found result, not an error.
func (c *Catalog) Find(ctx context.Context, code string) (storage.Product, bool, error) {
	code = NormalizeCode(code)
	if code == "" {
		return storage.Product{}, false, apperrors.New(apperrors.CodeInvalidInput, "product code is required")
	}

	product, err := c.store.GetProduct(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Product{}, false, nil
		}
		return storage.Product{}, false, fmt.Errorf("find product %s: %w", code, err)
	}
	return product, true, nil
}

// List returns one page of the reduced product projection ordered by name.
// Listings never carry the cost price.
func (c *Catalog) List(ctx context.Context, pageSize int, pageToken string) (storage.ProductPage, error) {
	if pageSize <= 0 {
		pageSize = listPageSize
	}
	page, err := c.store.ListProducts(ctx, pageSize, pageToken)
	if err != nil {
		return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// ListAll drains every listing page. The sequence restarts from the top on
// each call.
func (c *Catalog) ListAll(ctx context.Context) ([]storage.ProductListing, error) {
	var all []storage.ProductListing
	token := ""
	for {
		page, err := c.List(ctx, listPageSize, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Products...)
		if page.NextPageToken == "" {
			return all, nil
		}
		token = page.NextPageToken
	}
}

// Remove deletes the product by code and reports whether a row existed.
// Historical line items referencing the code are deliberately left alone.
func (c *Catalog) Remove(ctx context.Context, code string) (bool, error) {
	code = NormalizeCode(code)
	if code == "" {
		return false, apperrors.New(apperrors.CodeInvalidInput, "product code is required")
	}

	deleted, err := c.store.DeleteProduct(ctx, code)
	if err != nil {
		return false, fmt.Errorf("remove product %s: %w", code, err)
	}
	if deleted {
		_ = c.emitter.Emit(ctx, telemetry.SeverityInfo, "product.removed", code)
	}
	return deleted, nil
}

// DecrementStock reduces the product's on-hand quantity. It fails without
// mutating anything when the product is missing or stock is short, and maps
// both conditions to coded outcomes the caller can branch on.
func (c *Catalog) DecrementStock(ctx context.Context, code string, qty int64) error {
	code = NormalizeCode(code)
	if code == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "product code is required")
	}
	if qty <= 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "quantity must be positive")
	}

	err := c.store.DecrementStock(ctx, code, qty)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("product %s not found", code), err)
	case errors.Is(err, storage.ErrInsufficientStock):
		return apperrors.Wrap(apperrors.CodeInsufficientStock, fmt.Sprintf("not enough stock of %s", code), err)
	default:
		return fmt.Errorf("decrement stock for %s: %w", code, err)
	}
}

// Package report aggregates committed sales into read-only views. It
// mutates nothing.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/lfernandes/caixa/internal/storage"
)

// DefaultRecentLimit is how many sales the history view shows by default.
const DefaultRecentLimit = 20

// LineView is one line item expanded with its computed subtotal.
type LineView struct {
	ProductCode string
	Quantity    int64
	UnitPrice   float64
	Subtotal    float64
}

// SaleView is one sale expanded with its line items and change due.
type SaleView struct {
	ID             int64
	Timestamp      time.Time
	Total          float64
	AmountTendered float64
	ChangeDue      float64
	Items          []LineView
}

// Engine produces read-only aggregates over the sale ledger.
type Engine struct {
	store storage.SaleStore
}

// New creates a reporting engine over the given sale store.
func New(store storage.SaleStore) *Engine {
	return &Engine{store: store}
}

// RecentSales returns up to limit sales, newest first, each expanded with
// its ordered line items. A non-positive limit uses DefaultRecentLimit.
func (e *Engine) RecentSales(ctx context.Context, limit int) ([]SaleView, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sales, err := e.store.ListRecentSales(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent sales: %w", err)
	}

	views := make([]SaleView, 0, len(sales))
	for _, sale := range sales {
		items, err := e.store.ListLineItems(ctx, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("load line items for sale %d: %w", sale.ID, err)
		}

		view := SaleView{
			ID:             sale.ID,
			Timestamp:      sale.Timestamp,
			Total:          sale.Total,
			AmountTendered: sale.AmountTendered,
			ChangeDue:      sale.AmountTendered - sale.Total,
			Items:          make([]LineView, 0, len(items)),
		}
		for _, item := range items {
			view.Items = append(view.Items, LineView{
				ProductCode: item.ProductCode,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Subtotal:    float64(item.Quantity) * item.UnitPrice,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// GrossProfitSummary returns all-time revenue and gross profit. Profit is
// computed against each product's current cost price; editing a cost later
// retroactively reshapes historical figures, matching the source system.
func (e *Engine) GrossProfitSummary(ctx context.Context) (storage.ProfitSummary, error) {
	summary, err := e.store.ProfitSummary(ctx)
	if err != nil {
		return storage.ProfitSummary{}, fmt.Errorf("load profit summary: %w", err)
	}
	return summary, nil
}

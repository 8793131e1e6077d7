package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lfernandes/caixa/internal/storage"
)

// CommitSale persists the sale header, every line item, and every stock
// decrement inside one transaction. Any failure rolls the whole unit back:
// no header, no items, no stock changes survive.
func (s *Store) CommitSale(ctx context.Context, sale storage.Sale, items []storage.LineItem) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("sale requires at least one line item")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	timestamp := sale.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO sales (timestamp, total, amount_tendered)
		 VALUES (?, ?, ?)`,
		formatTimestamp(timestamp),
		sale.Total,
		sale.AmountTendered,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	saleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range items {
		code := normalizeCode(item.ProductCode)
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO line_items (sale_id, product_code, quantity, unit_price)
			 VALUES (?, ?, ?, ?)`,
			saleID,
			code,
			item.Quantity,
			item.UnitPrice,
		); err != nil {
			return 0, fmt.Errorf("insert line item %s: %w", code, err)
		}
		if err := decrementStock(ctx, tx, code, item.Quantity); err != nil {
			return 0, fmt.Errorf("decrement stock for %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sale: %w", err)
	}
	return saleID, nil
}

// ListRecentSales returns up to limit sale headers, newest first by id.
func (s *Store) ListRecentSales(ctx context.Context, limit int) ([]storage.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, timestamp, total, amount_tendered
		 FROM sales
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	defer rows.Close()

	sales := make([]storage.Sale, 0, limit)
	for rows.Next() {
		var (
			sale      storage.Sale
			timestamp string
		)
		if err := rows.Scan(
			&sale.ID,
			&timestamp,
			&sale.Total,
			&sale.AmountTendered,
		); err != nil {
			return nil, fmt.Errorf("list recent sales: %w", err)
		}
		sale.Timestamp, err = parseTimestamp(timestamp)
		if err != nil {
			return nil, fmt.Errorf("list recent sales: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	return sales, nil
}

// ListLineItems returns the sale's line items in entry order.
func (s *Store) ListLineItems(ctx context.Context, saleID int64) ([]storage.LineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, sale_id, product_code, quantity, unit_price
		 FROM line_items
		 WHERE sale_id = ?
		 ORDER BY id ASC`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var items []storage.LineItem
	for rows.Next() {
		var item storage.LineItem
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.ProductCode,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("list line items: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return items, nil
}

// ProfitSummary computes all-time revenue and gross profit. Gross profit
// joins each historical line item against the product's current cost price,
// so later cost edits retroactively reshape the figure. Both aggregates are
// zero on an empty store.
func (s *Store) ProfitSummary(ctx context.Context) (storage.ProfitSummary, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProfitSummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProfitSummary{}, fmt.Errorf("storage is not configured")
	}

	var summary storage.ProfitSummary

	row := s.sqlDB.QueryRowContext(ctx, `SELECT COALESCE(SUM(total), 0) FROM sales`)
	if err := row.Scan(&summary.Revenue); err != nil {
		return storage.ProfitSummary{}, fmt.Errorf("sum revenue: %w", err)
	}

	row = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(li.quantity * (li.unit_price - p.cost_price)), 0)
		 FROM line_items li
		 JOIN products p ON p.code = li.product_code`,
	)
	if err := row.Scan(&summary.GrossProfit); err != nil {
		return storage.ProfitSummary{}, fmt.Errorf("sum gross profit: %w", err)
	}

	return summary, nil
}

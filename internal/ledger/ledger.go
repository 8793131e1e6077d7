// Package ledger implements the sale ledger: the atomic commit of a sale
// header, its line items, and the matching stock decrements.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lfernandes/caixa/internal/catalog"
	apperrors "github.com/lfernandes/caixa/internal/errors"
	"github.com/lfernandes/caixa/internal/storage"
	"github.com/lfernandes/caixa/internal/telemetry"
)

// LineRequest is one requested sale line: a product code and a quantity.
type LineRequest struct {
	Code     string
	Quantity int64
}

// Ledger coordinates sale commits between the catalog and the sale store.
type Ledger struct {
	catalog *catalog.Catalog
	store   storage.SaleStore
	emitter *telemetry.Emitter
	clock   func() time.Time
}

// New creates a ledger. The emitter may be nil.
func New(cat *catalog.Catalog, store storage.SaleStore, emitter *telemetry.Emitter) *Ledger {
	return &Ledger{
		catalog: cat,
		store:   store,
		emitter: emitter,
		clock:   time.Now,
	}
}

// CommitSale finalizes one sale. It re-resolves every product's sale price
// at commit time, verifies the payment covers the total before any write,
// then persists the header, line items, and stock decrements as one unit.
// Either everything commits or nothing does.
func (l *Ledger) CommitSale(ctx context.Context, lines []LineRequest, amountTendered float64) (int64, error) {
	if len(lines) == 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "sale requires at least one line")
	}

	total := 0.0
	items := make([]storage.LineItem, 0, len(lines))
	for _, line := range lines {
		code := catalog.NormalizeCode(line.Code)
		if code == "" {
			return 0, apperrors.New(apperrors.CodeInvalidInput, "product code is required")
		}
		if line.Quantity <= 0 {
			return 0, apperrors.New(apperrors.CodeInvalidInput, fmt.Sprintf("quantity for %s must be positive", code))
		}

		product, found, err := l.catalog.Find(ctx, code)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.CodeCommitFailed, fmt.Sprintf("resolve price of %s", code), err)
		}
		if !found {
			cause := apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("product %s not found", code))
			return 0, apperrors.Wrap(apperrors.CodeCommitFailed, "resolve sale prices", cause)
		}

		total += float64(line.Quantity) * product.SalePrice
		items = append(items, storage.LineItem{
			ProductCode: code,
			Quantity:    line.Quantity,
			UnitPrice:   product.SalePrice,
		})
	}

	if amountTendered < total {
		return 0, apperrors.New(
			apperrors.CodeInsufficientPayment,
			fmt.Sprintf("tendered %.2f below total %.2f", amountTendered, total),
		)
	}

	sale := storage.Sale{
		Timestamp:      l.clock().UTC().Truncate(time.Second),
		Total:          total,
		AmountTendered: amountTendered,
	}
	saleID, err := l.store.CommitSale(ctx, sale, items)
	if err != nil {
		return 0, wrapCommitError(err)
	}

	_ = l.emitter.Emit(ctx, telemetry.SeverityInfo, "sale.committed",
		fmt.Sprintf("sale %d: %d lines, total %.2f", saleID, len(items), total))
	return saleID, nil
}

// wrapCommitError surfaces every in-unit failure as COMMIT_FAILED while
// keeping the specific cause reachable through the chain. A stock shortfall
// here means stock changed between selection and commit.
func wrapCommitError(err error) error {
	switch {
	case errors.Is(err, storage.ErrInsufficientStock):
		cause := apperrors.Wrap(apperrors.CodeInsufficientStock, "stock changed before commit", err)
		return apperrors.Wrap(apperrors.CodeCommitFailed, "commit sale", cause)
	case errors.Is(err, storage.ErrNotFound):
		cause := apperrors.Wrap(apperrors.CodeNotFound, "product removed before commit", err)
		return apperrors.Wrap(apperrors.CodeCommitFailed, "commit sale", cause)
	default:
		return apperrors.Wrap(apperrors.CodeCommitFailed, "commit sale", err)
	}
}

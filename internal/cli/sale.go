package cli

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/lfernandes/caixa/internal/errors"
	"github.com/lfernandes/caixa/internal/ledger"
)

// runSale drives one register session: build a basket line by line against
// a stock snapshot, collect payment, then hand the whole basket to the
// ledger for the atomic commit. A failed commit discards the basket.
func (a *App) runSale(ctx context.Context) {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "--- OPEN REGISTER (NEW SALE) ---")

	var lines []ledger.LineRequest
	total := 0.0

	for {
		if ctx.Err() != nil {
			return
		}

		code, ok := a.readLine("Product code (or F to finish): ")
		if !ok {
			return
		}
		if strings.EqualFold(strings.TrimSpace(code), "F") {
			break
		}

		product, found, err := a.catalog.Find(ctx, code)
		if err != nil {
			fmt.Fprintf(a.out, "ERROR: lookup failed: %v\n", err)
			continue
		}
		if !found {
			fmt.Fprintf(a.out, "ERROR: no product with code %q.\n", strings.ToUpper(strings.TrimSpace(code)))
			continue
		}

		qtyInput, ok := a.readLine(fmt.Sprintf("Quantity of %q (in stock: %d): ", product.Name, product.Quantity))
		if !ok {
			return
		}
		qty, err := ParseQuantity(qtyInput)
		if err != nil {
			fmt.Fprintln(a.out, "ERROR: quantity must be a positive whole number.")
			continue
		}
		if qty > product.Quantity {
			fmt.Fprintf(a.out, "ERROR: only %d in stock.\n", product.Quantity)
			continue
		}

		subtotal := float64(qty) * product.SalePrice
		lines = append(lines, ledger.LineRequest{Code: product.Code, Quantity: qty})
		total += subtotal
		fmt.Fprintf(a.out, "-> Added %dx %s | RUNNING TOTAL: %s\n", qty, product.Name, a.money(total))
	}

	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(a.out, "\nTOTAL DUE: %s\n", a.money(total))
	var tendered float64
	for {
		input, ok := a.readLine("Amount received: $ ")
		if !ok {
			return
		}
		value, err := ParseAmount(input)
		if err != nil {
			fmt.Fprintln(a.out, "ERROR: invalid amount.")
			continue
		}
		if value < total {
			fmt.Fprintln(a.out, "ERROR: amount is below the total.")
			continue
		}
		tendered = value
		break
	}
	fmt.Fprintf(a.out, "CHANGE: %s\n", a.money(tendered-total))

	saleID, err := a.ledger.CommitSale(ctx, lines, tendered)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeInsufficientStock) {
			fmt.Fprintln(a.out, "ERROR: stock changed while the sale was open; nothing was recorded. Start the sale again.")
		} else {
			fmt.Fprintf(a.out, "ERROR: sale was not recorded, all changes rolled back: %v\n", err)
		}
		return
	}
	fmt.Fprintf(a.out, "\n--- DONE! Sale recorded with ID %d ---\n", saleID)
}

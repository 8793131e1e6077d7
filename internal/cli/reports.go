package cli

import (
	"context"
	"fmt"
	"strings"
)

const timestampDisplayLayout = "2006-01-02 15:04:05"

func (a *App) runReportsMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "--- REPORTS ---")
		fmt.Fprintln(a.out, "1. Sales history (latest transactions)")
		fmt.Fprintln(a.out, "2. Gross profit summary")
		fmt.Fprintln(a.out, "3. Back to main menu")

		choice, ok := a.readLine("Choose an option: ")
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			a.printSalesHistory(ctx)
		case "2":
			a.printProfitSummary(ctx)
		case "3":
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option, try again.")
		}
	}
}

func (a *App) printSalesHistory(ctx context.Context) {
	views, err := a.reports.RecentSales(ctx, 0)
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: could not load sales history: %v\n", err)
		return
	}
	if len(views) == 0 {
		fmt.Fprintln(a.out, "No sales recorded yet.")
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "----------- SALES HISTORY -----------")
	for _, sale := range views {
		fmt.Fprintf(a.out, "\n[ SALE %d | %s ]\n", sale.ID, sale.Timestamp.Format(timestampDisplayLayout))
		fmt.Fprintf(a.out, "  TOTAL: %s | PAID: %s | CHANGE: %s\n",
			a.money(sale.Total), a.money(sale.AmountTendered), a.money(sale.ChangeDue))
		fmt.Fprintln(a.out, "  - Items sold:")
		for _, item := range sale.Items {
			fmt.Fprintf(a.out, "    -> %dx | CODE: %s | Unit: %s | Subtotal: %s\n",
				item.Quantity, item.ProductCode, a.money(item.UnitPrice), a.money(item.Subtotal))
		}
	}
	fmt.Fprintln(a.out, "-------------------------------------")
}

func (a *App) printProfitSummary(ctx context.Context) {
	summary, err := a.reports.GrossProfitSummary(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: could not load profit summary: %v\n", err)
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "----------- GROSS PROFIT SUMMARY -----------")
	fmt.Fprintf(a.out, "Total revenue (gross sales): %s\n", a.money(summary.Revenue))
	fmt.Fprintf(a.out, "Total gross profit:          %s\n", a.money(summary.GrossProfit))
	fmt.Fprintln(a.out, "--------------------------------------------")
}

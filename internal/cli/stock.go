package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/lfernandes/caixa/internal/catalog"
	"github.com/lfernandes/caixa/internal/storage"
)

func (a *App) runStockMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "--- STOCK MANAGEMENT ---")
		fmt.Fprintln(a.out, "1. Add or update product")
		fmt.Fprintln(a.out, "2. List all products")
		fmt.Fprintln(a.out, "3. Remove product")
		fmt.Fprintln(a.out, "4. Back to main menu")

		choice, ok := a.readLine("Choose an option: ")
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			a.promptUpsertProduct(ctx)
		case "2":
			a.printProductTable(ctx)
		case "3":
			a.promptRemoveProduct(ctx)
		case "4":
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option, try again.")
		}
	}
}

func (a *App) promptUpsertProduct(ctx context.Context) {
	code, ok := a.readLine("Product code (required): ")
	if !ok || strings.TrimSpace(code) == "" {
		return
	}
	name, ok := a.readLine("Product name: ")
	if !ok || strings.TrimSpace(name) == "" {
		return
	}

	salePriceInput, ok := a.readLine("Sale price: $ ")
	if !ok {
		return
	}
	salePrice, err := ParseAmount(salePriceInput)
	if err != nil {
		fmt.Fprintln(a.out, "ERROR: prices must be valid numbers.")
		return
	}
	costPriceInput, ok := a.readLine("Cost price: $ ")
	if !ok {
		return
	}
	costPrice, err := ParseAmount(costPriceInput)
	if err != nil {
		fmt.Fprintln(a.out, "ERROR: prices must be valid numbers.")
		return
	}
	quantityInput, ok := a.readLine("Quantity on hand: ")
	if !ok {
		return
	}
	quantity, err := ParseStockLevel(quantityInput)
	if err != nil {
		fmt.Fprintln(a.out, "ERROR: quantity must be a non-negative whole number.")
		return
	}

	err = a.catalog.Upsert(ctx, storage.Product{
		Code:      code,
		Name:      name,
		CostPrice: costPrice,
		SalePrice: salePrice,
		Quantity:  quantity,
	})
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: could not save product: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Product %q saved.\n", catalog.NormalizeCode(code))
}

func (a *App) printProductTable(ctx context.Context) {
	products, err := a.catalog.ListAll(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: could not list products: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products registered.")
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "---------------- CURRENT STOCK ----------------")
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tSALE PRICE\tQTY")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.Code, p.Name, a.money(p.SalePrice), p.Quantity)
	}
	w.Flush()
	fmt.Fprintln(a.out, "-----------------------------------------------")
}

func (a *App) promptRemoveProduct(ctx context.Context) {
	code, ok := a.readLine("Code of the product to remove: ")
	if !ok || strings.TrimSpace(code) == "" {
		return
	}

	product, found, err := a.catalog.Find(ctx, code)
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: lookup failed: %v\n", err)
		return
	}
	if !found {
		fmt.Fprintf(a.out, "ERROR: no product with code %q.\n", catalog.NormalizeCode(code))
		return
	}

	confirm, ok := a.readLine(fmt.Sprintf("Remove %q? (y/n): ", product.Name))
	if !ok || !strings.EqualFold(strings.TrimSpace(confirm), "y") {
		return
	}

	deleted, err := a.catalog.Remove(ctx, code)
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: could not remove product: %v\n", err)
		return
	}
	if !deleted {
		fmt.Fprintln(a.out, "ERROR: product was already gone.")
		return
	}
	fmt.Fprintf(a.out, "Product %s removed.\n", product.Code)
}

package catalog

import (
	"context"
	"testing"

	apperrors "github.com/lfernandes/caixa/internal/errors"
	"github.com/lfernandes/caixa/internal/storage"
	"github.com/lfernandes/caixa/internal/storage/sqlite"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/caixa.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return New(store, nil)
}

func TestUpsertNormalizesIdentity(t *testing.T) {
	c := newTestCatalog(t)

	err := c.Upsert(context.Background(), storage.Product{
		Code:      "  abc ",
		Name:      "  Coffee ",
		CostPrice: 6,
		SalePrice: 10,
		Quantity:  5,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	product, found, err := c.Find(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found {
		t.Fatal("expected product to be found")
	}
	if product.Code != "ABC" || product.Name != "Coffee" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestUpsertRejectsInvalidShapes(t *testing.T) {
	c := newTestCatalog(t)

	cases := []struct {
		name    string
		product storage.Product
	}{
		{"empty code", storage.Product{Code: "  ", Name: "Coffee", SalePrice: 10}},
		{"empty name", storage.Product{Code: "ABC", Name: " ", SalePrice: 10}},
		{"negative cost", storage.Product{Code: "ABC", Name: "Coffee", CostPrice: -1, SalePrice: 10}},
		{"negative sale price", storage.Product{Code: "ABC", Name: "Coffee", SalePrice: -10}},
		{"negative quantity", storage.Product{Code: "ABC", Name: "Coffee", SalePrice: 10, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Upsert(context.Background(), tc.product)
			if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestFindMissingCodeIsExplicitNotFound(t *testing.T) {
	c := newTestCatalog(t)

	_, found, err := c.Find(context.Background(), "GHOST")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found {
		t.Fatal("expected missing code to report not found")
	}
}

func TestListAllDrainsEveryPage(t *testing.T) {
	c := newTestCatalog(t)

	products := map[string]string{
		"AAA": "Apple", "BBB": "Banana", "CCC": "Cherry",
		"DDD": "Date", "EEE": "Elderberry",
	}
	for code, name := range products {
		if err := c.Upsert(context.Background(), storage.Product{Code: code, Name: name, SalePrice: 1, Quantity: 1}); err != nil {
			t.Fatalf("upsert %s: %v", code, err)
		}
	}

	all, err := c.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != len(products) {
		t.Fatalf("listed %d products, want %d", len(all), len(products))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Fatalf("listing out of order at %d: %q > %q", i, all[i-1].Name, all[i].Name)
		}
	}
}

func TestRemoveReportsMissingCode(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.Upsert(context.Background(), storage.Product{Code: "ABC", Name: "Coffee", SalePrice: 10, Quantity: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := c.Remove(context.Background(), "abc")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !deleted {
		t.Fatal("expected removal of existing product")
	}

	deleted, err = c.Remove(context.Background(), "abc")
	if err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if deleted {
		t.Fatal("expected removal of missing product to report false")
	}
}

func TestDecrementStockMapsOutcomes(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.Upsert(context.Background(), storage.Product{Code: "ABC", Name: "Coffee", SalePrice: 10, Quantity: 5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := c.DecrementStock(context.Background(), "abc", 2); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	err := c.DecrementStock(context.Background(), "ABC", 99)
	if apperrors.GetCode(err) != apperrors.CodeInsufficientStock {
		t.Fatalf("err = %v, want INSUFFICIENT_STOCK", err)
	}

	err = c.DecrementStock(context.Background(), "GHOST", 1)
	if apperrors.GetCode(err) != apperrors.CodeNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}

	err = c.DecrementStock(context.Background(), "ABC", 0)
	if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}

	product, _, err := c.Find(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if product.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", product.Quantity)
	}
}

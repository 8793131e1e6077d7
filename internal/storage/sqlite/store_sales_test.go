package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lfernandes/caixa/internal/storage"
)

func TestCommitSalePersistsHeaderItemsAndDecrements(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "ABC", Name: "Coffee", CostPrice: 6, SalePrice: 10, Quantity: 5})

	committedAt := time.Date(2026, time.August, 30, 14, 30, 0, 0, time.UTC)
	saleID, err := store.CommitSale(
		context.Background(),
		storage.Sale{Timestamp: committedAt, Total: 20, AmountTendered: 20},
		[]storage.LineItem{{ProductCode: "abc", Quantity: 2, UnitPrice: 10}},
	)
	if err != nil {
		t.Fatalf("commit sale: %v", err)
	}
	if saleID <= 0 {
		t.Fatalf("sale id = %d, want positive", saleID)
	}

	product, err := store.GetProduct(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", product.Quantity)
	}

	sales, err := store.ListRecentSales(context.Background(), 10)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("sales len = %d, want 1", len(sales))
	}
	if !sales[0].Timestamp.Equal(committedAt) {
		t.Fatalf("timestamp = %v, want %v", sales[0].Timestamp, committedAt)
	}
	if sales[0].Total != 20 || sales[0].AmountTendered != 20 {
		t.Fatalf("unexpected sale header: %+v", sales[0])
	}

	items, err := store.ListLineItems(context.Background(), saleID)
	if err != nil {
		t.Fatalf("list line items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items len = %d, want 1", len(items))
	}
	if items[0].ProductCode != "ABC" || items[0].Quantity != 2 || items[0].UnitPrice != 10 {
		t.Fatalf("unexpected line item: %+v", items[0])
	}
}

func TestCommitSaleRollsBackOnInsufficientStock(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "ABC", Name: "Coffee", SalePrice: 10, Quantity: 5})
	mustUpsert(t, store, storage.Product{Code: "XYZ", Name: "Tea", SalePrice: 4, Quantity: 1})

	// First line is satisfiable, second is short; nothing may survive.
	_, err := store.CommitSale(
		context.Background(),
		storage.Sale{Total: 38, AmountTendered: 40},
		[]storage.LineItem{
			{ProductCode: "ABC", Quantity: 3, UnitPrice: 10},
			{ProductCode: "XYZ", Quantity: 2, UnitPrice: 4},
		},
	)
	if !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock in chain", err)
	}

	for code, want := range map[string]int64{"ABC": 5, "XYZ": 1} {
		product, err := store.GetProduct(context.Background(), code)
		if err != nil {
			t.Fatalf("get product %s: %v", code, err)
		}
		if product.Quantity != want {
			t.Fatalf("quantity of %s = %d, want unchanged %d", code, product.Quantity, want)
		}
	}

	sales, err := store.ListRecentSales(context.Background(), 10)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("sales len = %d, want 0 after rollback", len(sales))
	}

	var itemCount int64
	if err := store.sqlDB.QueryRow(`SELECT COUNT(*) FROM line_items`).Scan(&itemCount); err != nil {
		t.Fatalf("count line items: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("line items = %d, want 0 after rollback", itemCount)
	}
}

func TestCommitSaleRollsBackOnMissingProduct(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "ABC", Name: "Coffee", SalePrice: 10, Quantity: 5})

	_, err := store.CommitSale(
		context.Background(),
		storage.Sale{Total: 30, AmountTendered: 30},
		[]storage.LineItem{
			{ProductCode: "ABC", Quantity: 1, UnitPrice: 10},
			{ProductCode: "GHOST", Quantity: 1, UnitPrice: 20},
		},
	)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound in chain", err)
	}

	product, err := store.GetProduct(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Quantity != 5 {
		t.Fatalf("quantity = %d, want unchanged 5", product.Quantity)
	}
}

func TestCommitSaleRejectsEmptyLineList(t *testing.T) {
	store := openTestStore(t)

	_, err := store.CommitSale(context.Background(), storage.Sale{Total: 0, AmountTendered: 0}, nil)
	if err == nil {
		t.Fatal("expected empty sale to fail")
	}
}

func TestListLineItemsPreservesEntryOrder(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "AAA", Name: "Apple", SalePrice: 1, Quantity: 10})
	mustUpsert(t, store, storage.Product{Code: "BBB", Name: "Banana", SalePrice: 2, Quantity: 10})
	mustUpsert(t, store, storage.Product{Code: "CCC", Name: "Cherry", SalePrice: 3, Quantity: 10})

	saleID, err := store.CommitSale(
		context.Background(),
		storage.Sale{Total: 6, AmountTendered: 10},
		[]storage.LineItem{
			{ProductCode: "CCC", Quantity: 1, UnitPrice: 3},
			{ProductCode: "AAA", Quantity: 1, UnitPrice: 1},
			{ProductCode: "BBB", Quantity: 1, UnitPrice: 2},
		},
	)
	if err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	items, err := store.ListLineItems(context.Background(), saleID)
	if err != nil {
		t.Fatalf("list line items: %v", err)
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.ProductCode)
	}
	want := []string{"CCC", "AAA", "BBB"}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
}

func TestListRecentSalesNewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "AAA", Name: "Apple", SalePrice: 1, Quantity: 100})

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := store.CommitSale(
			context.Background(),
			storage.Sale{Total: 1, AmountTendered: 1},
			[]storage.LineItem{{ProductCode: "AAA", Quantity: 1, UnitPrice: 1}},
		)
		if err != nil {
			t.Fatalf("commit sale %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	sales, err := store.ListRecentSales(context.Background(), 2)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("sales len = %d, want 2", len(sales))
	}
	if sales[0].ID != ids[2] || sales[1].ID != ids[1] {
		t.Fatalf("sale ids = [%d %d], want [%d %d]", sales[0].ID, sales[1].ID, ids[2], ids[1])
	}
}

func TestProfitSummaryEmptyStoreIsZero(t *testing.T) {
	store := openTestStore(t)

	summary, err := store.ProfitSummary(context.Background())
	if err != nil {
		t.Fatalf("profit summary: %v", err)
	}
	if summary.Revenue != 0 || summary.GrossProfit != 0 {
		t.Fatalf("summary = %+v, want zeros", summary)
	}
}

func TestProfitSummaryUsesCurrentCostPrice(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "ABC", Name: "Coffee", CostPrice: 6, SalePrice: 10, Quantity: 5})

	_, err := store.CommitSale(
		context.Background(),
		storage.Sale{Total: 20, AmountTendered: 20},
		[]storage.LineItem{{ProductCode: "ABC", Quantity: 2, UnitPrice: 10}},
	)
	if err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	summary, err := store.ProfitSummary(context.Background())
	if err != nil {
		t.Fatalf("profit summary: %v", err)
	}
	if summary.Revenue != 20 {
		t.Fatalf("revenue = %v, want 20", summary.Revenue)
	}
	if summary.GrossProfit != 8 {
		t.Fatalf("gross profit = %v, want 8", summary.GrossProfit)
	}

	// Editing the cost later retroactively reshapes historical profit.
	mustUpsert(t, store, storage.Product{Code: "ABC", Name: "Coffee", CostPrice: 8, SalePrice: 10, Quantity: 3})

	summary, err = store.ProfitSummary(context.Background())
	if err != nil {
		t.Fatalf("profit summary after cost edit: %v", err)
	}
	if summary.GrossProfit != 4 {
		t.Fatalf("gross profit = %v, want 4 after cost edit", summary.GrossProfit)
	}
}

func TestLineItemsSurviveProductDeletion(t *testing.T) {
	store := openTestStore(t)
	mustUpsert(t, store, storage.Product{Code: "ABC", Name: "Coffee", CostPrice: 6, SalePrice: 10, Quantity: 5})

	saleID, err := store.CommitSale(
		context.Background(),
		storage.Sale{Total: 10, AmountTendered: 10},
		[]storage.LineItem{{ProductCode: "ABC", Quantity: 1, UnitPrice: 10}},
	)
	if err != nil {
		t.Fatalf("commit sale: %v", err)
	}

	if _, err := store.DeleteProduct(context.Background(), "ABC"); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	items, err := store.ListLineItems(context.Background(), saleID)
	if err != nil {
		t.Fatalf("list line items after deletion: %v", err)
	}
	if len(items) != 1 || items[0].ProductCode != "ABC" {
		t.Fatalf("expected orphaned line item to remain, got %+v", items)
	}

	// The inner join drops the orphan from profit, matching the source system.
	summary, err := store.ProfitSummary(context.Background())
	if err != nil {
		t.Fatalf("profit summary: %v", err)
	}
	if summary.Revenue != 10 {
		t.Fatalf("revenue = %v, want 10", summary.Revenue)
	}
	if summary.GrossProfit != 0 {
		t.Fatalf("gross profit = %v, want 0 after product deletion", summary.GrossProfit)
	}
}

package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dinedesk-lite/api/internal/enum"
	"github.com/shopspring/decimal"
)

// mockOrderWriter implements OrderWriter with configurable behavior.
type mockOrderWriter struct {
	getByTableFn func(ctx context.Context, tableNumber int32) (*Order, error)
	upsertFn     func(ctx context.Context, tableNumber int32, items []LineItem) (*UpsertResult, error)
}

func (m *mockOrderWriter) GetByTable(ctx context.Context, tableNumber int32) (*Order, error) {
	return m.getByTableFn(ctx, tableNumber)
}
func (m *mockOrderWriter) Upsert(ctx context.Context, tableNumber int32, items []LineItem) (*UpsertResult, error) {
	return m.upsertFn(ctx, tableNumber, items)
}

func testCatalog() *mockCatalog {
	return &mockCatalog{products: []Product{
		{ID: 1, ItemName: "A", Price: decimal.RequireFromString("10.00")},
		{ID: 2, ItemName: "B", Price: decimal.RequireFromString("4.50")},
		{ID: 3, ItemName: "C", Price: decimal.RequireFromString("7.00")},
	}}
}

func quantityOf(t *testing.T, b *OrderBuilder, productID int32) int32 {
	t.Helper()
	for _, it := range b.Snapshot().Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	t.Fatalf("product %d not in working set", productID)
	return 0
}

func TestNewOrderBuilder_RequiresTable(t *testing.T) {
	_, err := NewOrderBuilder(0, testCatalog(), &mockOrderWriter{})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got: %v", err)
	}
}

func TestBuilder_NotLoaded(t *testing.T) {
	b, _ := NewOrderBuilder(1, testCatalog(), &mockOrderWriter{})

	if _, err := b.ChangeQuantity(1, 1); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("ChangeQuantity: expected ErrPreconditionFailed, got %v", err)
	}
	if _, err := b.PlaceOrder(context.Background()); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("PlaceOrder: expected ErrPreconditionFailed, got %v", err)
	}
	if b.Snapshot().State != enum.BuilderStateUninitialized {
		t.Errorf("state = %s", b.Snapshot().State)
	}
}

func TestBuilder_LoadMergesExistingOrder(t *testing.T) {
	orders := &mockOrderWriter{
		getByTableFn: func(ctx context.Context, n int32) (*Order, error) {
			return &Order{ID: 4, OrderNumber: 4, TableNumber: n, Items: []LineItem{
				item(2, "B", "4.50", 3),
				item(99, "Retired", "1.00", 1),
			}}, nil
		},
	}
	b, _ := NewOrderBuilder(5, testCatalog(), orders)

	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view := b.Snapshot()
	if view.State != enum.BuilderStateLoaded {
		t.Errorf("state = %s, want LOADED", view.State)
	}
	if quantityOf(t, b, 1) != 0 || quantityOf(t, b, 2) != 3 || quantityOf(t, b, 3) != 0 {
		t.Errorf("unexpected quantities: %+v", view.Items)
	}
	if quantityOf(t, b, 99) != 1 {
		t.Error("item missing from catalog should be kept at its committed quantity")
	}
	if !view.Items[len(view.Items)-1].Orphaned {
		t.Error("expected the retired product to be flagged as orphaned")
	}
	if view.ExistingOrder == nil || view.ExistingOrder.ID != 4 {
		t.Errorf("existing order = %+v", view.ExistingOrder)
	}
}

func TestBuilder_LoadFailureKeepsState(t *testing.T) {
	cat := testCatalog()
	cat.err = errors.New("db down")
	b, _ := NewOrderBuilder(1, cat, &mockOrderWriter{})

	if err := b.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if b.Snapshot().State != enum.BuilderStateUninitialized {
		t.Error("state should stay UNINITIALIZED")
	}
}

func TestBuilder_ChangeQuantityClamps(t *testing.T) {
	orders := &mockOrderWriter{
		getByTableFn: func(ctx context.Context, n int32) (*Order, error) { return nil, nil },
	}
	b, _ := NewOrderBuilder(1, testCatalog(), orders)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	steps := []struct {
		delta int32
		want  int32
	}{
		{1, 1}, {2, 3}, {-1, 2}, {-5, 0}, {-1, 0}, {4, 4},
	}
	for _, s := range steps {
		got, err := b.ChangeQuantity(1, s.delta)
		if err != nil {
			t.Fatalf("ChangeQuantity(%d): %v", s.delta, err)
		}
		if got != s.want {
			t.Errorf("after delta %d: quantity = %d, want %d", s.delta, got, s.want)
		}
	}
	if b.Snapshot().State != enum.BuilderStateDirty {
		t.Errorf("state = %s, want DIRTY", b.Snapshot().State)
	}

	if _, err := b.ChangeQuantity(42, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown product: expected ErrNotFound, got %v", err)
	}
}

func TestBuilder_PlaceOrderEmptyIsNoop(t *testing.T) {
	upserts := 0
	orders := &mockOrderWriter{
		getByTableFn: func(ctx context.Context, n int32) (*Order, error) { return nil, nil },
		upsertFn: func(ctx context.Context, n int32, items []LineItem) (*UpsertResult, error) {
			upserts++
			return &UpsertResult{}, nil
		},
	}
	b, _ := NewOrderBuilder(1, testCatalog(), orders)
	b.Load(context.Background()) //nolint:errcheck
	b.ChangeQuantity(1, 1)       //nolint:errcheck
	b.ChangeQuantity(1, -1)      //nolint:errcheck

	res, err := b.PlaceOrder(context.Background())
	if err != nil || res != nil {
		t.Fatalf("expected nil, nil; got %v, %v", res, err)
	}
	if upserts != 0 {
		t.Errorf("Upsert called %d times, want 0", upserts)
	}
}

func TestBuilder_PlaceOrderFailureKeepsQuantities(t *testing.T) {
	orders := &mockOrderWriter{
		getByTableFn: func(ctx context.Context, n int32) (*Order, error) { return nil, nil },
		upsertFn: func(ctx context.Context, n int32, items []LineItem) (*UpsertResult, error) {
			return nil, errors.New("write failed")
		},
	}
	b, _ := NewOrderBuilder(1, testCatalog(), orders)
	b.Load(context.Background()) //nolint:errcheck
	b.ChangeQuantity(2, 2)       //nolint:errcheck

	_, err := b.PlaceOrder(context.Background())
	if !errors.Is(err, ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed, got: %v", err)
	}
	if b.Snapshot().State != enum.BuilderStateDirty {
		t.Errorf("state = %s, want DIRTY", b.Snapshot().State)
	}
	if quantityOf(t, b, 2) != 2 {
		t.Error("quantities must be kept after a failed commit")
	}
}

func TestBuilder_PlaceOrderSnapshotsPositiveItems(t *testing.T) {
	var got []LineItem
	orders := &mockOrderWriter{
		getByTableFn: func(ctx context.Context, n int32) (*Order, error) { return nil, nil },
		upsertFn: func(ctx context.Context, n int32, items []LineItem) (*UpsertResult, error) {
			got = items
			count, total := Totals(items)
			return &UpsertResult{Order: Order{ID: 1, OrderNumber: 1, TableNumber: n, Items: items,
				TotalItems: count, TotalPrice: total}, Created: true}, nil
		},
	}
	b, _ := NewOrderBuilder(1, testCatalog(), orders)
	b.Load(context.Background()) //nolint:errcheck
	b.ChangeQuantity(1, 1)       //nolint:errcheck
	b.ChangeQuantity(3, 2)       //nolint:errcheck

	res, err := b.PlaceOrder(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ProductID != 1 || got[1].ProductID != 3 {
		t.Errorf("committed items = %+v", got)
	}
	if !res.Order.TotalPrice.Equal(decimal.RequireFromString("24.00")) {
		t.Errorf("total_price = %s, want 24.00", res.Order.TotalPrice)
	}

	view := b.Snapshot()
	if view.State != enum.BuilderStateLoaded {
		t.Errorf("state = %s, want LOADED", view.State)
	}
	if view.TotalItems != 0 {
		t.Errorf("working quantities should reset, total = %d", view.TotalItems)
	}
	if view.ExistingOrder == nil || view.ExistingOrder.ID != 1 {
		t.Errorf("existing order = %+v", view.ExistingOrder)
	}
}

// Table 5: add A+1, B+2, place; reopen, A-1, place.
func TestBuilder_PlaceUpdateScenario(t *testing.T) {
	store := newMemStore()
	ledger, sales, _ := newTestLedgers(store, nil)
	cat := testCatalog()
	ctx := context.Background()

	b, _ := NewOrderBuilder(5, cat, ledger)
	if err := b.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	b.ChangeQuantity(1, 1) //nolint:errcheck
	b.ChangeQuantity(2, 2) //nolint:errcheck

	first, err := b.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if first.Order.TableNumber != 5 || first.Order.TotalItems != 3 {
		t.Errorf("order = %+v", first.Order)
	}
	wantPrice := decimal.RequireFromString("10.00").Add(decimal.RequireFromString("4.50").Mul(decimal.NewFromInt(2)))
	if !first.Order.TotalPrice.Equal(wantPrice) {
		t.Errorf("total_price = %s, want %s", first.Order.TotalPrice, wantPrice)
	}
	if first.Order.OrderNumber != first.Order.ID {
		t.Errorf("order_number %d != id %d", first.Order.OrderNumber, first.Order.ID)
	}

	b.Reset()
	if err := b.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	b.ChangeQuantity(1, -1) //nolint:errcheck

	second, err := b.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if second.Order.ID != first.Order.ID || second.Order.OrderNumber != first.Order.OrderNumber {
		t.Error("update must preserve id and order number")
	}
	if second.Order.TotalItems != 2 {
		t.Errorf("total_items = %d, want 2", second.Order.TotalItems)
	}

	sale, err := sales.Convert(ctx, second.Order.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if sale.OrderNumber != first.Order.OrderNumber || sale.TotalItems != 2 || sale.TableNumber != 5 {
		t.Errorf("sale = %+v", sale)
	}
	if o, _ := ledger.GetByTable(ctx, 5); o != nil {
		t.Error("table 5 should be unoccupied after conversion")
	}
}

func TestBuilder_Reset(t *testing.T) {
	orders := &mockOrderWriter{
		getByTableFn: func(ctx context.Context, n int32) (*Order, error) { return nil, nil },
	}
	b, _ := NewOrderBuilder(1, testCatalog(), orders)
	b.Load(context.Background()) //nolint:errcheck
	b.ChangeQuantity(1, 3)       //nolint:errcheck

	b.Reset()

	view := b.Snapshot()
	if view.State != enum.BuilderStateUninitialized || len(view.Items) != 0 {
		t.Errorf("after reset: %+v", view)
	}
}

func TestBuilder_TotalQuantityOverflow(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)
	ctx := context.Background()

	b, _ := NewOrderBuilder(2, testCatalog(), ledger)
	if err := b.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	b.ChangeQuantity(1, math.MaxInt32) //nolint:errcheck
	b.ChangeQuantity(2, 5)             //nolint:errcheck

	if got := b.Snapshot().TotalItems; got != math.MaxInt32 {
		t.Errorf("working total = %d, want %d (clamped)", got, int32(math.MaxInt32))
	}

	_, err := b.PlaceOrder(ctx)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
	if store.calls["CreateOrder"] != 0 {
		t.Error("ledger must not be written when the total overflows")
	}
	if b.Snapshot().State != enum.BuilderStateDirty {
		t.Errorf("state = %s, want DIRTY", b.Snapshot().State)
	}
}

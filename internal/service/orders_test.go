package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func TestUpsert_InsertSetsOrderNumberToID(t *testing.T) {
	store := newMemStore()
	store.orderSeq = 41
	ledger, _, tx := newTestLedgers(store, nil)

	res, err := ledger.Upsert(context.Background(), 5, []LineItem{item(1, "Nasi Goreng", "25000.00", 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created {
		t.Error("expected Created=true for a new order")
	}
	if res.Order.ID != 42 || res.Order.OrderNumber != 42 {
		t.Errorf("id/order_number = %d/%d, want 42/42", res.Order.ID, res.Order.OrderNumber)
	}
	if res.Order.TableNumber != 5 {
		t.Errorf("table_number = %d, want 5", res.Order.TableNumber)
	}
	if !tx.committed {
		t.Error("expected transaction to be committed")
	}
}

func TestUpsert_ComputesTotalsFromItems(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)

	items := []LineItem{
		item(1, "A", "10.50", 1),
		item(2, "B", "4.25", 2),
	}
	res, err := ledger.Upsert(context.Background(), 5, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.TotalItems != 3 {
		t.Errorf("total_items = %d, want 3", res.Order.TotalItems)
	}
	if !res.Order.TotalPrice.Equal(decimal.RequireFromString("19.00")) {
		t.Errorf("total_price = %s, want 19.00", res.Order.TotalPrice)
	}
	if !numericEquals(store.orders[res.Order.ID].TotalPrice, "19.00") {
		t.Errorf("stored total_price mismatch")
	}
}

func TestUpsert_UpdatePreservesIdentity(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)
	ctx := context.Background()

	first, err := ledger.Upsert(ctx, 5, []LineItem{item(1, "A", "10.00", 1), item(2, "B", "5.00", 2)})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := ledger.Upsert(ctx, 5, []LineItem{item(2, "B", "5.00", 2)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.Created {
		t.Error("expected Created=false for an update")
	}
	if second.Order.ID != first.Order.ID || second.Order.OrderNumber != first.Order.OrderNumber {
		t.Errorf("identity changed: %d/%d -> %d/%d",
			first.Order.ID, first.Order.OrderNumber, second.Order.ID, second.Order.OrderNumber)
	}
	if second.Order.TotalItems != 2 {
		t.Errorf("total_items = %d, want 2", second.Order.TotalItems)
	}
	if len(second.Order.Items) != 1 {
		t.Errorf("items = %d, want 1 (replaced)", len(second.Order.Items))
	}
	if !second.Order.UpdatedAt.After(first.Order.UpdatedAt) {
		t.Error("expected timestamp to be replaced")
	}
	if store.calls["NextOrderID"] != 1 {
		t.Errorf("NextOrderID called %d times, want 1", store.calls["NextOrderID"])
	}
}

func TestUpsert_Validation(t *testing.T) {
	ledger, _, _ := newTestLedgers(newMemStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		table int32
		items []LineItem
		want  error
	}{
		{"no table", 0, []LineItem{item(1, "A", "1.00", 1)}, ErrPreconditionFailed},
		{"no items", 3, nil, ErrEmptyItems},
		{"zero quantity", 3, []LineItem{item(1, "A", "1.00", 0)}, ErrInvalidQuantity},
		{"total overflows int32", 3, []LineItem{
			item(1, "A", "1.00", math.MaxInt32),
			item(2, "B", "1.00", 1),
		}, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Upsert(ctx, tt.table, tt.items)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpsert_RetriesTableConflictAsUpdate(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)

	// A concurrent writer commits an order for table 7 between our lock
	// attempt and our insert.
	store.createOrderHook = func(arg database.CreateOrderParams) error {
		store.createOrderHook = nil
		store.orders[99] = database.Order{
			ID: 99, OrderNumber: 99, TableNumber: 7,
			Items: mustItems(item(1, "A", "1.00", 1)), TotalItems: 1, TotalPrice: makeNumeric("1.00"),
		}
		return &pgconn.PgError{Code: "23505", ConstraintName: "orders_table_number_key"}
	}

	res, err := ledger.Upsert(context.Background(), 7, []LineItem{item(2, "B", "3.00", 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created {
		t.Error("expected retry to become an update")
	}
	if res.Order.ID != 99 || res.Order.OrderNumber != 99 {
		t.Errorf("expected the concurrent order to be updated, got id %d", res.Order.ID)
	}
	if len(store.orders) != 1 {
		t.Errorf("orders = %d, want 1", len(store.orders))
	}
}

func TestUpsert_PersistentConflict(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)
	store.createOrderHook = func(arg database.CreateOrderParams) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "orders_table_number_key"}
	}

	_, err := ledger.Upsert(context.Background(), 7, []LineItem{item(1, "A", "1.00", 1)})
	if !errors.Is(err, ErrDuplicateConstraint) {
		t.Fatalf("expected ErrDuplicateConstraint, got: %v", err)
	}
	if store.calls["CreateOrder"] != maxUpsertAttempts {
		t.Errorf("CreateOrder called %d times, want %d", store.calls["CreateOrder"], maxUpsertAttempts)
	}
}

func TestUpsert_CommitError(t *testing.T) {
	store := newMemStore()
	obs := &countingObserver{}
	ledger, _, tx := newTestLedgers(store, obs)
	tx.commitErr = errors.New("connection reset")

	_, err := ledger.Upsert(context.Background(), 1, []LineItem{item(1, "A", "1.00", 1)})
	if !errors.Is(err, ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed, got: %v", err)
	}
	if obs.calls != 0 {
		t.Errorf("observer notified %d times on failure", obs.calls)
	}
}

func TestUpsert_BeginError(t *testing.T) {
	store := newMemStore()
	pool := &mockTxBeginner{err: errors.New("pool closed")}
	ledger := NewOrderLedger(pool, store, func(db database.DBTX) OrderStore { return store }, nil)

	if _, err := ledger.Upsert(context.Background(), 1, []LineItem{item(1, "A", "1.00", 1)}); !errors.Is(err, ErrCommitFailed) {
		t.Fatalf("expected ErrCommitFailed, got: %v", err)
	}
	if store.calls["CreateOrder"] != 0 {
		t.Error("store should not be called without a transaction")
	}
}

func TestGetByTable(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)
	ctx := context.Background()

	got, err := ledger.GetByTable(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a free table, got %+v", got)
	}

	if _, err := ledger.Upsert(ctx, 3, []LineItem{item(1, "A", "2.00", 1)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = ledger.GetByTable(ctx, 3)
	if err != nil || got == nil {
		t.Fatalf("expected order, got %v, %v", got, err)
	}
	if got.Items[0].ItemName != "A" {
		t.Errorf("item name = %q, want A", got.Items[0].ItemName)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	ledger, _, _ := newTestLedgers(newMemStore(), nil)

	_, err := ledger.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)
	ctx := context.Background()

	for _, table := range []int32{1, 2, 3} {
		if _, err := ledger.Upsert(ctx, table, []LineItem{item(1, "A", "1.00", 1)}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	// Touch table 1 so it becomes the newest.
	if _, err := ledger.Upsert(ctx, 1, []LineItem{item(1, "A", "1.00", 2)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	orders, err := ledger.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var tables []int32
	for _, o := range orders {
		tables = append(tables, o.TableNumber)
	}
	want := []int32{1, 3, 2}
	for i := range want {
		if tables[i] != want[i] {
			t.Fatalf("order tables = %v, want %v", tables, want)
		}
	}
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	obs := &countingObserver{}
	ledger, _, _ := newTestLedgers(store, obs)
	ctx := context.Background()

	res, _ := ledger.Upsert(ctx, 1, []LineItem{item(1, "A", "1.00", 1)})
	if err := ledger.Delete(ctx, res.Order.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Delete(ctx, res.Order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if obs.calls != 2 {
		t.Errorf("observer calls = %d, want 2 (upsert + delete)", obs.calls)
	}
}

func TestDeleteAll_KeepsSequence(t *testing.T) {
	store := newMemStore()
	ledger, _, _ := newTestLedgers(store, nil)
	ctx := context.Background()

	for _, table := range []int32{1, 2} {
		ledger.Upsert(ctx, table, []LineItem{item(1, "A", "1.00", 1)}) //nolint:errcheck
	}
	n, err := ledger.DeleteAll(ctx)
	if err != nil || n != 2 {
		t.Fatalf("DeleteAll = %d, %v; want 2, nil", n, err)
	}

	res, err := ledger.Upsert(ctx, 1, []LineItem{item(1, "A", "1.00", 1)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Order.OrderNumber != 3 {
		t.Errorf("order_number after delete-all = %d, want 3", res.Order.OrderNumber)
	}
}

func TestResetNumbering_SingleStatement(t *testing.T) {
	store := newMemStore()
	obs := &countingObserver{}
	ledger, _, tx := newTestLedgers(store, obs)
	ctx := context.Background()

	for table := int32(1); table <= 5; table++ {
		if _, err := ledger.Upsert(ctx, table, []LineItem{item(1, "A", "1.00", 1)}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	obs.calls = 0

	n, err := ledger.ResetNumbering(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("deleted = %d, want 5", n)
	}
	if store.calls["ResetOrders"] != 1 || store.calls["DeleteAllOrders"] != 0 {
		t.Errorf("expected one ResetOrders and no DeleteAllOrders, got %v", store.calls)
	}
	if !tx.committed {
		t.Error("expected commit")
	}
	if obs.calls != 1 {
		t.Errorf("observer calls = %d, want 1", obs.calls)
	}

	count, _ := ledger.Count(ctx)
	if count != 0 {
		t.Errorf("count after reset = %d, want 0", count)
	}
	res, err := ledger.Upsert(ctx, 1, []LineItem{item(1, "A", "1.00", 1)})
	if err != nil {
		t.Fatalf("upsert after reset: %v", err)
	}
	if res.Order.OrderNumber != 1 {
		t.Errorf("order_number after reset = %d, want 1", res.Order.OrderNumber)
	}
}

func TestOrderWrites_StorageFailure(t *testing.T) {
	errDisk := errors.New("disk I/O error")
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		call   func(l *OrderLedger, id int32) error
	}{
		{"delete", "DeleteOrder", func(l *OrderLedger, id int32) error {
			return l.Delete(ctx, id)
		}},
		{"delete all", "DeleteAllOrders", func(l *OrderLedger, id int32) error {
			_, err := l.DeleteAll(ctx)
			return err
		}},
		{"reset numbering", "ResetOrders", func(l *OrderLedger, id int32) error {
			_, err := l.ResetNumbering(ctx)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			obs := &countingObserver{}
			ledger, _, _ := newTestLedgers(store, obs)
			res, err := ledger.Upsert(ctx, 1, []LineItem{item(1, "A", "1.00", 1)})
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			obs.calls = 0
			store.failures[tt.method] = errDisk

			err = tt.call(ledger, res.Order.ID)
			if !errors.Is(err, ErrCommitFailed) {
				t.Fatalf("expected ErrCommitFailed, got: %v", err)
			}
			if !errors.Is(err, errDisk) {
				t.Errorf("expected cause to be kept, got: %v", err)
			}
			if obs.calls != 0 {
				t.Errorf("observer notified %d times on failure", obs.calls)
			}
		})
	}
}

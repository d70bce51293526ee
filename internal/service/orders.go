package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/dinedesk-lite/api/internal/numbering"
	"github.com/jackc/pgx/v5"
)

// maxUpsertAttempts bounds retries when a concurrent insert for the same
// table wins the orders_table_number_key race. The second attempt sees the
// committed row and becomes an update.
const maxUpsertAttempts = 2

// OrderStore defines the DB methods needed by the order ledger.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	NextOrderID(ctx context.Context) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	UpdateOrderItems(ctx context.Context, arg database.UpdateOrderItemsParams) (database.Order, error)
	GetOrder(ctx context.Context, id int32) (database.Order, error)
	GetOrderByTable(ctx context.Context, tableNumber int32) (database.Order, error)
	GetOrderByTableForUpdate(ctx context.Context, tableNumber int32) (database.Order, error)
	ListOrders(ctx context.Context) ([]database.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	DeleteOrder(ctx context.Context, id int32) (int64, error)
	DeleteAllOrders(ctx context.Context) (int64, error)
	ResetOrders(ctx context.Context) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// UpsertResult is the committed order and whether it was newly inserted.
type UpsertResult struct {
	Order   Order
	Created bool
}

// OrderLedger holds open orders, at most one per table.
type OrderLedger struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
	observer OrderObserver
}

// NewOrderLedger creates a new OrderLedger. observer may be nil.
func NewOrderLedger(pool TxBeginner, store OrderStore, newStore NewOrderStore, observer OrderObserver) *OrderLedger {
	return &OrderLedger{pool: pool, store: store, newStore: newStore, observer: observer}
}

// Upsert writes the order for a table. An existing order keeps its id and
// order number and has its items, totals and timestamp replaced; otherwise a
// new id is taken from the orders sequence and used as the order number.
// Totals are always computed from items.
func (l *OrderLedger) Upsert(ctx context.Context, tableNumber int32, items []LineItem) (*UpsertResult, error) {
	if tableNumber <= 0 {
		return nil, ErrPreconditionFailed
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	if q := totalQuantity(items); q > math.MaxInt32 {
		return nil, fmt.Errorf("total quantity %d exceeds %d: %w", q, math.MaxInt32, ErrInvalidQuantity)
	}

	var lastErr error
	for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
		result, err := l.upsertTx(ctx, tableNumber, items)
		if err == nil {
			l.notify(ctx)
			return result, nil
		}
		if isUniqueViolation(err, constraintOrderTableNumber) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrDuplicateConstraint, lastErr)
}

func (l *OrderLedger) upsertTx(ctx context.Context, tableNumber int32, items []LineItem) (*UpsertResult, error) {
	totalItems, totalPrice := Totals(items)
	encoded, err := encodeItems(items)
	if err != nil {
		return nil, err
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx: %w", ErrCommitFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := l.newStore(tx)

	var row database.Order
	created := false

	existing, err := store.GetOrderByTableForUpdate(ctx, tableNumber)
	switch {
	case err == nil:
		row, err = store.UpdateOrderItems(ctx, database.UpdateOrderItemsParams{
			ID:         existing.ID,
			Items:      encoded,
			TotalItems: totalItems,
			TotalPrice: decimalToNumeric(totalPrice),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: update order: %w", ErrCommitFailed, err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		id, err := numbering.NewSequence(store.NextOrderID).Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: allocate order id: %w", ErrCommitFailed, err)
		}
		row, err = store.CreateOrder(ctx, database.CreateOrderParams{
			ID:          id,
			OrderNumber: id,
			TableNumber: tableNumber,
			Items:       encoded,
			TotalItems:  totalItems,
			TotalPrice:  decimalToNumeric(totalPrice),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create order: %w", ErrCommitFailed, err)
		}
		created = true
	default:
		return nil, fmt.Errorf("%w: lock order: %w", ErrCommitFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit tx: %w", ErrCommitFailed, err)
	}

	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	return &UpsertResult{Order: order, Created: created}, nil
}

// GetByTable returns the open order for a table, or nil when the table is free.
func (l *OrderLedger) GetByTable(ctx context.Context, tableNumber int32) (*Order, error) {
	row, err := l.store.GetOrderByTable(ctx, tableNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get order by table: %w", ErrUnavailable, err)
	}
	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID returns an order by id.
func (l *OrderLedger) GetByID(ctx context.Context, id int32) (*Order, error) {
	row, err := l.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get order: %w", ErrUnavailable, err)
	}
	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns all open orders, newest first.
func (l *OrderLedger) List(ctx context.Context) ([]Order, error) {
	rows, err := l.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrUnavailable, err)
	}
	orders := make([]Order, 0, len(rows))
	for _, row := range rows {
		o, err := orderFromRow(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Count returns the number of open orders.
func (l *OrderLedger) Count(ctx context.Context) (int64, error) {
	n, err := l.store.CountOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count orders: %w", ErrUnavailable, err)
	}
	return n, nil
}

// Delete cancels an open order.
func (l *OrderLedger) Delete(ctx context.Context, id int32) error {
	n, err := l.store.DeleteOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete order: %w", ErrCommitFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	l.notify(ctx)
	return nil
}

// DeleteAll removes every open order and returns how many were deleted.
// The order counter is not reset.
func (l *OrderLedger) DeleteAll(ctx context.Context) (int64, error) {
	n, err := l.store.DeleteAllOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: delete all orders: %w", ErrCommitFailed, err)
	}
	l.notify(ctx)
	return n, nil
}

// ResetNumbering deletes every open order and restarts the order sequence in
// a single TRUNCATE ... RESTART IDENTITY. It returns how many orders were
// removed. Sales are not touched and keep their order numbers.
func (l *OrderLedger) ResetNumbering(ctx context.Context) (int64, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %w", ErrCommitFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := l.newStore(tx)

	n, err := store.CountOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count orders: %w", ErrCommitFailed, err)
	}
	if err := store.ResetOrders(ctx); err != nil {
		return 0, fmt.Errorf("%w: reset orders: %w", ErrCommitFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit tx: %w", ErrCommitFailed, err)
	}

	l.notify(ctx)
	return n, nil
}

func (l *OrderLedger) notify(ctx context.Context) {
	if l.observer != nil {
		l.observer.OrdersChanged(ctx)
	}
}

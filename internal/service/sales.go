package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/dinedesk-lite/api/internal/numbering"
	"github.com/jackc/pgx/v5"
)

// SaleStore defines the DB methods needed by the sale ledger and conversion.
// Satisfied by *database.Queries (and its WithTx variant).
type SaleStore interface {
	GetOrderForUpdate(ctx context.Context, id int32) (database.Order, error)
	DeleteOrder(ctx context.Context, id int32) (int64, error)
	NextSaleID(ctx context.Context) (int32, error)
	CreateSale(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error)
	GetSale(ctx context.Context, id int32) (database.Sale, error)
	ListSales(ctx context.Context, arg database.ListSalesParams) ([]database.Sale, error)
	ListAllSales(ctx context.Context) ([]database.Sale, error)
	DeleteSale(ctx context.Context, id int32) (int64, error)
	DeleteAllSales(ctx context.Context) (int64, error)
}

// NewSaleStore creates a SaleStore from a DBTX (pool or tx).
type NewSaleStore func(db database.DBTX) SaleStore

// SaleLedger is the append-only record of completed orders.
type SaleLedger struct {
	pool     TxBeginner
	store    SaleStore
	newStore NewSaleStore
	observer OrderObserver
}

// NewSaleLedger creates a new SaleLedger. observer is notified after a
// conversion removes an order; it may be nil.
func NewSaleLedger(pool TxBeginner, store SaleStore, newStore NewSaleStore, observer OrderObserver) *SaleLedger {
	return &SaleLedger{pool: pool, store: store, newStore: newStore, observer: observer}
}

// Convert moves an open order into the sale ledger. Within one transaction
// the order row is locked, a sale is inserted with a copy of its items and
// totals, and the order is deleted. A missing order returns ErrNotFound and
// creates no sale.
func (l *SaleLedger) Convert(ctx context.Context, orderID int32) (*Sale, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx: %w", ErrCommitFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := l.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: lock order: %w", ErrCommitFailed, err)
	}

	id, err := numbering.NewSequence(store.NextSaleID).Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate sale id: %w", ErrCommitFailed, err)
	}

	row, err := store.CreateSale(ctx, database.CreateSaleParams{
		ID:          id,
		SaleNumber:  id,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
		Items:       order.Items,
		TotalItems:  order.TotalItems,
		TotalPrice:  order.TotalPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create sale: %w", ErrCommitFailed, err)
	}

	n, err := store.DeleteOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: delete order: %w", ErrCommitFailed, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: order %d was not deleted", ErrCommitFailed, order.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit tx: %w", ErrCommitFailed, err)
	}

	if l.observer != nil {
		l.observer.OrdersChanged(ctx)
	}

	sale, err := saleFromRow(row)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns sales sold within [from, to), newest first. A zero from or to
// leaves that side unbounded.
func (l *SaleLedger) List(ctx context.Context, from, to time.Time) ([]Sale, error) {
	var (
		rows []database.Sale
		err  error
	)
	if from.IsZero() && to.IsZero() {
		rows, err = l.store.ListAllSales(ctx)
	} else {
		if from.IsZero() {
			from = time.Unix(0, 0).UTC()
		}
		if to.IsZero() {
			to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		rows, err = l.store.ListSales(ctx, database.ListSalesParams{StartAt: from, EndAt: to})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list sales: %w", ErrUnavailable, err)
	}

	sales := make([]Sale, 0, len(rows))
	for _, row := range rows {
		s, err := saleFromRow(row)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

// Get returns a sale by id.
func (l *SaleLedger) Get(ctx context.Context, id int32) (*Sale, error) {
	row, err := l.store.GetSale(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get sale: %w", ErrUnavailable, err)
	}
	sale, err := saleFromRow(row)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete removes a single sale.
func (l *SaleLedger) Delete(ctx context.Context, id int32) error {
	n, err := l.store.DeleteSale(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete sale: %w", ErrCommitFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAll purges the sale ledger and returns how many sales were removed.
func (l *SaleLedger) DeleteAll(ctx context.Context) (int64, error) {
	n, err := l.store.DeleteAllSales(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: delete all sales: %w", ErrCommitFailed, err)
	}
	return n, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/dinedesk-lite/api/internal/numbering"
	"github.com/shopspring/decimal"
)

// TableStore defines the DB methods needed by the table registry.
// Satisfied by *database.Queries; narrow interface for testability.
type TableStore interface {
	ListTableNumbers(ctx context.Context) ([]int32, error)
	ListTables(ctx context.Context) ([]database.DiningTable, error)
	ListTablesWithOrders(ctx context.Context) ([]database.ListTablesWithOrdersRow, error)
	CreateTable(ctx context.Context, tableNumber int32) (database.DiningTable, error)
	DeleteTable(ctx context.Context, id int32) (int64, error)
	DeleteAllTables(ctx context.Context) (int64, error)
	TableNumberExists(ctx context.Context, tableNumber int32) (bool, error)
}

// Table is a dining table. Occupancy is derived from the order ledger.
type Table struct {
	ID          int32
	TableNumber int32
	CreatedAt   time.Time
}

// OrderSummary is the open order shown on an occupied table.
type OrderSummary struct {
	ID          int32
	OrderNumber int32
	TotalItems  int32
	TotalPrice  decimal.Decimal
	UpdatedAt   time.Time
}

// TableStatus is a table together with its occupancy.
type TableStatus struct {
	Table
	Occupied bool
	Order    *OrderSummary
}

// TableRegistry allocates and releases table numbers.
type TableRegistry struct {
	store TableStore
	alloc numbering.Allocator
}

// NewTableRegistry creates a TableRegistry using gap-filling allocation over
// the current table numbers.
func NewTableRegistry(store TableStore) *TableRegistry {
	return &TableRegistry{
		store: store,
		alloc: numbering.NewGapFilling(store.ListTableNumbers),
	}
}

// Allocate creates a table with the smallest unused positive number.
// A concurrent allocation of the same number fails with
// ErrDuplicateConstraint; it is not retried.
func (r *TableRegistry) Allocate(ctx context.Context) (*Table, error) {
	n, err := r.alloc.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate table number: %w", ErrUnavailable, err)
	}

	row, err := r.store.CreateTable(ctx, n)
	if err != nil {
		if isUniqueViolation(err, constraintTableNumber) {
			return nil, fmt.Errorf("table %d already exists: %w", n, ErrDuplicateConstraint)
		}
		return nil, fmt.Errorf("%w: create table: %w", ErrCommitFailed, err)
	}

	t := tableFromRow(row)
	return &t, nil
}

// Release deletes a table by its internal id. An open order for that table
// number is left in place.
func (r *TableRegistry) Release(ctx context.Context, id int32) error {
	n, err := r.store.DeleteTable(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete table: %w", ErrCommitFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	return nil
}

// Exists reports whether a table with the given number is registered.
func (r *TableRegistry) Exists(ctx context.Context, tableNumber int32) (bool, error) {
	ok, err := r.store.TableNumberExists(ctx, tableNumber)
	if err != nil {
		return false, fmt.Errorf("%w: check table: %w", ErrUnavailable, err)
	}
	return ok, nil
}

// List returns all tables ordered by table number.
func (r *TableRegistry) List(ctx context.Context) ([]Table, error) {
	rows, err := r.store.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrUnavailable, err)
	}
	tables := make([]Table, len(rows))
	for i, row := range rows {
		tables[i] = tableFromRow(row)
	}
	return tables, nil
}

// ListWithOccupancy returns all tables with the open order for each, if any.
func (r *TableRegistry) ListWithOccupancy(ctx context.Context) ([]TableStatus, error) {
	rows, err := r.store.ListTablesWithOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrUnavailable, err)
	}
	out := make([]TableStatus, len(rows))
	for i, row := range rows {
		out[i] = TableStatus{
			Table: Table{ID: row.ID, TableNumber: row.TableNumber, CreatedAt: row.CreatedAt},
		}
		if row.OrderID.Valid {
			out[i].Occupied = true
			out[i].Order = &OrderSummary{
				ID:          row.OrderID.Int32,
				OrderNumber: row.OrderNumber.Int32,
				TotalItems:  row.TotalItems.Int32,
				TotalPrice:  numericToDecimal(row.TotalPrice),
				UpdatedAt:   row.OrderUpdatedAt.Time,
			}
		}
	}
	return out, nil
}

// DeleteAll removes every table and returns how many were deleted.
func (r *TableRegistry) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.store.DeleteAllTables(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: delete all tables: %w", ErrCommitFailed, err)
	}
	return n, nil
}

func tableFromRow(row database.DiningTable) Table {
	return Table{ID: row.ID, TableNumber: row.TableNumber, CreatedAt: row.CreatedAt}
}

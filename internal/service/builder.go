package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/dinedesk-lite/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Catalog supplies the products an order builder offers.
type Catalog interface {
	Products(ctx context.Context) ([]Product, error)
}

// OrderWriter is the part of the order ledger an order builder needs.
// Satisfied by *OrderLedger.
type OrderWriter interface {
	GetByTable(ctx context.Context, tableNumber int32) (*Order, error)
	Upsert(ctx context.Context, tableNumber int32, items []LineItem) (*UpsertResult, error)
}

// BuilderItem is one row of the builder's working set.
type BuilderItem struct {
	ProductID int32
	ItemName  string
	Price     decimal.Decimal
	Quantity  int32
	// Orphaned is set for items of the existing order whose product has
	// since been removed from the catalog.
	Orphaned bool
}

// BuilderView is a read-only copy of a builder's state.
type BuilderView struct {
	State         string
	TableNumber   int32
	Items         []BuilderItem
	TotalItems    int32
	TotalPrice    decimal.Decimal
	ExistingOrder *OrderSummary
}

// OrderBuilder is the in-memory working state for one table's order.
//
//	UNINITIALIZED --Load--> LOADED --ChangeQuantity--> DIRTY --PlaceOrder--> LOADED
//
// A successful PlaceOrder leaves the builder loaded against the committed
// order with every quantity at 0. Reset returns to UNINITIALIZED from any
// state. All methods are safe for concurrent use.
type OrderBuilder struct {
	mu          sync.Mutex
	tableNumber int32
	catalog     Catalog
	orders      OrderWriter

	state    string
	items    []BuilderItem
	index    map[int32]int
	existing *Order
}

// NewOrderBuilder creates a builder for a table. It fails with
// ErrPreconditionFailed when no table is selected.
func NewOrderBuilder(tableNumber int32, catalog Catalog, orders OrderWriter) (*OrderBuilder, error) {
	if tableNumber <= 0 {
		return nil, ErrPreconditionFailed
	}
	return &OrderBuilder{
		tableNumber: tableNumber,
		catalog:     catalog,
		orders:      orders,
		state:       enum.BuilderStateUninitialized,
	}, nil
}

// TableNumber returns the table the builder is bound to.
func (b *OrderBuilder) TableNumber() int32 {
	return b.tableNumber
}

// Load reads the catalog and the table's open order and rebuilds the working
// set. Products in the open order start at their committed quantity, all
// others at 0. On error the previous state is kept.
func (b *OrderBuilder) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	products, err := b.catalog.Products(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	existing, err := b.orders.GetByTable(ctx, b.tableNumber)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	committed := make(map[int32]int32)
	if existing != nil {
		for _, it := range existing.Items {
			committed[it.ProductID] += it.Quantity
		}
	}

	items := make([]BuilderItem, 0, len(products))
	index := make(map[int32]int, len(products))
	for _, p := range products {
		index[p.ID] = len(items)
		items = append(items, BuilderItem{
			ProductID: p.ID,
			ItemName:  p.ItemName,
			Price:     p.Price,
			Quantity:  committed[p.ID],
		})
	}

	if existing != nil {
		for _, it := range existing.Items {
			if _, ok := index[it.ProductID]; ok {
				continue
			}
			index[it.ProductID] = len(items)
			items = append(items, BuilderItem{
				ProductID: it.ProductID,
				ItemName:  it.ItemName,
				Price:     it.Price,
				Quantity:  committed[it.ProductID],
				Orphaned:  true,
			})
		}
	}

	b.items = items
	b.index = index
	b.existing = existing
	b.state = enum.BuilderStateLoaded
	return nil
}

// ChangeQuantity adds delta to a product's working quantity, clamped at 0,
// and returns the new quantity.
func (b *OrderBuilder) ChangeQuantity(productID, delta int32) (int32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == enum.BuilderStateUninitialized {
		return 0, fmt.Errorf("builder for table %d is not loaded: %w", b.tableNumber, ErrPreconditionFailed)
	}
	i, ok := b.index[productID]
	if !ok {
		return 0, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	b.items[i].Quantity = clampQuantity(int64(b.items[i].Quantity) + int64(delta))
	b.state = enum.BuilderStateDirty
	return b.items[i].Quantity, nil
}

func clampQuantity(q int64) int32 {
	if q < 0 {
		return 0
	}
	if q > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(q)
}

// PlaceOrder commits every item with a positive quantity to the order
// ledger. With nothing to commit it does nothing and returns nil. On success
// the working quantities drop to 0, the committed order becomes the
// builder's existing order and the state returns to LOADED. On failure the working set is untouched and the
// error wraps ErrCommitFailed.
func (b *OrderBuilder) PlaceOrder(ctx context.Context) (*UpsertResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == enum.BuilderStateUninitialized {
		return nil, fmt.Errorf("builder for table %d is not loaded: %w", b.tableNumber, ErrPreconditionFailed)
	}

	var lines []LineItem
	for _, it := range b.items {
		if it.Quantity > 0 {
			lines = append(lines, LineItem{
				ProductID: it.ProductID,
				ItemName:  it.ItemName,
				Price:     it.Price,
				Quantity:  it.Quantity,
			})
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	result, err := b.orders.Upsert(ctx, b.tableNumber, lines)
	if err != nil {
		return nil, fmt.Errorf("%w: table %d: %w", ErrCommitFailed, b.tableNumber, err)
	}

	for i := range b.items {
		b.items[i].Quantity = 0
	}
	order := result.Order
	b.existing = &order
	b.state = enum.BuilderStateLoaded
	return result, nil
}

// Reset discards the working set.
func (b *OrderBuilder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = nil
	b.index = nil
	b.existing = nil
	b.state = enum.BuilderStateUninitialized
}

// Snapshot returns a copy of the builder's current state.
func (b *OrderBuilder) Snapshot() BuilderView {
	b.mu.Lock()
	defer b.mu.Unlock()

	view := BuilderView{
		State:       b.state,
		TableNumber: b.tableNumber,
		Items:       make([]BuilderItem, len(b.items)),
		TotalPrice:  decimal.Zero,
	}
	copy(view.Items, b.items)
	var total int64
	for _, it := range b.items {
		total += int64(it.Quantity)
		view.TotalPrice = view.TotalPrice.Add(it.Price.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	view.TotalItems = clampQuantity(total)
	if b.existing != nil {
		view.ExistingOrder = &OrderSummary{
			ID:          b.existing.ID,
			OrderNumber: b.existing.OrderNumber,
			TotalItems:  b.existing.TotalItems,
			TotalPrice:  b.existing.TotalPrice,
			UpdatedAt:   b.existing.UpdatedAt,
		}
	}
	return view
}

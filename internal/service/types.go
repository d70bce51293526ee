package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderObserver is notified after every mutation of the order ledger.
type OrderObserver interface {
	OrdersChanged(ctx context.Context)
}

// LineItem is a frozen copy of a product at commit time. It is stored as
// JSON inside the order and copied verbatim into the sale; it is never
// joined back to the catalog.
type LineItem struct {
	ProductID int32           `json:"product_id"`
	ItemName  string          `json:"item_name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
}

// Subtotal returns price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt32(li.Quantity))
}

// totalQuantity sums quantities without int32 overflow.
func totalQuantity(items []LineItem) int64 {
	var n int64
	for _, it := range items {
		n += int64(it.Quantity)
	}
	return n
}

// Totals sums quantities and line subtotals. Callers that persist the count
// check totalQuantity first; Upsert rejects sums above MaxInt32.
func Totals(items []LineItem) (int32, decimal.Decimal) {
	var count int32
	price := decimal.Zero
	for _, it := range items {
		count += it.Quantity
		price = price.Add(it.Subtotal())
	}
	return count, price
}

// Order is an open order, at most one per table.
type Order struct {
	ID          int32
	OrderNumber int32
	TableNumber int32
	Items       []LineItem
	TotalItems  int32
	TotalPrice  decimal.Decimal
	UpdatedAt   time.Time
}

// Sale is a completed order. Sales are append-only.
type Sale struct {
	ID          int32
	SaleNumber  int32
	OrderNumber int32
	TableNumber int32
	Items       []LineItem
	TotalItems  int32
	TotalPrice  decimal.Decimal
	SoldAt      time.Time
}

// Product is a catalog entry as seen by the order builder.
type Product struct {
	ID          int32
	ItemName    string
	Price       decimal.Decimal
	Description string
	ImageURI    string
}

func orderFromRow(row database.Order) (Order, error) {
	items, err := decodeItems(row.Items)
	if err != nil {
		return Order{}, fmt.Errorf("order %d: %w", row.ID, err)
	}
	return Order{
		ID:          row.ID,
		OrderNumber: row.OrderNumber,
		TableNumber: row.TableNumber,
		Items:       items,
		TotalItems:  row.TotalItems,
		TotalPrice:  numericToDecimal(row.TotalPrice),
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func saleFromRow(row database.Sale) (Sale, error) {
	items, err := decodeItems(row.Items)
	if err != nil {
		return Sale{}, fmt.Errorf("sale %d: %w", row.ID, err)
	}
	return Sale{
		ID:          row.ID,
		SaleNumber:  row.SaleNumber,
		OrderNumber: row.OrderNumber,
		TableNumber: row.TableNumber,
		Items:       items,
		TotalItems:  row.TotalItems,
		TotalPrice:  numericToDecimal(row.TotalPrice),
		SoldAt:      row.SoldAt,
	}, nil
}

// ProductFromRow converts a catalog row.
func ProductFromRow(row database.Product) Product {
	return Product{
		ID:          row.ID,
		ItemName:    row.ItemName,
		Price:       numericToDecimal(row.Price),
		Description: row.Description.String,
		ImageURI:    row.ImageUri.String,
	}
}

func decodeItems(raw []byte) ([]LineItem, error) {
	if len(raw) == 0 {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func encodeItems(items []LineItem) ([]byte, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return b, nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

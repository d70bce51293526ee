package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr == nil {
		m.committed = true
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner. Every Begin returns the same tx.
type mockTxBeginner struct {
	tx     *mockTx
	err    error
	begins int
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	m.begins++
	if m.err != nil {
		return nil, m.err
	}
	return m.tx, nil
}

// memStore is an in-memory OrderStore, SaleStore and CountStore. Changes are
// applied immediately; rollback is not simulated, so tests that need abort
// semantics override individual methods through the hook fields.
type memStore struct {
	mu       sync.Mutex
	orders   map[int32]database.Order
	sales    map[int32]database.Sale
	orderSeq int32
	saleSeq  int32
	now      time.Time
	calls    map[string]int

	// failures makes the named method return the given error.
	failures map[string]error

	createOrderHook func(arg database.CreateOrderParams) error
	createSaleHook  func(arg database.CreateSaleParams) error
	deleteOrderHook func(id int32) (int64, bool)
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[int32]database.Order),
		sales:  make(map[int32]database.Sale),
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		calls:  make(map[string]int),

		failures: make(map[string]error),
	}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memStore) NextOrderID(ctx context.Context) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["NextOrderID"]++
	m.orderSeq++
	return m.orderSeq, nil
}

func (m *memStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateOrder"]++
	if m.createOrderHook != nil {
		if err := m.createOrderHook(arg); err != nil {
			return database.Order{}, err
		}
	}
	for _, o := range m.orders {
		if o.TableNumber == arg.TableNumber {
			return database.Order{}, &pgconn.PgError{Code: "23505", ConstraintName: "orders_table_number_key"}
		}
	}
	o := database.Order{
		ID:          arg.ID,
		OrderNumber: arg.OrderNumber,
		TableNumber: arg.TableNumber,
		Items:       arg.Items,
		TotalItems:  arg.TotalItems,
		TotalPrice:  arg.TotalPrice,
		UpdatedAt:   m.tick(),
	}
	m.orders[o.ID] = o
	return o, nil
}

func (m *memStore) UpdateOrderItems(ctx context.Context, arg database.UpdateOrderItemsParams) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["UpdateOrderItems"]++
	o, ok := m.orders[arg.ID]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Items = arg.Items
	o.TotalItems = arg.TotalItems
	o.TotalPrice = arg.TotalPrice
	o.UpdatedAt = m.tick()
	m.orders[o.ID] = o
	return o, nil
}

func (m *memStore) GetOrder(ctx context.Context, id int32) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *memStore) GetOrderForUpdate(ctx context.Context, id int32) (database.Order, error) {
	return m.GetOrder(ctx, id)
}

func (m *memStore) GetOrderByTable(ctx context.Context, tableNumber int32) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TableNumber == tableNumber {
			return o, nil
		}
	}
	return database.Order{}, pgx.ErrNoRows
}

func (m *memStore) GetOrderByTableForUpdate(ctx context.Context, tableNumber int32) (database.Order, error) {
	return m.GetOrderByTable(ctx, tableNumber)
}

func (m *memStore) ListOrders(ctx context.Context) ([]database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]database.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *memStore) CountOrders(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CountOrders"]++
	return int64(len(m.orders)), nil
}

func (m *memStore) DeleteOrder(ctx context.Context, id int32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["DeleteOrder"]++
	if err := m.failures["DeleteOrder"]; err != nil {
		return 0, err
	}
	if m.deleteOrderHook != nil {
		if n, handled := m.deleteOrderHook(id); handled {
			return n, nil
		}
	}
	if _, ok := m.orders[id]; !ok {
		return 0, nil
	}
	delete(m.orders, id)
	return 1, nil
}

func (m *memStore) DeleteAllOrders(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["DeleteAllOrders"]++
	if err := m.failures["DeleteAllOrders"]; err != nil {
		return 0, err
	}
	n := int64(len(m.orders))
	m.orders = make(map[int32]database.Order)
	return n, nil
}

func (m *memStore) ResetOrders(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ResetOrders"]++
	if err := m.failures["ResetOrders"]; err != nil {
		return err
	}
	m.orders = make(map[int32]database.Order)
	m.orderSeq = 0
	return nil
}

func (m *memStore) NextSaleID(ctx context.Context) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saleSeq++
	return m.saleSeq, nil
}

func (m *memStore) CreateSale(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateSale"]++
	if m.createSaleHook != nil {
		if err := m.createSaleHook(arg); err != nil {
			return database.Sale{}, err
		}
	}
	s := database.Sale{
		ID:          arg.ID,
		SaleNumber:  arg.SaleNumber,
		OrderNumber: arg.OrderNumber,
		TableNumber: arg.TableNumber,
		Items:       arg.Items,
		TotalItems:  arg.TotalItems,
		TotalPrice:  arg.TotalPrice,
		SoldAt:      m.tick(),
	}
	m.sales[s.ID] = s
	return s, nil
}

func (m *memStore) GetSale(ctx context.Context, id int32) (database.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return database.Sale{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *memStore) ListSales(ctx context.Context, arg database.ListSalesParams) ([]database.Sale, error) {
	m.mu.Lock()
	m.calls["ListSales"]++
	m.mu.Unlock()
	all, _ := m.listAll()
	out := all[:0]
	for _, s := range all {
		if !s.SoldAt.Before(arg.StartAt) && s.SoldAt.Before(arg.EndAt) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListAllSales(ctx context.Context) ([]database.Sale, error) {
	m.mu.Lock()
	m.calls["ListAllSales"]++
	m.mu.Unlock()
	return m.listAll()
}

func (m *memStore) listAll() ([]database.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]database.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	return out, nil
}

func (m *memStore) DeleteSale(ctx context.Context, id int32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["DeleteSale"]; err != nil {
		return 0, err
	}
	if _, ok := m.sales[id]; !ok {
		return 0, nil
	}
	delete(m.sales, id)
	return 1, nil
}

func (m *memStore) DeleteAllSales(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["DeleteAllSales"]; err != nil {
		return 0, err
	}
	n := int64(len(m.sales))
	m.sales = make(map[int32]database.Sale)
	return n, nil
}

// countingObserver records OrdersChanged calls.
type countingObserver struct {
	calls int
}

func (o *countingObserver) OrdersChanged(ctx context.Context) { o.calls++ }

// mockCatalog implements Catalog.
type mockCatalog struct {
	products []Product
	err      error
}

func (m *mockCatalog) Products(ctx context.Context) ([]Product, error) {
	return m.products, m.err
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func mustItems(items ...LineItem) []byte {
	b, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}
	return b
}

func item(productID int32, name, price string, qty int32) LineItem {
	return LineItem{
		ProductID: productID,
		ItemName:  name,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

// newTestLedgers wires an order ledger and a sale ledger over one memStore.
func newTestLedgers(store *memStore, observer OrderObserver) (*OrderLedger, *SaleLedger, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	orders := NewOrderLedger(pool, store, func(db database.DBTX) OrderStore { return store }, observer)
	sales := NewSaleLedger(pool, store, func(db database.DBTX) SaleStore { return store }, observer)
	return orders, sales, tx
}

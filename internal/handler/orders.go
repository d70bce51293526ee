package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dinedesk-lite/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// OrderLedger is the order read/cancel surface used by OrderHandler.
// Satisfied by *service.OrderLedger.
type OrderLedger interface {
	List(ctx context.Context) ([]service.Order, error)
	GetByID(ctx context.Context, id int32) (*service.Order, error)
	GetByTable(ctx context.Context, tableNumber int32) (*service.Order, error)
	Delete(ctx context.Context, id int32) error
}

// SaleConverter turns an open order into a sale.
// Satisfied by *service.SaleLedger.
type SaleConverter interface {
	Convert(ctx context.Context, orderID int32) (*service.Sale, error)
}

// OrderCounter serves the open-order badge count.
// Satisfied by *service.OrderCounter.
type OrderCounter interface {
	Get(ctx context.Context) (int64, error)
}

// SessionCloser drops a table's in-memory order builder.
// Satisfied by *service.Sessions.
type SessionCloser interface {
	Close(tableNumber int32)
}

// OrderHandler handles open-order endpoints.
type OrderHandler struct {
	orders   OrderLedger
	sales    SaleConverter
	counter  OrderCounter
	sessions SessionCloser
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderLedger, sales SaleConverter, counter OrderCounter, sessions SessionCloser) *OrderHandler {
	return &OrderHandler{orders: orders, sales: sales, counter: counter, sessions: sessions}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/count", h.Count)
	r.Get("/by-table/{number}", h.GetByTable)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Cancel)
	r.Post("/{id}/convert", h.Convert)
}

// --- Response types ---

type lineItemResponse struct {
	ProductID int32  `json:"product_id"`
	ItemName  string `json:"item_name"`
	Price     string `json:"price"`
	Quantity  int32  `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type orderResponse struct {
	ID          int32              `json:"id"`
	OrderNumber int32              `json:"order_number"`
	TableNumber int32              `json:"table_number"`
	Items       []lineItemResponse `json:"items"`
	TotalItems  int32              `json:"total_items"`
	TotalPrice  string             `json:"total_price"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toLineItems(items []service.LineItem) []lineItemResponse {
	resp := make([]lineItemResponse, len(items))
	for i, it := range items {
		resp[i] = lineItemResponse{
			ProductID: it.ProductID,
			ItemName:  it.ItemName,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal().StringFixed(2),
		}
	}
	return resp
}

func toOrderResponse(o service.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		TableNumber: o.TableNumber,
		Items:       toLineItems(o.Items),
		TotalItems:  o.TotalItems,
		TotalPrice:  o.TotalPrice.StringFixed(2),
		UpdatedAt:   o.UpdatedAt,
	}
}

// --- Handlers ---

// List returns all open orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeServiceError(w, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Count returns the number of open orders.
func (h *OrderHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.counter.Get(r.Context())
	if err != nil {
		writeServiceError(w, "count orders", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

// Get returns a single open order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// GetByTable returns the open order for a table; 404 means the table is free.
func (h *OrderHandler) GetByTable(w http.ResponseWriter, r *http.Request) {
	number, err := parseIDParam(r, "number")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}

	order, err := h.orders.GetByTable(r.Context(), number)
	if err != nil {
		writeServiceError(w, "get order by table", err)
		return
	}
	if order == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "table has no open order"})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Cancel deletes an open order and vacates its table.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get order", err)
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "cancel order", err)
		return
	}
	h.sessions.Close(order.TableNumber)

	w.WriteHeader(http.StatusNoContent)
}

// Convert completes an open order, recording it as a sale.
func (h *OrderHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	sale, err := h.sales.Convert(r.Context(), id)
	if err != nil {
		writeServiceError(w, "convert order", err)
		return
	}
	h.sessions.Close(sale.TableNumber)

	writeJSON(w, http.StatusCreated, toSaleResponse(*sale))
}

// --- Helpers ---

// writeServiceError maps service errors to HTTP status codes. Unexpected
// errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, service.ErrPreconditionFailed):
		writeJSON(w, http.StatusPreconditionFailed, map[string]string{"error": "table selection is required"})
	case errors.Is(err, service.ErrDuplicateConstraint):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists, try again"})
	case errors.Is(err, service.ErrEmptyItems), errors.Is(err, service.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrCommitFailed):
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save, please retry"})
	case errors.Is(err, service.ErrUnavailable):
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// parseIDParam reads a positive int32 URL parameter.
func parseIDParam(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return int32(v), nil
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

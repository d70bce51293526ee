package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dinedesk-lite/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// BuilderSessions hands out the per-table order builders.
// Satisfied by *service.Sessions.
type BuilderSessions interface {
	Open(ctx context.Context, tableNumber int32) (*service.OrderBuilder, error)
	Get(tableNumber int32) (*service.OrderBuilder, error)
	Close(tableNumber int32)
}

// BuilderHandler exposes the order builder of each table.
type BuilderHandler struct {
	sessions BuilderSessions
}

// NewBuilderHandler creates a new BuilderHandler.
func NewBuilderHandler(sessions BuilderSessions) *BuilderHandler {
	return &BuilderHandler{sessions: sessions}
}

// RegisterRoutes registers builder endpoints on the given Chi router.
// Expected to be mounted at /builders
func (h *BuilderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{number}", h.Open)
	r.Get("/{number}", h.Get)
	r.Delete("/{number}", h.Close)
	r.Post("/{number}/items/{pid}", h.ChangeQuantity)
	r.Post("/{number}/place", h.Place)
}

// --- Request / Response types ---

type quantityRequest struct {
	Delta int32 `json:"delta"`
}

type builderItemResponse struct {
	ProductID int32  `json:"product_id"`
	ItemName  string `json:"item_name"`
	Price     string `json:"price"`
	Quantity  int32  `json:"quantity"`
	Orphaned  bool   `json:"orphaned"`
}

type builderResponse struct {
	State         string                `json:"state"`
	TableNumber   int32                 `json:"table_number"`
	Items         []builderItemResponse `json:"items"`
	TotalItems    int32                 `json:"total_items"`
	TotalPrice    string                `json:"total_price"`
	ExistingOrder *tableOrderResponse   `json:"existing_order"`
}

type placeResponse struct {
	Placed  bool            `json:"placed"`
	Created bool            `json:"created"`
	Order   *orderResponse  `json:"order"`
	Builder builderResponse `json:"builder"`
}

func toBuilderResponse(v service.BuilderView) builderResponse {
	items := make([]builderItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = builderItemResponse{
			ProductID: it.ProductID,
			ItemName:  it.ItemName,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			Orphaned:  it.Orphaned,
		}
	}
	return builderResponse{
		State:         v.State,
		TableNumber:   v.TableNumber,
		Items:         items,
		TotalItems:    v.TotalItems,
		TotalPrice:    v.TotalPrice.StringFixed(2),
		ExistingOrder: toTableOrderResponse(v.ExistingOrder),
	}
}

// --- Handlers ---

// Open focuses a table: its builder is (re)loaded from the catalog and the
// table's open order.
func (h *BuilderHandler) Open(w http.ResponseWriter, r *http.Request) {
	number, err := parseIDParam(r, "number")
	if err != nil {
		writeServiceError(w, "open builder", service.ErrPreconditionFailed)
		return
	}

	b, err := h.sessions.Open(r.Context(), number)
	if err != nil {
		writeServiceError(w, "open builder", err)
		return
	}
	writeJSON(w, http.StatusOK, toBuilderResponse(b.Snapshot()))
}

// Get returns the builder's current working set without reloading it.
func (h *BuilderHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.builder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toBuilderResponse(b.Snapshot()))
}

// Close leaves the table and discards its working set.
func (h *BuilderHandler) Close(w http.ResponseWriter, r *http.Request) {
	number, err := parseIDParam(r, "number")
	if err != nil {
		writeServiceError(w, "close builder", service.ErrPreconditionFailed)
		return
	}
	h.sessions.Close(number)
	w.WriteHeader(http.StatusNoContent)
}

// ChangeQuantity applies {"delta": n} to one product. Quantities never drop
// below zero.
func (h *BuilderHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	b, ok := h.builder(w, r)
	if !ok {
		return
	}

	pid, err := parseIDParam(r, "pid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := b.ChangeQuantity(pid, req.Delta); err != nil {
		writeServiceError(w, "change quantity", err)
		return
	}
	writeJSON(w, http.StatusOK, toBuilderResponse(b.Snapshot()))
}

// Place commits the working set. 201 when a new order was opened, 200 when
// the table's order was replaced or when there was nothing to place.
func (h *BuilderHandler) Place(w http.ResponseWriter, r *http.Request) {
	b, ok := h.builder(w, r)
	if !ok {
		return
	}

	result, err := b.PlaceOrder(r.Context())
	if err != nil {
		writeServiceError(w, "place order", err)
		return
	}

	resp := placeResponse{Builder: toBuilderResponse(b.Snapshot())}
	if result == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	order := toOrderResponse(result.Order)
	resp.Placed = true
	resp.Created = result.Created
	resp.Order = &order

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// --- Helpers ---

func (h *BuilderHandler) builder(w http.ResponseWriter, r *http.Request) (*service.OrderBuilder, bool) {
	number, err := parseIDParam(r, "number")
	if err != nil {
		writeServiceError(w, "get builder", service.ErrPreconditionFailed)
		return nil, false
	}
	b, err := h.sessions.Get(number)
	if err != nil {
		writeServiceError(w, "get builder", err)
		return nil, false
	}
	return b, true
}

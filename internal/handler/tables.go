package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dinedesk-lite/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// TableRegistry allocates, lists and releases tables.
// Satisfied by *service.TableRegistry.
type TableRegistry interface {
	Allocate(ctx context.Context) (*service.Table, error)
	Release(ctx context.Context, id int32) error
	ListWithOccupancy(ctx context.Context) ([]service.TableStatus, error)
}

// TableHandler handles table endpoints.
type TableHandler struct {
	tables TableRegistry
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(tables TableRegistry) *TableHandler {
	return &TableHandler{tables: tables}
}

// RegisterRoutes registers table endpoints on the given Chi router.
// Expected to be mounted at /tables
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Allocate)
	r.Delete("/{id}", h.Release)
}

type tableResponse struct {
	ID          int32     `json:"id"`
	TableNumber int32     `json:"table_number"`
	CreatedAt   time.Time `json:"created_at"`
}

type tableOrderResponse struct {
	ID          int32     `json:"id"`
	OrderNumber int32     `json:"order_number"`
	TotalItems  int32     `json:"total_items"`
	TotalPrice  string    `json:"total_price"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type tableStatusResponse struct {
	tableResponse
	Occupied bool                `json:"occupied"`
	Order    *tableOrderResponse `json:"order"`
}

func toTableOrderResponse(o *service.OrderSummary) *tableOrderResponse {
	if o == nil {
		return nil
	}
	return &tableOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		TotalItems:  o.TotalItems,
		TotalPrice:  o.TotalPrice.StringFixed(2),
		UpdatedAt:   o.UpdatedAt,
	}
}

// List returns every table with its occupancy, ordered by table number.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListWithOccupancy(r.Context())
	if err != nil {
		writeServiceError(w, "list tables", err)
		return
	}

	resp := make([]tableStatusResponse, len(tables))
	for i, t := range tables {
		resp[i] = tableStatusResponse{
			tableResponse: tableResponse{ID: t.ID, TableNumber: t.TableNumber, CreatedAt: t.CreatedAt},
			Occupied:      t.Occupied,
			Order:         toTableOrderResponse(t.Order),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Allocate adds a table with the lowest free number.
func (h *TableHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	t, err := h.tables.Allocate(r.Context())
	if err != nil {
		writeServiceError(w, "allocate table", err)
		return
	}
	writeJSON(w, http.StatusCreated, tableResponse{ID: t.ID, TableNumber: t.TableNumber, CreatedAt: t.CreatedAt})
}

// Release removes a table by its internal ID.
func (h *TableHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	if err := h.tables.Release(r.Context(), id); err != nil {
		writeServiceError(w, "release table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dinedesk-lite/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// SaleLedger is the read/delete surface of the sale ledger.
// Satisfied by *service.SaleLedger.
type SaleLedger interface {
	List(ctx context.Context, from, to time.Time) ([]service.Sale, error)
	Get(ctx context.Context, id int32) (*service.Sale, error)
	Delete(ctx context.Context, id int32) error
}

// SaleHandler handles sale endpoints.
type SaleHandler struct {
	sales SaleLedger
	loc   *time.Location
}

// NewSaleHandler creates a new SaleHandler. Date filters are interpreted in loc.
func NewSaleHandler(sales SaleLedger, loc *time.Location) *SaleHandler {
	return &SaleHandler{sales: sales, loc: loc}
}

// RegisterRoutes registers sale endpoints on the given Chi router.
// Expected to be mounted at /sales
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

type saleResponse struct {
	ID          int32              `json:"id"`
	SaleNumber  int32              `json:"sale_number"`
	OrderNumber int32              `json:"order_number"`
	TableNumber int32              `json:"table_number"`
	Items       []lineItemResponse `json:"items"`
	TotalItems  int32              `json:"total_items"`
	TotalPrice  string             `json:"total_price"`
	SoldAt      time.Time          `json:"sold_at"`
}

func toSaleResponse(s service.Sale) saleResponse {
	return saleResponse{
		ID:          s.ID,
		SaleNumber:  s.SaleNumber,
		OrderNumber: s.OrderNumber,
		TableNumber: s.TableNumber,
		Items:       toLineItems(s.Items),
		TotalItems:  s.TotalItems,
		TotalPrice:  s.TotalPrice.StringFixed(2),
		SoldAt:      s.SoldAt,
	}
}

// List returns sales, newest first. start_date and end_date (YYYY-MM-DD,
// end inclusive) are optional; without them every sale is returned.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseOptionalDateRange(r, h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sales, err := h.sales.List(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, "list sales", err)
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toSaleResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single sale.
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return
	}

	sale, err := h.sales.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get sale", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleResponse(*sale))
}

// Delete removes one sale.
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return
	}

	if err := h.sales.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete sale", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

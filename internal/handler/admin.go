package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Purger removes every record of one kind and reports how many were removed.
type Purger interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// PurgeFunc adapts a function to Purger.
type PurgeFunc func(ctx context.Context) (int64, error)

// DeleteAll calls f(ctx).
func (f PurgeFunc) DeleteAll(ctx context.Context) (int64, error) {
	return f(ctx)
}

// OrderResetter empties the order ledger and restarts order numbering.
// Satisfied by *service.OrderLedger.
type OrderResetter interface {
	Purger
	ResetNumbering(ctx context.Context) (int64, error)
}

// SessionResetter drops every open order builder.
// Satisfied by *service.Sessions.
type SessionResetter interface {
	CloseAll()
}

// AdminHandler handles the PIN-gated maintenance endpoints.
type AdminHandler struct {
	orders   OrderResetter
	sales    Purger
	products Purger
	tables   Purger
	sessions SessionResetter
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(orders OrderResetter, sales, products, tables Purger, sessions SessionResetter) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		sales:    sales,
		products: products,
		tables:   tables,
		sessions: sessions,
	}
}

// RegisterRoutes registers maintenance endpoints on the given Chi router.
// Expected to be mounted at /admin behind the admin scope check.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders/reset-numbering", h.ResetOrderNumbering)
	r.Delete("/orders", h.purge("purge orders", h.orders, true))
	r.Delete("/sales", h.purge("purge sales", h.sales, false))
	r.Delete("/products", h.purge("purge products", h.products, true))
	r.Delete("/tables", h.purge("purge tables", h.tables, true))
}

type purgeResponse struct {
	Status  string `json:"status"`
	Deleted int64  `json:"deleted"`
}

// ResetOrderNumbering drops every open order and restarts order numbers at 1.
func (h *AdminHandler) ResetOrderNumbering(w http.ResponseWriter, r *http.Request) {
	n, err := h.orders.ResetNumbering(r.Context())
	if err != nil {
		writeServiceError(w, "reset order numbering", err)
		return
	}
	h.sessions.CloseAll()
	writeJSON(w, http.StatusOK, purgeResponse{Status: "ok", Deleted: n})
}

// purge builds a handler that empties one store. Builders are dropped when
// the purge can leave them with stale items or orders.
func (h *AdminHandler) purge(op string, p Purger, closeSessions bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := p.DeleteAll(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		if closeSessions {
			h.sessions.CloseAll()
		}
		writeJSON(w, http.StatusOK, purgeResponse{Status: "ok", Deleted: n})
	}
}

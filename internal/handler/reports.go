package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dinedesk-lite/api/internal/database"
	"github.com/dinedesk-lite/api/internal/enum"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// ReportStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportStore interface {
	GetSalesSummary(ctx context.Context, arg database.GetSalesSummaryParams) (database.GetSalesSummaryRow, error)
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) ([]database.GetDailySalesRow, error)
	GetMonthlySales(ctx context.Context, arg database.GetMonthlySalesParams) ([]database.GetMonthlySalesRow, error)
	GetYearlySales(ctx context.Context, tz string) ([]database.GetYearlySalesRow, error)
	GetItemSales(ctx context.Context, arg database.GetItemSalesParams) ([]database.GetItemSalesRow, error)
}

// ReportHandler handles report endpoints. Day boundaries are taken in loc.
type ReportHandler struct {
	store ReportStore
	loc   *time.Location
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store ReportStore, loc *time.Location) *ReportHandler {
	return &ReportHandler{store: store, loc: loc}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted at /reports
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/"+enum.ReportSummary, h.Summary)
	r.Get("/"+enum.ReportDaily, h.Daily)
	r.Get("/"+enum.ReportMonthly, h.Monthly)
	r.Get("/"+enum.ReportYearly, h.Yearly)
	r.Get("/"+enum.ReportItems, h.Items)
}

// --- Response types ---

type summaryResponse struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	SaleCount  int64  `json:"sale_count"`
	TotalItems int64  `json:"total_items"`
	Revenue    string `json:"revenue"`
}

type periodSalesResponse struct {
	Period     string `json:"period"`
	SaleCount  int64  `json:"sale_count"`
	TotalItems int64  `json:"total_items"`
	Revenue    string `json:"revenue"`
}

type itemSalesResponse struct {
	ItemName     string `json:"item_name"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

// --- Handlers ---

// Summary returns sale count, items sold and revenue for a date range.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	row, err := h.store.GetSalesSummary(r.Context(), database.GetSalesSummaryParams{StartAt: start, EndAt: end})
	if err != nil {
		log.Printf("ERROR: get sales summary: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reports unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		StartDate:  start.Format(dateLayout),
		EndDate:    end.AddDate(0, 0, -1).Format(dateLayout),
		SaleCount:  row.SaleCount,
		TotalItems: row.TotalItems,
		Revenue:    numericToString(row.Revenue),
	})
}

// Daily returns per-day totals for a date range.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{
		Tz:      h.loc.String(),
		StartAt: start,
		EndAt:   end,
	})
	if err != nil {
		log.Printf("ERROR: get daily sales: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reports unavailable"})
		return
	}

	resp := make([]periodSalesResponse, len(rows))
	for i, row := range rows {
		period := "N/A"
		if row.SaleDate.Valid {
			period = row.SaleDate.Time.Format(dateLayout)
		}
		resp[i] = periodSalesResponse{
			Period:     period,
			SaleCount:  row.SaleCount,
			TotalItems: row.TotalItems,
			Revenue:    numericToString(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Monthly returns per-month totals for a date range.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetMonthlySales(r.Context(), database.GetMonthlySalesParams{
		Tz:      h.loc.String(),
		StartAt: start,
		EndAt:   end,
	})
	if err != nil {
		log.Printf("ERROR: get monthly sales: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reports unavailable"})
		return
	}

	resp := make([]periodSalesResponse, len(rows))
	for i, row := range rows {
		period := "N/A"
		if row.SaleMonth.Valid {
			period = row.SaleMonth.Time.Format("2006-01")
		}
		resp[i] = periodSalesResponse{
			Period:     period,
			SaleCount:  row.SaleCount,
			TotalItems: row.TotalItems,
			Revenue:    numericToString(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Yearly returns all-time totals per year. Date filters are ignored.
func (h *ReportHandler) Yearly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.GetYearlySales(r.Context(), h.loc.String())
	if err != nil {
		log.Printf("ERROR: get yearly sales: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reports unavailable"})
		return
	}

	resp := make([]periodSalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = periodSalesResponse{
			Period:     fmt.Sprintf("%04d", row.SaleYear),
			SaleCount:  row.SaleCount,
			TotalItems: row.TotalItems,
			Revenue:    numericToString(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Items returns quantity sold and revenue per item name, best sellers first.
func (h *ReportHandler) Items(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, h.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetItemSales(r.Context(), database.GetItemSalesParams{StartAt: start, EndAt: end})
	if err != nil {
		log.Printf("ERROR: get item sales: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reports unavailable"})
		return
	}

	resp := make([]itemSalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = itemSalesResponse{
			ItemName:     row.ItemName,
			QuantitySold: row.QuantitySold,
			Revenue:      numericToString(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// parseDateRange reads start_date and end_date (YYYY-MM-DD) in loc and
// returns a half-open range [start, end). end_date is inclusive on the wire.
// Defaults to the last 30 days including today.
func parseDateRange(r *http.Request, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	start := today.AddDate(0, 0, -30)
	end := today.AddDate(0, 0, 1)

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		start = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		end = t.AddDate(0, 0, 1)
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must not be after end_date")
	}
	return start, end, nil
}

// parseOptionalDateRange is parseDateRange without defaults: a missing bound
// is returned as the zero time.
func parseOptionalDateRange(r *http.Request, loc *time.Location) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if q.Get("start_date") == "" && q.Get("end_date") == "" {
		return time.Time{}, time.Time{}, nil
	}

	var start, end time.Time
	if s := q.Get("start_date"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		start = t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		end = t.AddDate(0, 0, 1)
	}

	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must not be after end_date")
	}
	return start, end, nil
}

package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DashboardStore defines the database methods needed by the dashboard handler.
// Satisfied by *database.Queries; narrow interface for testability.
type DashboardStore interface {
	CountOrdersToday(ctx context.Context) (int64, error)
	SumPaidBillsToday(ctx context.Context) (pgtype.Numeric, error)
	CountPendingBills(ctx context.Context) (int64, error)
	CountActiveOrders(ctx context.Context) (int64, error)
}

// DashboardHandler serves the manager overview counters.
type DashboardHandler struct {
	store DashboardStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// RegisterRoutes registers the dashboard endpoint on the given Chi router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
}

type dashboardSummaryResponse struct {
	OrdersToday   int64  `json:"orders_today"`
	RevenueToday  string `json:"revenue_today"`
	PendingBills  int64  `json:"pending_bills"`
	OrdersInQueue int64  `json:"orders_in_queue"`
}

// Summary handles GET /dashboard/summary.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ordersToday, err := h.store.CountOrdersToday(ctx)
	if err != nil {
		h.writeDashboardError(w, "count orders today", err)
		return
	}

	revenueToday, err := h.store.SumPaidBillsToday(ctx)
	if err != nil {
		h.writeDashboardError(w, "sum paid bills today", err)
		return
	}

	pendingBills, err := h.store.CountPendingBills(ctx)
	if err != nil {
		h.writeDashboardError(w, "count pending bills", err)
		return
	}

	activeOrders, err := h.store.CountActiveOrders(ctx)
	if err != nil {
		h.writeDashboardError(w, "count active orders", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardSummaryResponse{
		OrdersToday:   ordersToday,
		RevenueToday:  numericToString(revenueToday),
		PendingBills:  pendingBills,
		OrdersInQueue: activeOrders,
	})
}

func (h *DashboardHandler) writeDashboardError(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

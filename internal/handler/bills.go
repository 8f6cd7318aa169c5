package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/service"
)

// BillingServicer defines the service methods needed by bill handlers.
// Satisfied by *service.BillingService; narrow interface for testability.
type BillingServicer interface {
	ConfirmCashPayment(ctx context.Context, billID int64) (database.Bill, error)
	ListPending(ctx context.Context) ([]database.BillRow, error)
	ListPaid(ctx context.Context) ([]database.BillRow, error)
}

// BillHandler handles bill settlement and history endpoints.
type BillHandler struct {
	svc BillingServicer
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(svc BillingServicer) *BillHandler {
	return &BillHandler{svc: svc}
}

// RegisterRoutes registers the public bill endpoints on the given Chi router.
func (h *BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListPaid)
}

// RegisterManagerRoutes registers the manager-only bill endpoints.
func (h *BillHandler) RegisterManagerRoutes(r chi.Router) {
	r.Get("/pending", h.ListPending)
	r.Post("/{id}/confirm", h.Confirm)
}

// --- Request / Response types ---

type billResponse struct {
	BillID        int64     `json:"bill_id"`
	CustomerName  string    `json:"customer_name"`
	OrderID       int64     `json:"order_id"`
	BillDate      time.Time `json:"bill_date"`
	PaymentMethod string    `json:"payment_method"`
	BillAmount    string    `json:"bill_amount"`
	EmployeeName  string    `json:"employee_name"`
	Status        string    `json:"status"`
}

type confirmResponse struct {
	BillID        int64  `json:"bill_id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	BillAmount    string `json:"bill_amount"`
}

func toBillResponse(b database.BillRow) billResponse {
	return billResponse{
		BillID:        b.BillID,
		CustomerName:  b.CustomerName,
		OrderID:       b.OrderID,
		BillDate:      b.BillDate,
		PaymentMethod: b.PaymentMethod,
		BillAmount:    numericToString(b.BillAmount),
		EmployeeName:  b.EmployeeName,
		Status:        b.Status,
	}
}

// --- Handlers ---

// ListPaid handles GET /bills.
func (h *BillHandler) ListPaid(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.ListPaid(r.Context())
	if err != nil {
		h.writeBillError(w, "list paid bills", err)
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPending handles GET /bills/pending.
func (h *BillHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.ListPending(r.Context())
	if err != nil {
		h.writeBillError(w, "list pending bills", err)
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Confirm handles POST /bills/{id}/confirm. Confirming an already-Paid bill
// succeeds without changing it.
func (h *BillHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bill ID"})
		return
	}

	bill, err := h.svc.ConfirmCashPayment(r.Context(), billID)
	if err != nil {
		if errors.Is(err, service.ErrBillNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "bill not found"})
			return
		}
		h.writeBillError(w, "confirm bill", err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		BillID:        bill.BillID,
		Status:        bill.Status,
		PaymentMethod: bill.PaymentMethod,
		BillAmount:    numericToString(bill.BillAmount),
	})
}

// --- Helpers ---

func (h *BillHandler) writeBillError(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR: %s: %v", op, err)
	if errors.Is(err, service.ErrStoreUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

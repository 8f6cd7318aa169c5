package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
	"github.com/delmon-pos/api/internal/service"
	"github.com/delmon-pos/api/internal/ws"
)

// KitchenServicer defines the service methods needed by kitchen handlers.
// Satisfied by *service.KitchenService; narrow interface for testability.
type KitchenServicer interface {
	Advance(ctx context.Context, orderID int64) (database.Order, error)
	ListActive(ctx context.Context, filter string) ([]database.KitchenOrderRow, error)
	ListCompleted(ctx context.Context) ([]database.KitchenOrderRow, error)
}

// KitchenHandler handles the kitchen board endpoints.
type KitchenHandler struct {
	svc KitchenServicer
	hub Broadcaster
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(svc KitchenServicer, hub Broadcaster) *KitchenHandler {
	return &KitchenHandler{svc: svc, hub: hub}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.ListActive)
	r.Get("/orders/completed", h.ListCompleted)
	r.Post("/orders/{id}/advance", h.Advance)
}

// --- Request / Response types ---

type kitchenOrderResponse struct {
	OrderID       int64     `json:"order_id"`
	OrderRef      uuid.UUID `json:"order_ref"`
	OrderDate     time.Time `json:"order_date"`
	CustomerName  string    `json:"customer_name"`
	KitchenStatus string    `json:"kitchen_status"`
	TotalPrice    string    `json:"total_price"`
	Items         string    `json:"items"`
}

type advanceResponse struct {
	OrderID       int64  `json:"order_id"`
	KitchenStatus string `json:"kitchen_status"`
}

// orderStatusEvent is pushed to kitchen displays when an order advances.
type orderStatusEvent struct {
	OrderID       int64  `json:"order_id"`
	KitchenStatus string `json:"kitchen_status"`
}

func toKitchenOrderResponse(k database.KitchenOrderRow) kitchenOrderResponse {
	status := enum.KitchenStatusReceived
	if k.KitchenStatus.Valid {
		status = k.KitchenStatus.String
	}
	return kitchenOrderResponse{
		OrderID:       k.OrderID,
		OrderRef:      k.OrderRef,
		OrderDate:     k.OrderDate,
		CustomerName:  k.CustomerName,
		KitchenStatus: status,
		TotalPrice:    numericToString(k.TotalPrice),
		Items:         k.Items,
	}
}

// --- Handlers ---

// ListActive handles GET /kitchen/orders?status=.
func (h *KitchenHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")

	orders, err := h.svc.ListActive(r.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		h.writeKitchenError(w, "list kitchen orders", err)
		return
	}

	resp := make([]kitchenOrderResponse, len(orders))
	for i, k := range orders {
		resp[i] = toKitchenOrderResponse(k)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCompleted handles GET /kitchen/orders/completed.
func (h *KitchenHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListCompleted(r.Context())
	if err != nil {
		h.writeKitchenError(w, "list completed orders", err)
		return
	}

	resp := make([]kitchenOrderResponse, len(orders))
	for i, k := range orders {
		resp[i] = toKitchenOrderResponse(k)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Advance handles POST /kitchen/orders/{id}/advance.
func (h *KitchenHandler) Advance(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.svc.Advance(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrOrderCompleted):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order is already completed"})
		case errors.Is(err, service.ErrOrderStatusRaced):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
		default:
			h.writeKitchenError(w, "advance order", err)
		}
		return
	}

	status := ""
	if order.KitchenStatus.Valid {
		status = order.KitchenStatus.String
	}

	h.broadcastStatusChanged(order.OrderID, status)

	writeJSON(w, http.StatusOK, advanceResponse{
		OrderID:       order.OrderID,
		KitchenStatus: status,
	})
}

// --- Helpers ---

// writeKitchenError distinguishes a lost database from everything else.
func (h *KitchenHandler) writeKitchenError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrStoreUnavailable) {
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
		return
	}
	log.Printf("ERROR: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func (h *KitchenHandler) broadcastStatusChanged(orderID int64, status string) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(orderStatusEvent{OrderID: orderID, KitchenStatus: status})
	if err != nil {
		log.Printf("ERROR: marshal status event: %v", err)
		return
	}
	h.hub.Broadcast(ws.Event{Type: "order_status_changed", Payload: payload})
}

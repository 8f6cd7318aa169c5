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

	"github.com/delmon-pos/api/internal/cart"
	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
	"github.com/delmon-pos/api/internal/service"
	"github.com/delmon-pos/api/internal/ws"
)

// Checkouter defines the service methods needed by the checkout handler.
// Satisfied by *service.CheckoutService; narrow interface for testability.
type Checkouter interface {
	Checkout(ctx context.Context, c *cart.Cart, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// CatalogStore supplies the menu snapshot the cart is assembled against.
type CatalogStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
}

// Broadcaster pushes order events to connected kitchen displays.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// CheckoutHandler handles the POS checkout endpoint.
type CheckoutHandler struct {
	svc     Checkouter
	catalog CatalogStore
	hub     Broadcaster
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc Checkouter, catalog CatalogStore, hub Broadcaster) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, catalog: catalog, hub: hub}
}

// RegisterRoutes registers the checkout endpoint on the given Chi router.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type checkoutRequest struct {
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	PaymentMethod string                `json:"payment_method"`
	EmployeeID    int64                 `json:"employee_id"`
	Items         []checkoutItemRequest `json:"items"`
}

type checkoutItemRequest struct {
	MenuID int64 `json:"menu_id"`
	Qty    int32 `json:"qty"`
}

type checkoutResponse struct {
	OrderID       int64     `json:"order_id"`
	OrderRef      uuid.UUID `json:"order_ref"`
	BillID        int64     `json:"bill_id"`
	CustomerID    int64     `json:"customer_id"`
	TotalPrice    string    `json:"total_price"`
	KitchenStatus string    `json:"kitchen_status"`
	BillStatus    string    `json:"bill_status"`
	PaymentMethod string    `json:"payment_method"`
	OrderDate     time.Time `json:"order_date"`
}

// orderCreatedEvent is pushed to kitchen displays on a successful checkout.
type orderCreatedEvent struct {
	OrderID       int64     `json:"order_id"`
	OrderRef      uuid.UUID `json:"order_ref"`
	CustomerName  string    `json:"customer_name"`
	TotalPrice    string    `json:"total_price"`
	KitchenStatus string    `json:"kitchen_status"`
}

// --- Handlers ---

// Checkout handles POST /checkout. The cart is rebuilt server-side from the
// current catalog snapshot, so only items that exist and are Available make
// it into the order.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	for i, item := range req.Items {
		if item.Qty <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "items[" + strconv.Itoa(i) + "]: qty must be > 0",
			})
			return
		}
	}

	// An empty request never touches the catalog or the database.
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": service.ErrEmptyCart.Error()})
		return
	}

	menuItems, err := h.catalog.ListMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: load catalog for checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	snapshot := catalogSnapshot(menuItems)

	c := cart.New()
	for _, item := range req.Items {
		c.AddItem(item.MenuID, snapshot)
		for n := int32(1); n < item.Qty; n++ {
			c.Increment(item.MenuID)
		}
	}

	result, err := h.svc.Checkout(r.Context(), c, service.CheckoutRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		EmployeeID:    req.EmployeeID,
	})
	if err != nil {
		if isCheckoutValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrStoreUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
			return
		}
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastOrderCreated(result)

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:       result.Order.OrderID,
		OrderRef:      result.Order.OrderRef,
		BillID:        result.Bill.BillID,
		CustomerID:    result.Customer.CustomerID,
		TotalPrice:    numericToString(result.Order.TotalPrice),
		KitchenStatus: enum.KitchenStatusReceived,
		BillStatus:    result.Bill.Status,
		PaymentMethod: result.Bill.PaymentMethod,
		OrderDate:     result.Order.OrderDate,
	})
}

// --- Helpers ---

func catalogSnapshot(items []database.MenuItem) map[int64]cart.CatalogItem {
	snapshot := make(map[int64]cart.CatalogItem, len(items))
	for _, m := range items {
		snapshot[m.MenuID] = cart.CatalogItem{
			MenuID:    m.MenuID,
			Name:      m.Name,
			UnitPrice: numericToDecimal(m.Price),
			Available: m.Status == enum.MenuStatusAvailable,
		}
	}
	return snapshot
}

// isCheckoutValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isCheckoutValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyCart) ||
		errors.Is(err, service.ErrMissingCustomerName) ||
		errors.Is(err, service.ErrMissingCustomerPhone) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrEmployeeNotFound)
}

func (h *CheckoutHandler) broadcastOrderCreated(result *service.CheckoutResult) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(orderCreatedEvent{
		OrderID:       result.Order.OrderID,
		OrderRef:      result.Order.OrderRef,
		CustomerName:  result.Customer.CustomerName,
		TotalPrice:    numericToString(result.Order.TotalPrice),
		KitchenStatus: enum.KitchenStatusReceived,
	})
	if err != nil {
		log.Printf("ERROR: marshal order event: %v", err)
		return
	}
	h.hub.Broadcast(ws.Event{Type: "order_created", Payload: payload})
}

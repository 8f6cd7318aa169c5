package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/delmon-pos/api/internal/cart"
	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
)

// Errors returned by the checkout service.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingCustomerName  = errors.New("customer name is required")
	ErrMissingCustomerPhone = errors.New("customer phone is required")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrEmployeeNotFound     = errors.New("employee not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CheckoutStore defines the DB methods needed to materialize a cart.
// Satisfied by *database.Queries (and its WithTx variant).
type CheckoutStore interface {
	GetEmployee(ctx context.Context, employeeID int64) (database.Employee, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error)
}

// NewCheckoutStore creates a CheckoutStore from a DBTX (pool or tx).
type NewCheckoutStore func(db database.DBTX) CheckoutStore

// CheckoutRequest is the validated input for a checkout.
type CheckoutRequest struct {
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	EmployeeID    int64
}

// CheckoutResult carries the persisted records back to the caller.
type CheckoutResult struct {
	Customer database.Customer
	Order    database.Order
	Items    []database.OrderItem
	Bill     database.Bill
}

// CheckoutService converts a cart into customer, order, order line and bill
// rows in one transaction.
type CheckoutService struct {
	pool     TxBeginner
	newStore NewCheckoutStore
}

func NewCheckoutService(pool TxBeginner, newStore NewCheckoutStore) *CheckoutService {
	return &CheckoutService{pool: pool, newStore: newStore}
}

// Checkout validates the request, then persists everything atomically.
// The cart is cleared only after the transaction is confirmed committed, so
// a failed checkout leaves the cart intact for a retry. The whole unit is
// retried once when the first attempt fails with a connectivity error.
func (s *CheckoutService) Checkout(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*CheckoutResult, error) {
	// All validation happens before any database write.
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrMissingCustomerName
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, ErrMissingCustomerPhone
	}
	if req.PaymentMethod != enum.PaymentMethodCard && req.PaymentMethod != enum.PaymentMethodCash {
		return nil, ErrInvalidPaymentMethod
	}

	result, err := retryOnce(ctx, func(ctx context.Context) (*CheckoutResult, error) {
		return s.checkoutTx(ctx, c, req)
	})
	if err != nil {
		return nil, err
	}

	c.Clear()
	return result, nil
}

// checkoutTx executes the full checkout in a single transaction.
func (s *CheckoutService) checkoutTx(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*CheckoutResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// The employee must resolve before the first insert.
	employee, err := store.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}

	customer, err := store.CreateCustomer(ctx, database.CreateCustomerParams{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Phone:        strings.TrimSpace(req.CustomerPhone),
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	total := c.Total()
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderRef:      uuid.New(),
		CustomerID:    customer.CustomerID,
		TotalPrice:    total.StringFixed(2),
		KitchenStatus: enum.KitchenStatusReceived,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, c.Len())
	for _, line := range c.Lines() {
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID: order.OrderID,
			MenuID:  line.MenuID,
			Qty:     line.Qty,
			Price:   line.UnitPrice.StringFixed(2),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	// Card settles immediately; cash waits for manager confirmation.
	billStatus := enum.BillStatusPending
	if req.PaymentMethod == enum.PaymentMethodCard {
		billStatus = enum.BillStatusPaid
	}

	bill, err := store.CreateBill(ctx, database.CreateBillParams{
		CustomerID:    customer.CustomerID,
		OrderID:       order.OrderID,
		PaymentMethod: req.PaymentMethod,
		BillAmount:    total.StringFixed(2),
		EmployeeID:    employee.EmployeeID,
		Status:        billStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CheckoutResult{
		Customer: customer,
		Order:    order,
		Items:    items,
		Bill:     bill,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
)

// Errors returned by the kitchen service.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderCompleted   = errors.New("order is already completed")
	ErrOrderStatusRaced = errors.New("order status changed, please retry")
	ErrInvalidStatus    = errors.New("invalid kitchen status")
)

// The completed board shows only the most recent orders.
const completedListLimit = 20

// nextKitchenStatus defines the only legal transitions. Strictly forward:
// Received -> Cooking -> Completed, no skipping, no reverse.
var nextKitchenStatus = map[string]string{
	enum.KitchenStatusReceived: enum.KitchenStatusCooking,
	enum.KitchenStatusCooking:  enum.KitchenStatusCompleted,
}

// KitchenStore defines the DB methods needed by the kitchen workflow.
// Satisfied by *database.Queries.
type KitchenStore interface {
	GetOrder(ctx context.Context, orderID int64) (database.Order, error)
	AdvanceKitchenStatus(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error)
	ListActiveKitchenOrders(ctx context.Context) ([]database.KitchenOrderRow, error)
	ListKitchenOrdersByStatus(ctx context.Context, status string) ([]database.KitchenOrderRow, error)
	ListCompletedKitchenOrders(ctx context.Context, limit int32) ([]database.KitchenOrderRow, error)
}

// Pinger probes the connection when a write fails, to tell "order not found"
// apart from "database gone".
type Pinger interface {
	Ping(ctx context.Context) error
}

// KitchenService drives orders through preparation states.
type KitchenService struct {
	store KitchenStore
	probe Pinger
}

func NewKitchenService(store KitchenStore, probe Pinger) *KitchenService {
	return &KitchenService{store: store, probe: probe}
}

// Advance moves the order to the next preparation state and returns the
// updated row. The update is conditioned on the current status, so two
// displays advancing the same order cannot skip a state between them.
func (s *KitchenService) Advance(ctx context.Context, orderID int64) (database.Order, error) {
	return retryOnce(ctx, func(ctx context.Context) (database.Order, error) {
		return s.advance(ctx, orderID)
	})
}

func (s *KitchenService) advance(ctx context.Context, orderID int64) (database.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, s.classify(ctx, fmt.Errorf("get order: %w", err))
	}

	current := enum.KitchenStatusReceived
	if order.KitchenStatus.Valid {
		current = order.KitchenStatus.String
	}

	next, ok := nextKitchenStatus[current]
	if !ok {
		return database.Order{}, ErrOrderCompleted
	}

	updated, err := s.store.AdvanceKitchenStatus(ctx, database.AdvanceKitchenStatusParams{
		OrderID:    orderID,
		NewStatus:  next,
		FromStatus: current,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Zero rows with an order we just read: someone advanced it
			// between our read and write.
			return database.Order{}, ErrOrderStatusRaced
		}
		return database.Order{}, s.classify(ctx, fmt.Errorf("advance status: %w", err))
	}
	return updated, nil
}

// ListActive returns orders not yet completed. filter may be "" or "All" for
// everything pending, or an exact status.
func (s *KitchenService) ListActive(ctx context.Context, filter string) ([]database.KitchenOrderRow, error) {
	return retryOnce(ctx, func(ctx context.Context) ([]database.KitchenOrderRow, error) {
		switch filter {
		case "", "All":
			return s.store.ListActiveKitchenOrders(ctx)
		case enum.KitchenStatusReceived, enum.KitchenStatusCooking, enum.KitchenStatusCompleted:
			return s.store.ListKitchenOrdersByStatus(ctx, filter)
		default:
			return nil, ErrInvalidStatus
		}
	})
}

// ListCompleted returns the most recently finished orders, newest first.
func (s *KitchenService) ListCompleted(ctx context.Context) ([]database.KitchenOrderRow, error) {
	return retryOnce(ctx, func(ctx context.Context) ([]database.KitchenOrderRow, error) {
		return s.store.ListCompletedKitchenOrders(ctx, completedListLimit)
	})
}

// classify runs the secondary probe: if the database no longer answers a
// trivial ping, the original failure was connectivity, not the statement.
func (s *KitchenService) classify(ctx context.Context, err error) error {
	if s.probe != nil {
		if pingErr := s.probe.Ping(ctx); pingErr != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return err
}

package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
)

// --- Mock implementations ---

// mockKitchenStore implements KitchenStore with configurable behavior.
type mockKitchenStore struct {
	getOrderFn      func(ctx context.Context, orderID int64) (database.Order, error)
	advanceFn       func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error)
	listActiveFn    func(ctx context.Context) ([]database.KitchenOrderRow, error)
	listByStatusFn  func(ctx context.Context, status string) ([]database.KitchenOrderRow, error)
	listCompletedFn func(ctx context.Context, limit int32) ([]database.KitchenOrderRow, error)
}

func (m *mockKitchenStore) GetOrder(ctx context.Context, orderID int64) (database.Order, error) {
	return m.getOrderFn(ctx, orderID)
}
func (m *mockKitchenStore) AdvanceKitchenStatus(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
	return m.advanceFn(ctx, arg)
}
func (m *mockKitchenStore) ListActiveKitchenOrders(ctx context.Context) ([]database.KitchenOrderRow, error) {
	return m.listActiveFn(ctx)
}
func (m *mockKitchenStore) ListKitchenOrdersByStatus(ctx context.Context, status string) ([]database.KitchenOrderRow, error) {
	return m.listByStatusFn(ctx, status)
}
func (m *mockKitchenStore) ListCompletedKitchenOrders(ctx context.Context, limit int32) ([]database.KitchenOrderRow, error) {
	return m.listCompletedFn(ctx, limit)
}

// mockPinger implements Pinger.
type mockPinger struct {
	err   error
	pings int
}

func (m *mockPinger) Ping(ctx context.Context) error {
	m.pings++
	return m.err
}

// --- Test helpers ---

func textStatus(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

// kitchenStoreWithOrder returns a store holding a single order whose advance
// succeeds when the expected transition is requested.
func kitchenStoreWithOrder(orderID int64, status pgtype.Text) *mockKitchenStore {
	return &mockKitchenStore{
		getOrderFn: func(ctx context.Context, id int64) (database.Order, error) {
			if id == orderID {
				return database.Order{OrderID: orderID, KitchenStatus: status}, nil
			}
			return database.Order{}, pgx.ErrNoRows
		},
		advanceFn: func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
			return database.Order{OrderID: arg.OrderID, KitchenStatus: textStatus(arg.NewStatus)}, nil
		},
	}
}

// =====================
// Advance tests
// =====================

func TestAdvance_ReceivedToCooking(t *testing.T) {
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusReceived))
	var captured database.AdvanceKitchenStatusParams
	store.advanceFn = func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
		captured = arg
		return database.Order{OrderID: arg.OrderID, KitchenStatus: textStatus(arg.NewStatus)}, nil
	}
	svc := NewKitchenService(store, &mockPinger{})

	order, err := svc.Advance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.NewStatus != enum.KitchenStatusCooking {
		t.Errorf("new status: got %v, want Cooking", captured.NewStatus)
	}
	if captured.FromStatus != enum.KitchenStatusReceived {
		t.Errorf("from status: got %v, want Received", captured.FromStatus)
	}
	if order.KitchenStatus.String != enum.KitchenStatusCooking {
		t.Errorf("result status: got %v, want Cooking", order.KitchenStatus.String)
	}
}

func TestAdvance_CookingToCompleted(t *testing.T) {
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusCooking))
	svc := NewKitchenService(store, &mockPinger{})

	order, err := svc.Advance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.KitchenStatus.String != enum.KitchenStatusCompleted {
		t.Errorf("result status: got %v, want Completed", order.KitchenStatus.String)
	}
}

func TestAdvance_NullStatusTreatedAsReceived(t *testing.T) {
	store := kitchenStoreWithOrder(1, pgtype.Text{})
	var captured database.AdvanceKitchenStatusParams
	store.advanceFn = func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
		captured = arg
		return database.Order{OrderID: arg.OrderID, KitchenStatus: textStatus(arg.NewStatus)}, nil
	}
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.Advance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.FromStatus != enum.KitchenStatusReceived {
		t.Errorf("NULL status should read as Received, got %v", captured.FromStatus)
	}
	if captured.NewStatus != enum.KitchenStatusCooking {
		t.Errorf("new status: got %v, want Cooking", captured.NewStatus)
	}
}

func TestAdvance_CompletedIsTerminal(t *testing.T) {
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusCompleted))
	advanceCalls := 0
	store.advanceFn = func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
		advanceCalls++
		return database.Order{}, nil
	}
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.Advance(context.Background(), 1)
	if !errors.Is(err, ErrOrderCompleted) {
		t.Fatalf("expected ErrOrderCompleted, got: %v", err)
	}
	if advanceCalls != 0 {
		t.Errorf("terminal orders must not be written: %d advance calls", advanceCalls)
	}
}

func TestAdvance_OrderNotFound(t *testing.T) {
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusReceived))
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.Advance(context.Background(), 999)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestAdvance_RacedUpdate(t *testing.T) {
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusReceived))
	store.advanceFn = func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
		// Another display advanced the order between our read and write.
		return database.Order{}, pgx.ErrNoRows
	}
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.Advance(context.Background(), 1)
	if !errors.Is(err, ErrOrderStatusRaced) {
		t.Fatalf("expected ErrOrderStatusRaced, got: %v", err)
	}
}

func TestAdvance_RetriedOnceOnConnectivityError(t *testing.T) {
	calls := 0
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusReceived))
	getOrderFn := store.getOrderFn
	store.getOrderFn = func(ctx context.Context, id int64) (database.Order, error) {
		calls++
		if calls == 1 {
			return database.Order{}, io.EOF
		}
		return getOrderFn(ctx, id)
	}
	svc := NewKitchenService(store, &mockPinger{})

	order, err := svc.Advance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 GetOrder calls, got %d", calls)
	}
	if order.KitchenStatus.String != enum.KitchenStatusCooking {
		t.Errorf("result status: got %v, want Cooking", order.KitchenStatus.String)
	}
}

func TestAdvance_UnreachableStoreClassified(t *testing.T) {
	store := kitchenStoreWithOrder(1, textStatus(enum.KitchenStatusReceived))
	store.advanceFn = func(ctx context.Context, arg database.AdvanceKitchenStatusParams) (database.Order, error) {
		return database.Order{}, errors.New("write failed")
	}
	probe := &mockPinger{err: errors.New("no route to host")}
	svc := NewKitchenService(store, probe)

	_, err := svc.Advance(context.Background(), 1)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable when the probe fails, got: %v", err)
	}
	if probe.pings == 0 {
		t.Error("expected the probe to be consulted")
	}
}

// =====================
// List tests
// =====================

func TestListActive_NoFilter(t *testing.T) {
	activeCalls := 0
	store := &mockKitchenStore{
		listActiveFn: func(ctx context.Context) ([]database.KitchenOrderRow, error) {
			activeCalls++
			return []database.KitchenOrderRow{{OrderID: 1}, {OrderID: 2}}, nil
		},
	}
	svc := NewKitchenService(store, &mockPinger{})

	orders, err := svc.ListActive(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}
	if activeCalls != 1 {
		t.Errorf("expected the active listing, got %d calls", activeCalls)
	}
}

func TestListActive_AllFilterSameAsEmpty(t *testing.T) {
	store := &mockKitchenStore{
		listActiveFn: func(ctx context.Context) ([]database.KitchenOrderRow, error) {
			return []database.KitchenOrderRow{{OrderID: 1}}, nil
		},
	}
	svc := NewKitchenService(store, &mockPinger{})

	orders, err := svc.ListActive(context.Background(), "All")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(orders))
	}
}

func TestListActive_StatusFilter(t *testing.T) {
	var requested string
	store := &mockKitchenStore{
		listByStatusFn: func(ctx context.Context, status string) ([]database.KitchenOrderRow, error) {
			requested = status
			return []database.KitchenOrderRow{{OrderID: 3}}, nil
		},
	}
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.ListActive(context.Background(), enum.KitchenStatusCooking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requested != enum.KitchenStatusCooking {
		t.Errorf("filter passed to store: got %v, want Cooking", requested)
	}
}

func TestListActive_UnknownFilterRejected(t *testing.T) {
	store := &mockKitchenStore{}
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.ListActive(context.Background(), "Burnt")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}
}

func TestListCompleted_UsesLimit(t *testing.T) {
	var requested int32
	store := &mockKitchenStore{
		listCompletedFn: func(ctx context.Context, limit int32) ([]database.KitchenOrderRow, error) {
			requested = limit
			return nil, nil
		},
	}
	svc := NewKitchenService(store, &mockPinger{})

	_, err := svc.ListCompleted(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requested != completedListLimit {
		t.Errorf("limit: got %d, want %d", requested, completedListLimit)
	}
}

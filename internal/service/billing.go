package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
)

// ErrBillNotFound is returned when a bill id does not resolve.
var ErrBillNotFound = errors.New("bill not found")

// BillingStore defines the DB methods needed by the billing workflow.
// Satisfied by *database.Queries.
type BillingStore interface {
	GetBill(ctx context.Context, billID int64) (database.Bill, error)
	MarkBillPaid(ctx context.Context, billID int64) (database.Bill, error)
	ListBillsByStatus(ctx context.Context, status string) ([]database.BillRow, error)
}

// BillingService settles cash bills and serves the bill views.
type BillingService struct {
	store BillingStore
}

func NewBillingService(store BillingStore) *BillingService {
	return &BillingService{store: store}
}

// ConfirmCashPayment moves a bill from Pending to Paid. Confirming a bill
// that is already Paid is a no-op returning the bill unchanged: the manager
// clicking twice should not see an error for a settled bill.
func (s *BillingService) ConfirmCashPayment(ctx context.Context, billID int64) (database.Bill, error) {
	return retryOnce(ctx, func(ctx context.Context) (database.Bill, error) {
		bill, err := s.store.MarkBillPaid(ctx, billID)
		if err == nil {
			return bill, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return database.Bill{}, fmt.Errorf("mark bill paid: %w", err)
		}

		// Zero rows: either the bill does not exist or it is already Paid.
		bill, err = s.store.GetBill(ctx, billID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.Bill{}, ErrBillNotFound
			}
			return database.Bill{}, fmt.Errorf("get bill: %w", err)
		}
		return bill, nil
	})
}

// ListPending returns unsettled cash bills, oldest first.
func (s *BillingService) ListPending(ctx context.Context) ([]database.BillRow, error) {
	return retryOnce(ctx, func(ctx context.Context) ([]database.BillRow, error) {
		return s.store.ListBillsByStatus(ctx, enum.BillStatusPending)
	})
}

// ListPaid returns settled bills, newest first.
func (s *BillingService) ListPaid(ctx context.Context) ([]database.BillRow, error) {
	return retryOnce(ctx, func(ctx context.Context) ([]database.BillRow, error) {
		return s.store.ListBillsByStatus(ctx, enum.BillStatusPaid)
	})
}

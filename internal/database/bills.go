package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createBill = `
INSERT INTO bill (customer_id, order_id, bill_date, payment_method, bill_amount, employee_id, status)
VALUES ($1, $2, now(), $3, $4, $5, $6)
RETURNING bill_id, customer_id, order_id, bill_date, payment_method, bill_amount, employee_id, status
`

type CreateBillParams struct {
	CustomerID    int64
	OrderID       int64
	PaymentMethod string
	BillAmount    string
	EmployeeID    int64
	Status        string
}

func (q *Queries) CreateBill(ctx context.Context, arg CreateBillParams) (Bill, error) {
	var b Bill
	err := q.db.QueryRow(ctx, createBill,
		arg.CustomerID, arg.OrderID, arg.PaymentMethod, arg.BillAmount, arg.EmployeeID, arg.Status).
		Scan(&b.BillID, &b.CustomerID, &b.OrderID, &b.BillDate, &b.PaymentMethod,
			&b.BillAmount, &b.EmployeeID, &b.Status)
	return b, err
}

const getBill = `
SELECT bill_id, customer_id, order_id, bill_date, payment_method, bill_amount, employee_id, status
FROM bill
WHERE bill_id = $1
`

func (q *Queries) GetBill(ctx context.Context, billID int64) (Bill, error) {
	var b Bill
	err := q.db.QueryRow(ctx, getBill, billID).
		Scan(&b.BillID, &b.CustomerID, &b.OrderID, &b.BillDate, &b.PaymentMethod,
			&b.BillAmount, &b.EmployeeID, &b.Status)
	return b, err
}

// MarkBillPaid settles a pending bill. Zero rows means the bill is missing
// or already paid; the caller distinguishes via GetBill.
const markBillPaid = `
UPDATE bill
SET status = 'Paid'
WHERE bill_id = $1 AND status = 'Pending'
RETURNING bill_id, customer_id, order_id, bill_date, payment_method, bill_amount, employee_id, status
`

func (q *Queries) MarkBillPaid(ctx context.Context, billID int64) (Bill, error) {
	var b Bill
	err := q.db.QueryRow(ctx, markBillPaid, billID).
		Scan(&b.BillID, &b.CustomerID, &b.OrderID, &b.BillDate, &b.PaymentMethod,
			&b.BillAmount, &b.EmployeeID, &b.Status)
	return b, err
}

const listBillsByStatus = `
SELECT b.bill_id, c.customer_name, b.order_id, b.bill_date, b.payment_method,
       b.bill_amount, e.name, b.status
FROM bill b
JOIN customer c ON b.customer_id = c.customer_id
JOIN employees e ON b.employee_id = e.employee_id
WHERE b.status = $1
ORDER BY
  CASE WHEN $1 = 'Pending' THEN b.bill_date END ASC,
  CASE WHEN $1 <> 'Pending' THEN b.bill_date END DESC
`

// ListBillsByStatus returns bills joined with customer and employee names.
// Pending bills come oldest first (approval queue), paid bills newest first.
func (q *Queries) ListBillsByStatus(ctx context.Context, status string) ([]BillRow, error) {
	rows, err := q.db.Query(ctx, listBillsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []BillRow
	for rows.Next() {
		var b BillRow
		if err := rows.Scan(&b.BillID, &b.CustomerName, &b.OrderID, &b.BillDate,
			&b.PaymentMethod, &b.BillAmount, &b.EmployeeName, &b.Status); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

const sumPaidBillsToday = `
SELECT COALESCE(sum(bill_amount), 0)
FROM bill
WHERE status = 'Paid' AND bill_date::date = current_date
`

func (q *Queries) SumPaidBillsToday(ctx context.Context) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sumPaidBillsToday).Scan(&total)
	return total, err
}

const countPendingBills = `
SELECT count(*) FROM bill WHERE status = 'Pending'
`

func (q *Queries) CountPendingBills(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countPendingBills).Scan(&n)
	return n, err
}

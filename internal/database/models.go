package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type MenuItem struct {
	MenuID   int64
	Name     string
	Image    pgtype.Text
	Price    pgtype.Numeric
	Category string
	Status   string
}

type Customer struct {
	CustomerID   int64
	CustomerName string
	Phone        string
}

type Order struct {
	OrderID       int64
	OrderRef      uuid.UUID
	CustomerID    int64
	TotalPrice    pgtype.Numeric
	OrderDate     time.Time
	KitchenStatus pgtype.Text
}

type OrderItem struct {
	OrderID int64
	MenuID  int64
	Qty     int32
	Price   pgtype.Numeric
}

type Bill struct {
	BillID        int64
	CustomerID    int64
	OrderID       int64
	BillDate      time.Time
	PaymentMethod string
	BillAmount    pgtype.Numeric
	EmployeeID    int64
	Status        string
}

type Employee struct {
	EmployeeID     int64
	Name           string
	Role           string
	Email          pgtype.Text
	HashedPassword pgtype.Text
	Pin            pgtype.Text
}

type Reservation struct {
	ResID        int64
	CustomerName string
	Phone        string
	Date         time.Time
	Time         string
	Guests       int32
}

// KitchenOrderRow is the joined shape the kitchen board renders: one order
// with its customer name and a pre-aggregated item summary.
type KitchenOrderRow struct {
	OrderID       int64
	OrderRef      uuid.UUID
	OrderDate     time.Time
	CustomerName  string
	KitchenStatus pgtype.Text
	TotalPrice    pgtype.Numeric
	Items         string
}

// BillRow is the joined shape the bill and manager views render.
type BillRow struct {
	BillID        int64
	CustomerName  string
	OrderID       int64
	BillDate      time.Time
	PaymentMethod string
	BillAmount    pgtype.Numeric
	EmployeeName  string
	Status        string
}

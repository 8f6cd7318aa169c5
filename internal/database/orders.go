package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const createCustomer = `
INSERT INTO customer (customer_name, phone)
VALUES ($1, $2)
RETURNING customer_id, customer_name, phone
`

type CreateCustomerParams struct {
	CustomerName string
	Phone        string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	var c Customer
	err := q.db.QueryRow(ctx, createCustomer, arg.CustomerName, arg.Phone).
		Scan(&c.CustomerID, &c.CustomerName, &c.Phone)
	return c, err
}

const createOrder = `
INSERT INTO orders (order_ref, customer_id, total_price, order_date, kitchen_status)
VALUES ($1, $2, $3, now(), $4)
RETURNING order_id, order_ref, customer_id, total_price, order_date, kitchen_status
`

type CreateOrderParams struct {
	OrderRef      uuid.UUID
	CustomerID    int64
	TotalPrice    string
	KitchenStatus string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	var o Order
	err := q.db.QueryRow(ctx, createOrder,
		arg.OrderRef, arg.CustomerID, arg.TotalPrice, arg.KitchenStatus).
		Scan(&o.OrderID, &o.OrderRef, &o.CustomerID, &o.TotalPrice, &o.OrderDate, &o.KitchenStatus)
	return o, err
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_id, qty, price)
VALUES ($1, $2, $3, $4)
RETURNING order_id, menu_id, qty, price
`

type CreateOrderItemParams struct {
	OrderID int64
	MenuID  int64
	Qty     int32
	Price   string
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	var oi OrderItem
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.MenuID, arg.Qty, arg.Price).
		Scan(&oi.OrderID, &oi.MenuID, &oi.Qty, &oi.Price)
	return oi, err
}

const getOrder = `
SELECT order_id, order_ref, customer_id, total_price, order_date, kitchen_status
FROM orders
WHERE order_id = $1
`

func (q *Queries) GetOrder(ctx context.Context, orderID int64) (Order, error) {
	var o Order
	err := q.db.QueryRow(ctx, getOrder, orderID).
		Scan(&o.OrderID, &o.OrderRef, &o.CustomerID, &o.TotalPrice, &o.OrderDate, &o.KitchenStatus)
	return o, err
}

const listOrderItems = `
SELECT order_id, menu_id, qty, price
FROM order_items
WHERE order_id = $1
ORDER BY menu_id
`

func (q *Queries) ListOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var oi OrderItem
		if err := rows.Scan(&oi.OrderID, &oi.MenuID, &oi.Qty, &oi.Price); err != nil {
			return nil, err
		}
		items = append(items, oi)
	}
	return items, rows.Err()
}

// A NULL kitchen_status reads as 'Received': rows written before the status
// column existed are still pending.
const listActiveKitchenOrders = `
SELECT o.order_id, o.order_ref, o.order_date, c.customer_name,
       o.kitchen_status, o.total_price,
       string_agg(m.name || ' (x' || oi.qty || ')', ', ' ORDER BY m.name) AS items
FROM orders o
JOIN customer c ON o.customer_id = c.customer_id
JOIN order_items oi ON o.order_id = oi.order_id
JOIN menu m ON oi.menu_id = m.menu_id
WHERE o.kitchen_status IS DISTINCT FROM 'Completed'
GROUP BY o.order_id, c.customer_name
ORDER BY o.order_date ASC
`

func (q *Queries) ListActiveKitchenOrders(ctx context.Context) ([]KitchenOrderRow, error) {
	rows, err := q.db.Query(ctx, listActiveKitchenOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKitchenOrderRows(rows)
}

const listKitchenOrdersByStatus = `
SELECT o.order_id, o.order_ref, o.order_date, c.customer_name,
       o.kitchen_status, o.total_price,
       string_agg(m.name || ' (x' || oi.qty || ')', ', ' ORDER BY m.name) AS items
FROM orders o
JOIN customer c ON o.customer_id = c.customer_id
JOIN order_items oi ON o.order_id = oi.order_id
JOIN menu m ON oi.menu_id = m.menu_id
WHERE COALESCE(o.kitchen_status, 'Received') = $1
GROUP BY o.order_id, c.customer_name
ORDER BY o.order_date ASC
`

func (q *Queries) ListKitchenOrdersByStatus(ctx context.Context, status string) ([]KitchenOrderRow, error) {
	rows, err := q.db.Query(ctx, listKitchenOrdersByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKitchenOrderRows(rows)
}

const listCompletedKitchenOrders = `
SELECT o.order_id, o.order_ref, o.order_date, c.customer_name,
       o.kitchen_status, o.total_price,
       string_agg(m.name || ' (x' || oi.qty || ')', ', ' ORDER BY m.name) AS items
FROM orders o
JOIN customer c ON o.customer_id = c.customer_id
JOIN order_items oi ON o.order_id = oi.order_id
JOIN menu m ON oi.menu_id = m.menu_id
WHERE o.kitchen_status = 'Completed'
GROUP BY o.order_id, c.customer_name
ORDER BY o.order_date DESC
LIMIT $1
`

func (q *Queries) ListCompletedKitchenOrders(ctx context.Context, limit int32) ([]KitchenOrderRow, error) {
	rows, err := q.db.Query(ctx, listCompletedKitchenOrders, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKitchenOrderRows(rows)
}

func scanKitchenOrderRows(rows pgx.Rows) ([]KitchenOrderRow, error) {
	var orders []KitchenOrderRow
	for rows.Next() {
		var k KitchenOrderRow
		if err := rows.Scan(&k.OrderID, &k.OrderRef, &k.OrderDate, &k.CustomerName,
			&k.KitchenStatus, &k.TotalPrice, &k.Items); err != nil {
			return nil, err
		}
		orders = append(orders, k)
	}
	return orders, rows.Err()
}

// AdvanceKitchenStatus moves the order forward only when its current status
// matches. A NULL status counts as 'Received'. Zero rows means either the
// order is missing or someone else advanced it first; the caller decides.
const advanceKitchenStatus = `
UPDATE orders
SET kitchen_status = $2
WHERE order_id = $1 AND COALESCE(kitchen_status, 'Received') = $3
RETURNING order_id, order_ref, customer_id, total_price, order_date, kitchen_status
`

type AdvanceKitchenStatusParams struct {
	OrderID    int64
	NewStatus  string
	FromStatus string
}

func (q *Queries) AdvanceKitchenStatus(ctx context.Context, arg AdvanceKitchenStatusParams) (Order, error) {
	var o Order
	err := q.db.QueryRow(ctx, advanceKitchenStatus,
		arg.OrderID, arg.NewStatus, arg.FromStatus).
		Scan(&o.OrderID, &o.OrderRef, &o.CustomerID, &o.TotalPrice, &o.OrderDate, &o.KitchenStatus)
	return o, err
}

const countOrdersToday = `
SELECT count(*) FROM orders WHERE order_date::date = current_date
`

func (q *Queries) CountOrdersToday(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrdersToday).Scan(&n)
	return n, err
}

const countActiveOrders = `
SELECT count(*) FROM orders WHERE kitchen_status IS DISTINCT FROM 'Completed'
`

func (q *Queries) CountActiveOrders(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countActiveOrders).Scan(&n)
	return n, err
}

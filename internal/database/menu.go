package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const listMenuItems = `
SELECT menu_id, name, image, price, category, status
FROM menu
ORDER BY category, name
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.MenuID, &m.Name, &m.Image, &m.Price, &m.Category, &m.Status); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT menu_id, name, image, price, category, status
FROM menu
WHERE menu_id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, menuID int64) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, getMenuItem, menuID).
		Scan(&m.MenuID, &m.Name, &m.Image, &m.Price, &m.Category, &m.Status)
	return m, err
}

const createMenuItem = `
INSERT INTO menu (name, image, price, category, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING menu_id, name, image, price, category, status
`

type CreateMenuItemParams struct {
	Name     string
	Image    string
	Price    string
	Category string
	Status   string
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, createMenuItem,
		arg.Name, arg.Image, arg.Price, arg.Category, arg.Status).
		Scan(&m.MenuID, &m.Name, &m.Image, &m.Price, &m.Category, &m.Status)
	return m, err
}

const updateMenuItem = `
UPDATE menu
SET name = $2, image = $3, price = $4, category = $5, status = $6
WHERE menu_id = $1
RETURNING menu_id, name, image, price, category, status
`

type UpdateMenuItemParams struct {
	MenuID   int64
	Name     string
	Image    string
	Price    string
	Category string
	Status   string
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, updateMenuItem,
		arg.MenuID, arg.Name, arg.Image, arg.Price, arg.Category, arg.Status).
		Scan(&m.MenuID, &m.Name, &m.Image, &m.Price, &m.Category, &m.Status)
	return m, err
}

const deleteMenuItem = `
DELETE FROM menu WHERE menu_id = $1
`

func (q *Queries) DeleteMenuItem(ctx context.Context, menuID int64) error {
	tag, err := q.db.Exec(ctx, deleteMenuItem, menuID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const listMenuCategories = `
SELECT DISTINCT category FROM menu ORDER BY category
`

func (q *Queries) ListMenuCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listMenuCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Package cart holds the session-local selection a cashier builds before
// checkout. A cart belongs to exactly one POS session and is never shared,
// so there is no locking here.
package cart

import "github.com/shopspring/decimal"

// Line is one selected menu item. Name and unit price are captured when the
// item is first added and are not re-fetched at checkout: the customer pays
// what the board showed them.
type Line struct {
	MenuID    int64
	Name      string
	UnitPrice decimal.Decimal
	Qty       int32
}

// CatalogItem is the slice of the menu the cart needs to admit an item.
type CatalogItem struct {
	MenuID    int64
	Name      string
	UnitPrice decimal.Decimal
	Available bool
}

// Cart maps menu ids to lines, so an item can appear at most once.
type Cart struct {
	lines map[int64]*Line
}

func New() *Cart {
	return &Cart{lines: make(map[int64]*Line)}
}

// AddItem puts one unit of the catalog item into the cart, or bumps the
// quantity if it is already there. Unknown and unavailable items are
// silently ignored.
func (c *Cart) AddItem(menuID int64, catalog map[int64]CatalogItem) {
	item, ok := catalog[menuID]
	if !ok || !item.Available {
		return
	}
	if line, ok := c.lines[menuID]; ok {
		line.Qty++
		return
	}
	c.lines[menuID] = &Line{
		MenuID:    item.MenuID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Qty:       1,
	}
}

// Increment bumps the quantity of an existing line; no-op if absent.
func (c *Cart) Increment(menuID int64) {
	if line, ok := c.lines[menuID]; ok {
		line.Qty++
	}
}

// Decrement lowers the quantity of an existing line. A line never reaches
// quantity zero: decrementing from 1 removes it entirely.
func (c *Cart) Decrement(menuID int64) {
	line, ok := c.lines[menuID]
	if !ok {
		return
	}
	if line.Qty <= 1 {
		delete(c.lines, menuID)
		return
	}
	line.Qty--
}

// Total is the sum of qty x unit price across all lines; zero for an empty cart.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt32(line.Qty)))
	}
	return total
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear resets the cart. Called only after a checkout is confirmed persisted.
func (c *Cart) Clear() {
	c.lines = make(map[int64]*Line)
}

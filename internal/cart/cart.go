// Package cart holds the shopper's cart lines keyed by product id.
package cart

import (
	"github.com/shopspring/decimal"

	"shopease-service/internal/entity"
)

// Cart keeps one line per product id, in the order products were first added.
// It is not safe for concurrent use; the owning session serializes access.
type Cart struct {
	lines map[int]*entity.CartLine
	order []int
}

func New() *Cart {
	return &Cart{lines: make(map[int]*entity.CartLine)}
}

// AddItem increments the line for product.ID or inserts it with quantity 1.
// Stock is not checked.
func (c *Cart) AddItem(product entity.Product) {
	if line, ok := c.lines[product.ID]; ok {
		line.Quantity++
		return
	}
	c.lines[product.ID] = &entity.CartLine{Product: product, Quantity: 1}
	c.order = append(c.order, product.ID)
}

// RemoveItem deletes the line for productID if present.
func (c *Cart) RemoveItem(productID int) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// SetQuantity overwrites a line's quantity; quantity <= 0 removes the line.
// Unknown product ids are ignored.
func (c *Cart) SetQuantity(productID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if line, ok := c.lines[productID]; ok {
		line.Quantity = quantity
	}
}

// Subtotal sums discounted line totals without intermediate rounding.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = make(map[int]*entity.CartLine)
	c.order = nil
}

// Line returns a copy of the line for productID.
func (c *Cart) Line(productID int) (entity.CartLine, bool) {
	line, ok := c.lines[productID]
	if !ok {
		return entity.CartLine{}, false
	}
	return *line, true
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []entity.CartLine {
	out := make([]entity.CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

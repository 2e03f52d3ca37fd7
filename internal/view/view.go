// Package view is the top-level screen state machine:
//
//	shop -> checkout -> payment -> orderComplete
//
// with back edges checkout -> shop, payment -> checkout and
// orderComplete -> shop. It also tracks which overlay panel is open.
package view

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shopease-service/internal/entity"
	"shopease-service/internal/pricing"
)

var ErrInvalidTransition = errors.New("invalid view transition")

var edges = map[entity.ViewState][]entity.ViewState{
	entity.ViewShop:          {entity.ViewShop, entity.ViewCheckout},
	entity.ViewCheckout:      {entity.ViewShop, entity.ViewPayment},
	entity.ViewPayment:       {entity.ViewCheckout, entity.ViewOrderComplete},
	entity.ViewOrderComplete: {entity.ViewShop},
}

type Controller struct {
	state    entity.ViewState
	overlay  entity.Overlay
	checkout *entity.CheckoutContext
	order    *entity.Order
}

func NewController() *Controller {
	return &Controller{state: entity.ViewShop, overlay: entity.OverlayNone}
}

func (c *Controller) State() entity.ViewState {
	return c.state
}

func (c *Controller) Is(s entity.ViewState) bool {
	return c.state == s
}

// Checkout is the context stored by GoToPayment, nil before that.
func (c *Controller) Checkout() *entity.CheckoutContext {
	return c.checkout
}

// Order is the order stored by GoToOrderComplete, nil before that.
func (c *Controller) Order() *entity.Order {
	return c.order
}

// CanGo reports whether the current state has an edge to next.
func (c *Controller) CanGo(next entity.ViewState) bool {
	for _, s := range edges[c.state] {
		if s == next {
			return true
		}
	}
	return false
}

func (c *Controller) move(next entity.ViewState) error {
	if !c.CanGo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, next)
	}
	c.state = next
	c.overlay = entity.OverlayNone
	return nil
}

// GoToShop returns to the product grid. Callers also reset the search query.
func (c *Controller) GoToShop() error {
	return c.move(entity.ViewShop)
}

// GoToCheckout does not require a non-empty cart.
func (c *Controller) GoToCheckout() error {
	return c.move(entity.ViewCheckout)
}

// GoToPayment stores the checkout context with tax at 10% of subtotal,
// rounded to cents, and no discount.
func (c *Controller) GoToPayment(draft entity.CheckoutDraft, subtotal decimal.Decimal) error {
	if err := c.move(entity.ViewPayment); err != nil {
		return err
	}
	c.checkout = &entity.CheckoutContext{
		Draft:    draft,
		Subtotal: subtotal,
		Tax:      pricing.Tax(subtotal),
		Discount: decimal.Zero,
	}
	return nil
}

// GoToOrderComplete stores the order. Clearing the cart and writing history
// is up to the caller.
func (c *Controller) GoToOrderComplete(order entity.Order) error {
	if err := c.move(entity.ViewOrderComplete); err != nil {
		return err
	}
	c.order = &order
	return nil
}

func (c *Controller) Overlay() entity.Overlay {
	return c.overlay
}

// ToggleCart opens the cart (closing the profile) or closes it.
func (c *Controller) ToggleCart() {
	c.toggle(entity.OverlayCart)
}

// ToggleProfile opens the profile (closing the cart) or closes it.
func (c *Controller) ToggleProfile() {
	c.toggle(entity.OverlayProfile)
}

func (c *Controller) toggle(o entity.Overlay) {
	if c.overlay == o {
		c.overlay = entity.OverlayNone
		return
	}
	c.overlay = o
}

func (c *Controller) CloseOverlay() {
	c.overlay = entity.OverlayNone
}

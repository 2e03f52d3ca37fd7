package entity

import "github.com/shopspring/decimal"

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingFree     ShippingMethod = "free"
)

type ShippingOption struct {
	Method  ShippingMethod  `json:"method"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Days    string          `json:"days"`
	Minimum decimal.Decimal `json:"minimum"` // subtotal needed to unlock the option, zero when none
}

type ShippingDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// CheckoutDraft is the output of a valid checkout form submission.
type CheckoutDraft struct {
	ShippingDetails ShippingDetails `json:"shipping_details"`
	ShippingMethod  ShippingMethod  `json:"shipping_method"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"` // subtotal + shipping
}

// CheckoutContext is what the payment step works from.
type CheckoutContext struct {
	Draft    CheckoutDraft   `json:"draft"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
}

// Total is subtotal + shipping + tax - discount.
func (c CheckoutContext) Total() decimal.Decimal {
	return c.Subtotal.Add(c.Draft.ShippingCost).Add(c.Tax).Sub(c.Discount)
}

// Package pricing holds the storefront's fixed price rules: tax and shipping.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"shopease-service/internal/entity"
)

var (
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrShippingUnavailable   = errors.New("shipping method not available for this order")
)

var (
	TaxRate = decimal.RequireFromString("0.10")

	FreeShippingMinimum = decimal.NewFromInt(100)
)

var shippingOptions = []entity.ShippingOption{
	{Method: entity.ShippingStandard, Name: "Standard Shipping", Price: decimal.RequireFromString("5.99"), Days: "3-5"},
	{Method: entity.ShippingExpress, Name: "Express Shipping", Price: decimal.RequireFromString("12.99"), Days: "1-2"},
	{Method: entity.ShippingFree, Name: "Free Shipping", Price: decimal.Zero, Days: "5-7", Minimum: FreeShippingMinimum},
}

// DefaultShipping is pre-selected on a fresh checkout form.
const DefaultShipping = entity.ShippingStandard

// Tax is subtotal * TaxRate rounded to cents.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// ShippingOptions lists the methods selectable for subtotal. Free shipping
// only appears once the subtotal reaches FreeShippingMinimum.
func ShippingOptions(subtotal decimal.Decimal) []entity.ShippingOption {
	out := make([]entity.ShippingOption, 0, len(shippingOptions))
	for _, o := range shippingOptions {
		if eligible(o, subtotal) {
			out = append(out, o)
		}
	}
	return out
}

// Shipping returns the option for method if it is selectable for subtotal.
func Shipping(method entity.ShippingMethod, subtotal decimal.Decimal) (entity.ShippingOption, error) {
	for _, o := range shippingOptions {
		if o.Method != method {
			continue
		}
		if !eligible(o, subtotal) {
			return entity.ShippingOption{}, ErrShippingUnavailable
		}
		return o, nil
	}
	return entity.ShippingOption{}, ErrUnknownShippingMethod
}

func eligible(o entity.ShippingOption, subtotal decimal.Decimal) bool {
	return o.Minimum.IsZero() || subtotal.GreaterThanOrEqual(o.Minimum)
}

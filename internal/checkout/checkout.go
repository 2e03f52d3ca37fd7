// Package checkout owns the shipping form: validation, shipping method
// selection and the draft handed to the payment step.
package checkout

import (
	"github.com/shopspring/decimal"

	"shopease-service/internal/entity"
	"shopease-service/internal/pricing"
	"shopease-service/internal/validation"
)

const DefaultCountry = "Indonesia"

type Quote struct {
	Options      []entity.ShippingOption
	Selected     entity.ShippingMethod
	ShippingCost decimal.Decimal
	Subtotal     decimal.Decimal
	TotalCost    decimal.Decimal
}

// Form is the per-session checkout form state.
type Form struct {
	method  entity.ShippingMethod
	details entity.ShippingDetails
	errors  validation.FieldErrors
}

func NewForm() *Form {
	return &Form{
		method:  pricing.DefaultShipping,
		details: entity.ShippingDetails{Country: DefaultCountry},
		errors:  validation.FieldErrors{},
	}
}

// SelectShipping picks a method; methods not offered for subtotal are
// rejected and the previous selection stays.
func (f *Form) SelectShipping(method entity.ShippingMethod, subtotal decimal.Decimal) error {
	if _, err := pricing.Shipping(method, subtotal); err != nil {
		return err
	}
	f.method = method
	return nil
}

// Reprice drops a selection that subtotal no longer unlocks, such as free
// shipping after the cart shrank under the minimum.
func (f *Form) Reprice(subtotal decimal.Decimal) {
	if _, err := pricing.Shipping(f.method, subtotal); err != nil {
		f.method = pricing.DefaultShipping
	}
}

// Quote prices the current selection for subtotal. A selection that is not
// offered for subtotal is priced as the default without being changed.
func (f *Form) Quote(subtotal decimal.Decimal) Quote {
	method := f.method
	opt, err := pricing.Shipping(method, subtotal)
	if err != nil {
		method = pricing.DefaultShipping
		opt, _ = pricing.Shipping(method, subtotal)
	}
	return Quote{
		Options:      pricing.ShippingOptions(subtotal),
		Selected:     method,
		ShippingCost: opt.Price,
		Subtotal:     subtotal,
		TotalCost:    subtotal.Add(opt.Price),
	}
}

// Submit validates details and, when they pass, returns the draft for the
// payment step. On failure it returns validation.FieldErrors and no draft.
func (f *Form) Submit(details entity.ShippingDetails, subtotal decimal.Decimal) (entity.CheckoutDraft, error) {
	if details.Country == "" {
		details.Country = DefaultCountry
	}
	f.details = details

	errs := Validate(details)
	f.errors = errs
	if err := errs.Err(); err != nil {
		return entity.CheckoutDraft{}, err
	}

	q := f.Quote(subtotal)
	return entity.CheckoutDraft{
		ShippingDetails: details,
		ShippingMethod:  q.Selected,
		ShippingCost:    q.ShippingCost,
		TotalCost:       q.TotalCost,
	}, nil
}

func (f *Form) Details() entity.ShippingDetails {
	return f.details
}

func (f *Form) Errors() validation.FieldErrors {
	out := make(validation.FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

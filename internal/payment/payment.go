// Package payment runs the payment step: per-method form validation and the
// idle -> processing -> success|failure state machine around a Gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopease-service/internal/entity"
	"shopease-service/internal/validation"
)

var (
	ErrPaymentInProgress = errors.New("payment is being processed")
	ErrUnknownMethod     = errors.New("unknown payment method")
	ErrPaymentFailed     = errors.New("payment failed")
)

const GeneralErrorMessage = "There was an error processing your payment. Please try again."

type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

var Methods = []entity.PaymentMethod{
	entity.PaymentCreditCard,
	entity.PaymentBankTransfer,
	entity.PaymentVirtualAccount,
	entity.PaymentEWallet,
}

// Orchestrator holds the payment form state of one session. Begin, Complete
// and Fail must be called by the session under its lock; Process runs the
// gateway call and may run without it.
type Orchestrator struct {
	gateway Gateway
	now     func() time.Time

	state   State
	method  entity.PaymentMethod
	errors  validation.FieldErrors
	general string
}

func NewOrchestrator(gateway Gateway) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		now:     time.Now,
		state:   StateIdle,
		method:  entity.PaymentCreditCard,
		errors:  validation.FieldErrors{},
	}
}

func (o *Orchestrator) State() State                 { return o.state }
func (o *Orchestrator) Method() entity.PaymentMethod { return o.method }
func (o *Orchestrator) Processing() bool             { return o.state == StateProcessing }
func (o *Orchestrator) GeneralError() string         { return o.general }

func (o *Orchestrator) Errors() validation.FieldErrors {
	out := make(validation.FieldErrors, len(o.errors))
	for k, v := range o.errors {
		out[k] = v
	}
	return out
}

// Reset returns to idle with the default method, used when the payment view
// is entered again.
func (o *Orchestrator) Reset() {
	o.state = StateIdle
	o.method = entity.PaymentCreditCard
	o.errors = validation.FieldErrors{}
	o.general = ""
}

// SelectMethod switches the active tab. Errors of the previous method are
// dropped.
func (o *Orchestrator) SelectMethod(m entity.PaymentMethod) error {
	if o.Processing() {
		return ErrPaymentInProgress
	}
	if !knownMethod(m) {
		return fmt.Errorf("%w: %s", ErrUnknownMethod, m)
	}
	o.method = m
	o.errors = validation.FieldErrors{}
	o.general = ""
	return nil
}

// Begin validates details for the active method and moves to processing.
// A second Begin while processing returns ErrPaymentInProgress.
func (o *Orchestrator) Begin(details entity.PaymentDetails, checkout entity.CheckoutContext, items []entity.CartLine) (Request, error) {
	if o.Processing() {
		return Request{}, ErrPaymentInProgress
	}
	errs := Validate(o.method, details, o.now())
	o.errors = errs
	o.general = ""
	if err := errs.Err(); err != nil {
		return Request{}, err
	}

	o.state = StateProcessing
	return Request{
		Method:   o.method,
		Details:  details,
		Checkout: checkout,
		Items:    append([]entity.CartLine(nil), items...),
	}, nil
}

// Process submits req to the gateway. A gateway error or panic is reported
// as ErrPaymentFailed.
func (o *Orchestrator) Process(ctx context.Context, req Request) (order *entity.Order, err error) {
	defer func() {
		if r := recover(); r != nil {
			order, err = nil, fmt.Errorf("%w: %v", ErrPaymentFailed, r)
		}
	}()

	order, err = o.gateway.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: gateway returned no order", ErrPaymentFailed)
	}
	return order, nil
}

func (o *Orchestrator) Complete() {
	o.state = StateSuccess
	o.general = ""
}

// Fail leaves processing with the general error banner set; the shopper may
// submit again.
func (o *Orchestrator) Fail() {
	o.state = StateFailure
	o.general = GeneralErrorMessage
}

func knownMethod(m entity.PaymentMethod) bool {
	for _, k := range Methods {
		if k == m {
			return true
		}
	}
	return false
}

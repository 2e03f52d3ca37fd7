package payment

import (
	"context"
	"strings"
	"time"

	"shopease-service/internal/entity"
	"shopease-service/internal/orderid"
)

// Request is everything a gateway needs to charge one order.
type Request struct {
	Method   entity.PaymentMethod
	Details  entity.PaymentDetails
	Checkout entity.CheckoutContext
	Items    []entity.CartLine
}

// Gateway charges a payment and returns the resulting order.
type Gateway interface {
	Submit(ctx context.Context, req Request) (*entity.Order, error)
}

const DefaultDelay = 2 * time.Second

// SimulatedGateway waits Delay and then always succeeds. The wait ignores
// context cancellation: once started it always resolves.
type SimulatedGateway struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, Now: time.Now}
}

func (g *SimulatedGateway) Submit(_ context.Context, req Request) (*entity.Order, error) {
	time.Sleep(g.Delay)
	now := g.Now()

	return &entity.Order{
		ID:          orderid.Issue(orderid.PaymentDigits),
		Items:       append([]entity.CartLine(nil), req.Items...),
		Payment:     Snapshot(req.Method, req.Details, now),
		Checkout:    req.Checkout,
		TotalAmount: req.Checkout.Total(),
		CreatedAt:   now,
	}, nil
}

// Snapshot keeps the method and a masked reference; full card, account and
// CVV values are never copied into the order.
func Snapshot(method entity.PaymentMethod, d entity.PaymentDetails, at time.Time) entity.PaymentInfo {
	info := entity.PaymentInfo{Method: method, Timestamp: at}
	switch method {
	case entity.PaymentCreditCard:
		info.Reference = mask(strings.ReplaceAll(d.CardNumber, " ", ""))
		info.Holder = d.CardHolder
	case entity.PaymentBankTransfer:
		info.Reference = mask(d.AccountNumber)
		info.Holder = d.AccountHolder
		info.Provider = d.BankName
	case entity.PaymentVirtualAccount:
		info.Reference = mask(d.VANumber)
	case entity.PaymentEWallet:
		info.Reference = mask(d.EWalletNumber)
		info.Provider = d.EWalletType
	}
	return info
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

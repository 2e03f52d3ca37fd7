package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit-card"
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentVirtualAccount PaymentMethod = "virtual-account"
	PaymentEWallet        PaymentMethod = "e-wallet"
)

// PaymentDetails holds the form fields of every payment tab; only the
// fields of the active method are read.
type PaymentDetails struct {
	CardNumber    string `json:"card_number"`
	CardHolder    string `json:"card_holder"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
	VANumber      string `json:"va_number"`
	EWalletType   string `json:"ewallet_type"`
	EWalletNumber string `json:"ewallet_number"`
}

type PaymentInfo struct {
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference"` // masked account, card or wallet number
	Holder    string        `json:"holder,omitempty"`
	Provider  string        `json:"provider,omitempty"` // bank name or wallet type
	Timestamp time.Time     `json:"timestamp"`
}

type Order struct {
	ID          string          `json:"id"`
	Items       []CartLine      `json:"items"`
	Payment     PaymentInfo     `json:"payment"`
	Checkout    CheckoutContext `json:"checkout"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

const OrderStatusProcessing = "Processing"

// OrderSummary is an entry of the profile's order history.
type OrderSummary struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"` // YYYY-MM-DD
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"shopease-service/internal/entity"
	"shopease-service/internal/validation"
)

var (
	expiryPattern  = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvPattern     = regexp.MustCompile(`^\d{3,4}$`)
	accountPattern = regexp.MustCompile(`^\d{10,16}$`)
	walletPattern  = regexp.MustCompile(`^\d{10,13}$`)
	cardPattern    = regexp.MustCompile(`^\d{16,}$`)
)

const minCardDigits = 16

// Validate checks only the fields of method. now decides whether a card
// expiry is in the past.
func Validate(method entity.PaymentMethod, d entity.PaymentDetails, now time.Time) validation.FieldErrors {
	errs := validation.FieldErrors{}
	switch method {
	case entity.PaymentCreditCard:
		if !cardPattern.MatchString(strings.ReplaceAll(strings.TrimSpace(d.CardNumber), " ", "")) {
			errs.Add("card_number", "Please enter a valid card number")
		}
		if validation.Blank(d.CardHolder) {
			errs.Add("card_holder", "Please enter cardholder name")
		}
		if msg := checkExpiry(d.ExpiryDate, now); msg != "" {
			errs.Add("expiry_date", msg)
		}
		if !cvvPattern.MatchString(d.CVV) {
			errs.Add("cvv", "Enter valid CVV")
		}
	case entity.PaymentBankTransfer:
		if validation.Blank(d.BankName) {
			errs.Add("bank_name", "Please select a bank")
		}
		if !accountPattern.MatchString(strings.TrimSpace(d.AccountNumber)) {
			errs.Add("account_number", "Please enter a valid account number")
		}
		if validation.Blank(d.AccountHolder) {
			errs.Add("account_holder", "Please enter account holder name")
		}
	case entity.PaymentVirtualAccount:
		if !accountPattern.MatchString(d.VANumber) {
			errs.Add("va_number", "Please enter a valid virtual account number")
		}
	case entity.PaymentEWallet:
		if !walletPattern.MatchString(d.EWalletNumber) {
			errs.Add("ewallet_number", "Please enter a valid phone number")
		}
	default:
		errs.Add("method", "Unsupported payment method")
	}
	return errs
}

// checkExpiry accepts MM/YY when the month is after the current one.
func checkExpiry(expiry string, now time.Time) string {
	m := expiryPattern.FindStringSubmatch(expiry)
	if m == nil {
		return "Please enter valid expiry date (MM/YY)"
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return "Please enter valid expiry date (MM/YY)"
	}
	start := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	if start.Before(now) {
		return "Card has expired"
	}
	return ""
}

// FormatCardNumber groups the digits of s in blocks of four.
func FormatCardNumber(s string) string {
	digits := strings.ReplaceAll(s, " ", "")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry turns typed digits into MM/YY.
func FormatExpiry(s string) string {
	digits := validation.Digits(s)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) > 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

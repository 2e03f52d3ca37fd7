// Package orderid issues the human-readable order numbers shown to shoppers.
package orderid

import (
	"fmt"
	"math/rand"
)

const Prefix = "ORD-"

// Widths of the two order number schemes.
const (
	PaymentDigits = 6
	HistoryDigits = 4
)

// Issue returns Prefix followed by digits random decimal digits with no
// leading zero, e.g. Issue(6) -> "ORD-482913".
func Issue(digits int) string {
	if digits < 1 {
		digits = 1
	}
	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}
	n := low + rand.Intn(9*low)
	if digits == 1 {
		n = rand.Intn(10)
	}
	return fmt.Sprintf("%s%d", Prefix, n)
}

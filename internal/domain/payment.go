package domain

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentCash       PaymentMethod = "cash"
)

var paymentMethods = []PaymentMethod{PaymentCard, PaymentUPI, PaymentNetBanking, PaymentCash}

// ParsePaymentMethod accepts the method names case-insensitively; "net banking"
// and "credit card" style labels from the booking form are folded too.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "":
		return "", fmt.Errorf("%w: payment method is required", ErrValidation)
	case "credit card", "debit card":
		return PaymentCard, nil
	case "net banking":
		return PaymentNetBanking, nil
	}
	for _, m := range paymentMethods {
		if string(m) == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported payment method %q", ErrValidation, s)
}

package domain

import (
	"fmt"
	"strings"
)

type BaggageType string

const (
	BaggageCabin   BaggageType = "cabin"
	BaggageChecked BaggageType = "checked"
)

func ParseBaggageType(s string) (BaggageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(BaggageCabin):
		return BaggageCabin, nil
	case string(BaggageChecked):
		return BaggageChecked, nil
	default:
		return "", fmt.Errorf("%w: unknown baggage type %q", ErrValidation, s)
	}
}

type BaggageItem struct {
	ID            int64
	PassengerID   int64
	ReferenceCode string
	Weight        float64
	Type          BaggageType
}

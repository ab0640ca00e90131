package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrExhaustedRetries      = errors.New("exhausted retries")
	ErrRuleViolation         = errors.New("rule violation")
	ErrNotFound              = errors.New("not found")
	ErrPersistence           = errors.New("persistence failure")

	// ErrNoChange classifies an update whose new value equals the stored one.
	// Services report it as UpdateNoChange rather than returning it.
	ErrNoChange = errors.New("no change")
)

type RuleKind string

const RuleOverweightLimit RuleKind = "OverweightLimit"

// RuleViolationError is returned when baggage would exceed the allowance.
type RuleViolationError struct {
	Kind      RuleKind
	Type      BaggageType
	Requested float64
	Allowance float64
	Used      float64
}

func (e *RuleViolationError) Remaining() float64 {
	return e.Allowance - e.Used
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("%s: cannot add %.1f kg, remaining allowed weight for %s baggage is %.1f kg (max %.1f kg, used %.1f kg)",
		e.Kind, e.Requested, e.Type, e.Remaining(), e.Allowance, e.Used)
}

func (e *RuleViolationError) Is(target error) bool {
	return target == ErrRuleViolation
}

// Persistence marks err as a storage failure of op. Domain errors raised
// inside a transaction callback pass through untouched.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientInventory) ||
		errors.Is(err, ErrExhaustedRetries) ||
		errors.Is(err, ErrRuleViolation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNoChange)
}

// IsGuidance reports whether err should be shown to an agent as guidance
// (fix the input and retry) rather than as a hard failure.
func IsGuidance(err error) bool {
	return errors.Is(err, ErrRuleViolation) ||
		errors.Is(err, ErrNoChange) ||
		errors.Is(err, ErrValidation)
}

// Kind names the taxonomy class of err for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, ErrExhaustedRetries):
		return "exhausted_retries"
	case errors.Is(err, ErrRuleViolation):
		return "rule_violation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoChange):
		return "no_change"
	default:
		return "persistence"
	}
}

// Validation builds an ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

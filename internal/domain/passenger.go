package domain

import (
	"fmt"
	"strings"
)

// ContactField is the closed set of passenger details that can be edited
// after booking.
type ContactField int

const (
	ContactEmail ContactField = iota + 1
	ContactPhone
)

func ParseContactField(s string) (ContactField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return ContactEmail, nil
	case "phone":
		return ContactPhone, nil
	default:
		return 0, fmt.Errorf("%w: invalid detail type %q, only email or phone can be updated", ErrValidation, s)
	}
}

func (f ContactField) String() string {
	switch f {
	case ContactEmail:
		return "email"
	case ContactPhone:
		return "phone"
	default:
		return fmt.Sprintf("ContactField(%d)", int(f))
	}
}

// Valid reports whether f is one of the declared fields.
func (f ContactField) Valid() bool {
	return f == ContactEmail || f == ContactPhone
}

// Value returns the current value of field f.
func (p *Passenger) Value(f ContactField) string {
	if f == ContactPhone {
		return p.Phone
	}
	return p.Email
}

type UpdateResult int

const (
	UpdateApplied UpdateResult = iota + 1
	UpdateNoChange
)

func (r UpdateResult) String() string {
	if r == UpdateNoChange {
		return "no change"
	}
	return "updated"
}

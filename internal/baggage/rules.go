// Package baggage holds the weight allowance rules.
package baggage

import "github.com/Domenick1991/airreserve/internal/domain"

const (
	CabinAllowance             = 7.0
	CheckedAllowance           = 15.0
	PrivilegedCheckedAllowance = 25.0

	// epsilon absorbs float noise from summed NUMERIC weights so that adding
	// exactly the remaining weight is accepted.
	epsilon = 1e-9
)

// Allowance is the maximum total weight in kg for one passenger, booking and
// baggage type. Privileged passengers (students, discount fares) get a larger
// checked allowance.
func Allowance(typ domain.BaggageType, privileged bool) float64 {
	if typ == domain.BaggageCabin {
		return CabinAllowance
	}
	if privileged {
		return PrivilegedCheckedAllowance
	}
	return CheckedAllowance
}

// Remaining may be negative when earlier adds went over the limit.
func Remaining(typ domain.BaggageType, privileged bool, used float64) float64 {
	return Allowance(typ, privileged) - used
}

// Check returns a *domain.RuleViolationError when weight does not fit.
func Check(typ domain.BaggageType, privileged bool, used, weight float64) error {
	allowance := Allowance(typ, privileged)
	if weight > allowance-used+epsilon {
		return &domain.RuleViolationError{
			Kind:      domain.RuleOverweightLimit,
			Type:      typ,
			Requested: weight,
			Allowance: allowance,
			Used:      used,
		}
	}
	return nil
}

package dd

import "math"

// Validate checks the structural correctness of d.
//
// Every interval on both sides must satisfy 0 <= Lower <= Upper with finite
// bounds and a non-empty column name. Validation fails fast: the first
// offending constraint, LHS before RHS, is reported as an
// ErrCodeInvalidConstraint VerificationError.
func Validate(d DifferentialDependency) error {
	if err := validateSide("lhs", d.Left); err != nil {
		return err
	}
	return validateSide("rhs", d.Right)
}

func validateSide(side string, constraints []ConstraintInterval) error {
	for i, c := range constraints {
		if reason := checkInterval(c); reason != "" {
			return NewInvalidConstraintError(side, i, c, reason)
		}
	}
	return nil
}

func checkInterval(c ConstraintInterval) string {
	switch {
	case c.Column == "":
		return "column name is required"
	case math.IsNaN(c.Lower) || math.IsNaN(c.Upper):
		return "bounds must be numbers"
	case math.IsInf(c.Lower, 0):
		return "lower bound must be finite"
	case c.Lower < 0:
		return "lower bound must be non-negative"
	case c.Upper < c.Lower:
		return "upper bound must not be less than lower bound"
	}
	return ""
}

package dd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every error returned from Parse.
var ErrSyntax = errors.New("invalid DD syntax")

// Parse reads a DD written as
//
//	lhs -> rhs
//
// where each side is a comma-separated, possibly empty, list of
// "column [lower;upper]" constraints:
//
//	age [0;5], city [0;2] -> salary [0;1000]
//
// Parse checks syntax only. Bounds such as [5;2] parse successfully and are
// rejected later by Validate.
func Parse(s string) (DifferentialDependency, error) {
	if strings.Count(s, "->") != 1 {
		return DifferentialDependency{}, fmt.Errorf("%w: expected exactly one \"->\" in %q", ErrSyntax, s)
	}
	lhsText, rhsText, _ := strings.Cut(s, "->")

	left, err := parseSide(lhsText)
	if err != nil {
		return DifferentialDependency{}, fmt.Errorf("lhs: %w", err)
	}
	right, err := parseSide(rhsText)
	if err != nil {
		return DifferentialDependency{}, fmt.Errorf("rhs: %w", err)
	}
	return DifferentialDependency{Left: left, Right: right}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) DifferentialDependency {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func parseSide(text string) ([]ConstraintInterval, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	tokens, err := splitConstraints(text)
	if err != nil {
		return nil, err
	}
	constraints := make([]ConstraintInterval, 0, len(tokens))
	for _, tok := range tokens {
		c, err := parseConstraint(tok)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// splitConstraints splits on commas that are not inside brackets.
func splitConstraints(text string) ([]string, error) {
	var tokens []string
	depth := 0
	start := 0
	for i, r := range text {
		switch r {
		case '[':
			depth++
			if depth > 1 {
				return nil, fmt.Errorf("%w: nested '[' at offset %d", ErrSyntax, i)
			}
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unmatched ']' at offset %d", ErrSyntax, i)
			}
		case ',':
			if depth == 0 {
				tokens = append(tokens, text[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unterminated '['", ErrSyntax)
	}
	return append(tokens, text[start:]), nil
}

func parseConstraint(tok string) (ConstraintInterval, error) {
	tok = strings.TrimSpace(tok)
	open := strings.LastIndex(tok, "[")
	if open < 0 || !strings.HasSuffix(tok, "]") {
		return ConstraintInterval{}, fmt.Errorf("%w: %q is not of the form \"column [lower;upper]\"", ErrSyntax, tok)
	}
	column := strings.TrimSpace(tok[:open])
	if column == "" {
		return ConstraintInterval{}, fmt.Errorf("%w: missing column name in %q", ErrSyntax, tok)
	}
	lowerText, upperText, ok := strings.Cut(tok[open+1:len(tok)-1], ";")
	if !ok {
		return ConstraintInterval{}, fmt.Errorf("%w: bounds of %q must be separated by ';'", ErrSyntax, column)
	}
	lower, err := strconv.ParseFloat(strings.TrimSpace(lowerText), 64)
	if err != nil {
		return ConstraintInterval{}, fmt.Errorf("%w: lower bound of %q: %v", ErrSyntax, column, err)
	}
	upper, err := strconv.ParseFloat(strings.TrimSpace(upperText), 64)
	if err != nil {
		return ConstraintInterval{}, fmt.Errorf("%w: upper bound of %q: %v", ErrSyntax, column, err)
	}
	return ConstraintInterval{Column: column, Lower: lower, Upper: upper}, nil
}

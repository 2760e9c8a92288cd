package dd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// VerificationError represents a failure of a verification run.
//
// Verification errors include:
//   - Invalid constraint: negative bound or upper < lower
//   - Unknown column: constraint names a column absent from the table
//   - Unsupported column type: untyped, mixed or non-metrizable column
//   - Missing value: a needed cell is null or empty, or its distance is not finite
//
// Every verification error is fatal to the run. There is no partial report.
type VerificationError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Column names the offending column, if any.
	Column string

	// Rows lists the offending row indices (MissingValue only).
	Rows []int

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes verification errors.
type ErrorCode string

const (
	// ErrCodeInvalidConstraint indicates a constraint with a negative bound or upper < lower.
	ErrCodeInvalidConstraint ErrorCode = "INVALID_CONSTRAINT"

	// ErrCodeUnknownColumn indicates a constraint referencing a column the table lacks.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeUnsupportedColumnType indicates a column without a usable distance function.
	ErrCodeUnsupportedColumnType ErrorCode = "UNSUPPORTED_COLUMN_TYPE"

	// ErrCodeMissingValue indicates a null or empty cell, or an ill-defined distance.
	ErrCodeMissingValue ErrorCode = "MISSING_VALUE"
)

// ParseErrorCode maps a code string back to an ErrorCode.
func ParseErrorCode(s string) (ErrorCode, bool) {
	switch code := ErrorCode(strings.ToUpper(strings.TrimSpace(s))); code {
	case ErrCodeInvalidConstraint, ErrCodeUnknownColumn, ErrCodeUnsupportedColumnType, ErrCodeMissingValue:
		return code, true
	default:
		return "", false
	}
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	switch {
	case e.Column != "" && len(e.Rows) > 0:
		return fmt.Sprintf("%s: %s (column=%s, rows=%s)", e.Code, e.Message, e.Column, joinRows(e.Rows))
	case e.Column != "":
		return fmt.Sprintf("%s: %s (column=%s)", e.Code, e.Message, e.Column)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a
// VerificationError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ve *VerificationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsInvalidConstraint returns true if err is an invalid constraint error.
func IsInvalidConstraint(err error) bool {
	return CodeOf(err) == ErrCodeInvalidConstraint
}

// IsUnknownColumn returns true if err is an unknown column error.
func IsUnknownColumn(err error) bool {
	return CodeOf(err) == ErrCodeUnknownColumn
}

// IsUnsupportedColumnType returns true if err is an unsupported column type error.
func IsUnsupportedColumnType(err error) bool {
	return CodeOf(err) == ErrCodeUnsupportedColumnType
}

// IsMissingValue returns true if err is a missing value error.
func IsMissingValue(err error) bool {
	return CodeOf(err) == ErrCodeMissingValue
}

// NewInvalidConstraintError creates a VerificationError for a malformed interval.
// side is "lhs" or "rhs", index the position of the constraint on that side.
func NewInvalidConstraintError(side string, index int, c ConstraintInterval, reason string) *VerificationError {
	return &VerificationError{
		Code:    ErrCodeInvalidConstraint,
		Message: fmt.Sprintf("%s[%d] %s: %s", side, index, c, reason),
		Column:  c.Column,
		Details: map[string]string{
			"side":  side,
			"index": strconv.Itoa(index),
			"lower": formatBound(c.Lower),
			"upper": formatBound(c.Upper),
		},
	}
}

// NewUnknownColumnError creates a VerificationError for an unresolvable column name.
func NewUnknownColumnError(column string) *VerificationError {
	return &VerificationError{
		Code:    ErrCodeUnknownColumn,
		Message: fmt.Sprintf("column %q not found in table", column),
		Column:  column,
	}
}

// NewUnsupportedColumnTypeError creates a VerificationError for a column that
// has no usable distance function.
func NewUnsupportedColumnTypeError(column, reason string) *VerificationError {
	return &VerificationError{
		Code:    ErrCodeUnsupportedColumnType,
		Message: reason,
		Column:  column,
	}
}

// NewMissingValueError creates a VerificationError for absent data or an
// ill-defined distance.
func NewMissingValueError(column, reason string, rows ...int) *VerificationError {
	return &VerificationError{
		Code:    ErrCodeMissingValue,
		Message: reason,
		Column:  column,
		Rows:    rows,
	}
}

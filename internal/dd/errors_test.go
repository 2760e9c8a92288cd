package dd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationError_Error(t *testing.T) {
	assert.Equal(t,
		"UNKNOWN_COLUMN: column \"zip\" not found in table (column=zip)",
		NewUnknownColumnError("zip").Error())

	assert.Equal(t,
		"MISSING_VALUE: cell is null (column=age, rows=0,3)",
		NewMissingValueError("age", "cell is null", 0, 3).Error())

	plain := &VerificationError{Code: ErrCodeInvalidConstraint, Message: "bad"}
	assert.Equal(t, "INVALID_CONSTRAINT: bad", plain.Error())
}

func TestPredicates_HandleWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", NewMissingValueError("age", "cell is empty", 2))

	assert.True(t, IsMissingValue(wrapped))
	assert.False(t, IsUnknownColumn(wrapped))
	assert.Equal(t, ErrCodeMissingValue, CodeOf(wrapped))
}

func TestPredicates_NonVerificationError(t *testing.T) {
	err := fmt.Errorf("plain")

	assert.Equal(t, ErrorCode(""), CodeOf(err))
	assert.False(t, IsInvalidConstraint(err))
	assert.False(t, IsUnsupportedColumnType(nil))
}

func TestParseErrorCode(t *testing.T) {
	code, ok := ParseErrorCode("missing_value")
	assert.True(t, ok)
	assert.Equal(t, ErrCodeMissingValue, code)

	_, ok = ParseErrorCode("NOPE")
	assert.False(t, ok)
}

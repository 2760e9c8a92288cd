package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ddverify/internal/dd"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONKeepsArrows(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"dd": "a [0;1] -> b [0;1]"}))

	assert.Contains(t, buf.String(), "a [0;1] -> b [0;1]")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("E001", "something failed", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "something failed", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("E001", "something failed", map[string]string{"k": "v"}))

	assert.Contains(t, buf.String(), "Error [E001]: something failed")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("E001", "something failed", map[string]string{"k": "v"}))

	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerificationError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}
	verr := dd.NewMissingValueError("salary", "value is null", 3)

	err := formatter.VerificationError(fmt.Errorf("verify: %w", verr))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, dd.IsMissingValue(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMissingValue, resp.Error.Code)
	assert.Equal(t, "value is null", resp.Error.Message)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "MISSING_VALUE", details["kind"])
	assert.Equal(t, "salary", details["column"])
	assert.Equal(t, []any{float64(3)}, details["rows"])
}

func TestOutputFormatter_VerificationErrorOther(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.VerificationError(errors.New("boom"))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E001]: boom")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: tt.verbose}

			formatter.VerboseLog("Processing %s", "specs.cue")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Processing specs.cue")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "does not hold")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "bad"))))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("unknown flag")))
}

func TestExitError(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "open history", inner)

	assert.Equal(t, "open history: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
}

func TestMapVerificationErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidConstraint, MapVerificationErrorCode(dd.ErrCodeInvalidConstraint))
	assert.Equal(t, ErrCodeUnknownColumn, MapVerificationErrorCode(dd.ErrCodeUnknownColumn))
	assert.Equal(t, ErrCodeUnsupportedColumnType, MapVerificationErrorCode(dd.ErrCodeUnsupportedColumnType))
	assert.Equal(t, ErrCodeMissingValue, MapVerificationErrorCode(dd.ErrCodeMissingValue))
	assert.Equal(t, ErrCodeGeneric, MapVerificationErrorCode("OTHER"))
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeMissingSide, MapFieldToErrorCode("lhs"))
	assert.Equal(t, ErrCodeBadConstraint, MapFieldToErrorCode("rhs[2].upper"))
	assert.Equal(t, ErrCodeDDSyntax, MapFieldToErrorCode("dd"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("cue"))
}

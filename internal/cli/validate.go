package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ddverify/internal/dd"
)

// ValidationIssue is one problem found in a specs directory.
type ValidationIssue struct {
	Spec    string `json:"spec,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	DDs    []string          `json:"dds,omitempty"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate DD specs without a table",
		Long: `Compile every DD in a CUE specs directory and check its intervals.

Reports all problems, not just the first: malformed entries, textual DDs
that do not parse, and intervals with negative, non-finite or inverted
bounds. Column names are not checked since no table is involved.

Exit codes:
  0 - All specs valid
  1 - One or more specs invalid
  2 - Command error (directory not found, no CUE files, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)

	// Directory-level failures (not found, no files) are command errors
	if loadResult == nil {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
		}
		_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeGeneric, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		issues = append(issues, issueFromLoadError(err))
	}

	for _, spec := range loadResult.DDs {
		formatter.VerboseLog("Validating dd: %s (%s)", spec.Name, spec.DD)
		if err := dd.Validate(spec.DD); err != nil {
			var ve *dd.VerificationError
			code := ErrCodeGeneric
			if errors.As(err, &ve) {
				code = MapVerificationErrorCode(ve.Code)
			}
			issues = append(issues, ValidationIssue{
				Spec:    spec.Name,
				Code:    code,
				Message: err.Error(),
			})
		}
	}

	if len(issues) > 0 {
		return outputValidationIssues(formatter, issues)
	}
	return outputValidateSuccess(formatter, loadResult.Names())
}

func issueFromLoadError(err error) ValidationIssue {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()}
	}
	issue := ValidationIssue{
		Spec:    loadErr.Spec,
		Code:    loadErr.Code,
		Message: loadErr.Message,
	}
	if loadErr.Pos.IsValid() {
		issue.Line = loadErr.Pos.Line()
	}
	return issue
}

func outputValidateSuccess(formatter *OutputFormatter, names []string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, DDs: names})
	}

	fmt.Fprintf(formatter.Writer, "✓ All specs valid (%d dd)\n", len(names))
	return nil
}

func outputValidationIssues(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Spec != "" {
			fmt.Fprintf(formatter.Writer, "dd.%s", issue.Spec)
			if issue.Line > 0 {
				fmt.Fprintf(formatter.Writer, " (line %d)", issue.Line)
			}
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}

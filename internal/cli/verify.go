package cli

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/roach88/ddverify/internal/dd"
	"github.com/roach88/ddverify/internal/store"
	"github.com/roach88/ddverify/internal/table"
	"github.com/roach88/ddverify/internal/verifier"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions

	CSV        string
	SQLite     string
	Table      string
	DD         string
	Specs      string
	Name       string
	Workers    int
	NullTokens []string
	Delimiter  string
	NoHeader   bool
	History    string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to verifier.UUIDv7Generator.
	RunIDs verifier.RunIDGenerator
}

// VerifyResult is the JSON payload of a successful verify.
type VerifyResult struct {
	Name       string           `json:"name,omitempty"`
	DD         string           `json:"dd"`
	RunID      string           `json:"run_id"`
	Report     dd.Report        `json:"report"`
	Highlights []HighlightValue `json:"highlight_values"`
}

// HighlightValue is one highlight with column name and cell values.
type HighlightValue struct {
	Column      string `json:"column"`
	First       int    `json:"first"`
	Second      int    `json:"second"`
	FirstValue  string `json:"first_value"`
	SecondValue string `json:"second_value"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a DD against a table",
		Long: `Verify a differential dependency against a CSV file or SQLite table.

The DD is given inline with --dd or by name from a CUE specs directory
with --specs/--name. The name may be omitted when the directory holds a
single DD.

Exit codes:
  0 - DD holds
  1 - DD does not hold
  2 - Command or verification error (unknown column, null value, etc.)

Examples:
  ddverify verify --csv people.csv --dd "age [0;5] -> salary [0;1000]"
  ddverify verify --sqlite hr.db --table people --specs ./specs --name age-salary
  ddverify verify --csv people.csv --dd "city [0;1] -> zip [0;0]" --workers 4 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CSV, "csv", "", "path to CSV file")
	cmd.Flags().StringVar(&opts.SQLite, "sqlite", "", "path to SQLite database (read-only)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table or view name (with --sqlite)")
	cmd.Flags().StringVar(&opts.DD, "dd", "", `DD text, e.g. "age [0;5] -> salary [0;1000]"`)
	cmd.Flags().StringVar(&opts.Specs, "specs", "", "directory of CUE DD specs")
	cmd.Flags().StringVar(&opts.Name, "name", "", "DD name within --specs")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().StringArrayVar(&opts.NullTokens, "null-token", []string{"NULL"}, "text treated as null (repeatable)")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().BoolVar(&opts.NoHeader, "no-header", false, "CSV has no header row (columns are col0, col1, ...)")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the run in this SQLite database")

	return cmd
}

func runVerify(ctx context.Context, opts *VerifyOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	name, dep, err := resolveDD(opts)
	if err != nil {
		return reportCommandError(formatter, err)
	}

	loadOpts, err := opts.loadOptions()
	if err != nil {
		return reportCommandError(formatter, err)
	}

	rel, source, err := loadVerifyTable(ctx, opts, loadOpts)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	logger.Debug("table loaded", "source", source, "rows", rel.RowCount(), "columns", rel.ColumnCount())

	var summary verifier.Summary
	slogSink := verifier.NewSlogSink(logger)
	engineOpts := []verifier.EngineOption{
		verifier.WithWorkers(opts.Workers),
		verifier.WithLogger(logger),
		verifier.WithSink(verifier.SinkFunc(func(s verifier.Summary) {
			summary = s
			slogSink.Observe(s)
		})),
	}
	if opts.RunIDs != nil {
		engineOpts = append(engineOpts, verifier.WithRunIDGenerator(opts.RunIDs))
	}

	report, err := verifier.New(engineOpts...).Verify(dep, rel)
	if err != nil {
		return formatter.VerificationError(err)
	}

	if opts.History != "" {
		if err := recordHistory(ctx, opts.History, summary); err != nil {
			return reportCommandError(formatter, err)
		}
		logger.Debug("run recorded", "history", opts.History, "run_id", summary.RunID)
	}

	result := VerifyResult{
		Name:       name,
		DD:         dep.String(),
		RunID:      summary.RunID,
		Report:     report,
		Highlights: highlightValues(summary.Highlights),
	}
	if err := outputVerifyResult(formatter, result); err != nil {
		return err
	}

	if !report.Holds {
		return NewExitError(ExitFailure, fmt.Sprintf("DD does not hold: %d violating pair(s)", report.ViolatingPairs))
	}
	return nil
}

// commandError carries a CLI error code through the verify pipeline.
type commandError struct {
	code string
	err  error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

func codedError(code string, format string, args ...any) error {
	return &commandError{code: code, err: fmt.Errorf(format, args...)}
}

func reportCommandError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var ce *commandError
	if errors.As(err, &ce) {
		code = ce.code
	}
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

// resolveDD returns the DD from --dd or --specs/--name.
func resolveDD(opts *VerifyOptions) (string, dd.DifferentialDependency, error) {
	switch {
	case opts.DD != "" && opts.Specs != "":
		return "", dd.DifferentialDependency{}, codedError(ErrCodeBadFlags, "--dd and --specs are mutually exclusive")
	case opts.DD != "":
		dep, err := dd.Parse(opts.DD)
		if err != nil {
			return "", dd.DifferentialDependency{}, codedError(ErrCodeDDSyntax, "%v", err)
		}
		return "", dep, nil
	case opts.Specs == "":
		return "", dd.DifferentialDependency{}, codedError(ErrCodeBadFlags, "one of --dd or --specs is required")
	}

	loaded, errs := LoadSpecs(opts.Specs, LoadModeFailFast)
	if len(errs) > 0 {
		code := ErrCodeGeneric
		var le *LoadError
		if errors.As(errs[0], &le) {
			code = le.Code
		}
		return "", dd.DifferentialDependency{}, &commandError{code: code, err: errs[0]}
	}

	if opts.Name == "" {
		if len(loaded.DDs) != 1 {
			return "", dd.DifferentialDependency{}, codedError(ErrCodeSpecAmbiguous,
				"--name is required: specs define %v", loaded.Names())
		}
		return loaded.DDs[0].Name, loaded.DDs[0].DD, nil
	}

	spec, ok := loaded.Find(opts.Name)
	if !ok {
		return "", dd.DifferentialDependency{}, codedError(ErrCodeSpecNotFound,
			"dd %q not found in specs (have %v)", opts.Name, loaded.Names())
	}
	return spec.Name, spec.DD, nil
}

func (opts *VerifyOptions) loadOptions() (table.LoadOptions, error) {
	if utf8.RuneCountInString(opts.Delimiter) != 1 {
		return table.LoadOptions{}, codedError(ErrCodeBadFlags, "--delimiter must be a single character, got %q", opts.Delimiter)
	}
	delim, _ := utf8.DecodeRuneInString(opts.Delimiter)
	return table.LoadOptions{
		NullTokens: opts.NullTokens,
		Delimiter:  delim,
		NoHeader:   opts.NoHeader,
	}, nil
}

// loadVerifyTable loads the relation from --csv or --sqlite/--table and
// returns a description of the source for logging.
func loadVerifyTable(ctx context.Context, opts *VerifyOptions, loadOpts table.LoadOptions) (*table.Relation, string, error) {
	switch {
	case opts.CSV != "" && opts.SQLite != "":
		return nil, "", codedError(ErrCodeBadFlags, "--csv and --sqlite are mutually exclusive")
	case opts.CSV != "":
		rel, err := table.LoadCSVFile(opts.CSV, loadOpts)
		if err != nil {
			return nil, "", codedError(ErrCodeTableLoad, "load csv: %w", err)
		}
		return rel, opts.CSV, nil
	case opts.SQLite != "":
		if opts.Table == "" {
			return nil, "", codedError(ErrCodeBadFlags, "--table is required with --sqlite")
		}
		st, err := store.OpenReadOnly(opts.SQLite)
		if err != nil {
			return nil, "", codedError(ErrCodeTableLoad, "open sqlite: %w", err)
		}
		defer st.Close()

		rel, err := st.LoadRelation(ctx, opts.Table, loadOpts)
		if err != nil {
			return nil, "", codedError(ErrCodeTableLoad, "%w", err)
		}
		return rel, opts.SQLite + ":" + opts.Table, nil
	default:
		return nil, "", codedError(ErrCodeBadFlags, "one of --csv or --sqlite is required")
	}
}

func recordHistory(ctx context.Context, path string, s verifier.Summary) error {
	st, err := store.Open(path)
	if err != nil {
		return codedError(ErrCodeHistory, "open history: %w", err)
	}
	defer st.Close()

	_, err = st.RecordRun(ctx, store.RunRecord{
		RunID:   s.RunID,
		DD:      s.DD.String(),
		Report:  s.Report,
		Elapsed: s.Elapsed,
	})
	if err != nil {
		return codedError(ErrCodeHistory, "%w", err)
	}
	return nil
}

func highlightValues(details []verifier.HighlightDetail) []HighlightValue {
	values := make([]HighlightValue, len(details))
	for i, h := range details {
		values[i] = HighlightValue{
			Column:      h.Column,
			First:       h.First,
			Second:      h.Second,
			FirstValue:  h.FirstValue,
			SecondValue: h.SecondValue,
		}
	}
	return values
}

func outputVerifyResult(formatter *OutputFormatter, result VerifyResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	label := result.DD
	if result.Name != "" {
		label = result.Name + ": " + label
	}

	if result.Report.Holds {
		fmt.Fprintf(w, "✓ DD holds (%s)\n", label)
	} else {
		fmt.Fprintf(w, "✗ DD does not hold (%s)\n", label)
	}
	fmt.Fprintf(w, "  lhs pairs:       %d\n", result.Report.LhsPairs)
	fmt.Fprintf(w, "  violating pairs: %d\n", result.Report.ViolatingPairs)
	fmt.Fprintf(w, "  error rate:      %g\n", result.Report.ErrorRate)

	for _, h := range result.Highlights {
		fmt.Fprintf(w, "  %s: rows %d and %d (%s, %s)\n", h.Column, h.First, h.Second, h.FirstValue, h.SecondValue)
	}
	return nil
}

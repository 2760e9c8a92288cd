package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ddverify/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryEntry is one recorded run in JSON output.
type HistoryEntry struct {
	Seq            int64   `json:"seq"`
	RunID          string  `json:"run_id"`
	DD             string  `json:"dd"`
	Holds          bool    `json:"holds"`
	LhsPairs       int     `json:"lhs_pair_count"`
	ViolatingPairs int     `json:"violating_pair_count"`
	ErrorRate      float64 `json:"error_rate"`
	Fingerprint    string  `json:"fingerprint"`
	ElapsedMS      float64 `json:"elapsed_ms"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded verification runs",
		Long: `List runs recorded with "ddverify verify --history <db>", oldest first.

Runs with equal fingerprints produced identical reports.

Example:
  ddverify history --db runs.db --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N runs (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open history", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	entries := make([]HistoryEntry, len(runs))
	for i, r := range runs {
		entries[i] = HistoryEntry{
			Seq:            r.Seq,
			RunID:          r.RunID,
			DD:             r.DD,
			Holds:          r.Report.Holds,
			LhsPairs:       r.Report.LhsPairs,
			ViolatingPairs: r.Report.ViolatingPairs,
			ErrorRate:      r.Report.ErrorRate,
			Fingerprint:    r.Report.Fingerprint(),
			ElapsedMS:      float64(r.Elapsed.Microseconds()) / 1000,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, e := range entries {
		mark := "✓"
		if !e.Holds {
			mark = "✗"
		}
		fmt.Fprintf(w, "%4d %s %s  %s  violating=%d/%d rate=%g  %s\n",
			e.Seq, mark, e.RunID, e.DD, e.ViolatingPairs, e.LhsPairs, e.ErrorRate, e.Fingerprint[:12])
	}
	return nil
}

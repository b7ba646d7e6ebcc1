package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ordinaryegi/svcheck/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-token]",
		Short: "Inspect stored runs",
		Long: `Read harness runs back from a results database.

Without an argument, lists all stored runs. With a run token, prints
that run's full ordered result log.

Examples:
  svcheck report --db ./runs.db
  svcheck report --db ./runs.db 01923e5a-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runReport(opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the results database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, token string, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if token == "" {
		return listRuns(ctx, st, opts, cmd)
	}
	return showRun(ctx, st, token, opts, cmd)
}

// listRuns prints the run listing.
func listRuns(ctx context.Context, st *store.Store, opts *ReportOptions, cmd *cobra.Command) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored runs.")
		return nil
	}
	for _, r := range runs {
		verdict := "pass"
		if r.Failed > 0 {
			verdict = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s/%s  %d passed, %d failed  [%s]  %s\n",
			r.Token, r.Subject, r.Service, r.Passed, r.Failed, verdict, r.CreatedAt)
	}
	return nil
}

// showRun prints one run's ordered result log.
func showRun(ctx context.Context, st *store.Store, token string, opts *ReportOptions, cmd *cobra.Command) error {
	report, err := st.ReadRun(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", token))
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: report})
	}

	fmt.Fprintf(w, "Run %s  subject=%s service=%s\n", report.RunToken, report.Subject, report.Service)
	for _, res := range report.Results {
		mark := "✓"
		if !res.Passed {
			mark = "✗"
		}
		if res.Message != "" {
			fmt.Fprintf(w, "  %s [%d] %s (%s): %s\n", mark, res.Seq, res.Tag, res.Kind, res.Message)
		} else {
			fmt.Fprintf(w, "  %s [%d] %s (%s)\n", mark, res.Seq, res.Tag, res.Kind)
		}
	}
	passed, failed := report.Counts()
	fmt.Fprintf(w, "%d passed, %d failed\n", passed, failed)
	return nil
}

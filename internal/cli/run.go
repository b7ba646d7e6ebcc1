package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ordinaryegi/svcheck/internal/harness"
	"github.com/ordinaryegi/svcheck/internal/profile"
	"github.com/ordinaryegi/svcheck/internal/store"
	"github.com/ordinaryegi/svcheck/internal/svc"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // persist reports when set
	Filter   string // scenario filter (glob pattern)
	Update   bool   // regenerate golden files
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Subject  string   `json:"subject"`
	RunToken string   `json:"run_token,omitempty"`
	Pass     bool     `json:"pass"`
	Failures []string `json:"failures,omitempty"`
}

// SuiteResult holds the overall run result.
type SuiteResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <profiles-dir> <scenarios-dir>",
		Short: "Run scenarios against the profiled services",
		Long: `Run every scenario against an in-memory service fleet built from the
CUE profiles. Each scenario's report is printed, optionally compared
against a golden file, and optionally persisted to a SQLite database.

Golden files live in <scenarios-dir>/golden/<subject>.golden.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Command error (invalid paths, etc.)

Examples:
  svcheck run ./profiles ./scenarios
  svcheck run ./profiles ./scenarios --filter "service-*"
  svcheck run ./profiles ./scenarios --update
  svcheck run ./profiles ./scenarios --db ./runs.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "persist reports to this SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")

	return cmd
}

func runScenarios(opts *RunOptions, profilesDir, scenariosDir string, cmd *cobra.Command) error {
	logger := newLogger(opts.Verbose)

	profiles, err := profile.LoadDir(profilesDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load profiles", err)
	}
	logger.Info("profiles loaded", "dir", profilesDir, "services", len(profiles))

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputRunJSON(cmd, SuiteResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	mgr := svc.NewLocalManager(profiles...)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := SuiteResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runOneScenario(ctx, scenarioFile, mgr, st, opts, logger, cmd)
		result.Scenarios = append(result.Scenarios, scenResult)
		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, result)
	}
	return outputRunText(cmd, result)
}

// runOneScenario loads, executes, persists, and golden-checks one
// scenario file.
func runOneScenario(
	ctx context.Context,
	scenarioFile string,
	mgr svc.Manager,
	st *store.Store,
	opts *RunOptions,
	logger *slog.Logger,
	cmd *cobra.Command,
) ScenarioResult {
	w := cmd.OutOrStdout()

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n", filepath.Base(scenarioFile))
			fmt.Fprintf(w, "  Load error: %v\n", err)
		}
		return ScenarioResult{
			Subject:  filepath.Base(scenarioFile),
			Pass:     false,
			Failures: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	report, err := harness.RunWithOptions(ctx, scenario, mgr, harness.RunOptions{Logger: logger})
	if err != nil {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n", scenario.Subject)
			fmt.Fprintf(w, "  Execution error: %v\n", err)
		}
		return ScenarioResult{
			Subject:  scenario.Subject,
			Pass:     false,
			Failures: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	if st != nil {
		if err := st.WriteReport(ctx, report); err != nil {
			logger.Error("failed to persist report", "run_token", report.RunToken, "error", err)
		}
	}

	scenResult := ScenarioResult{
		Subject:  scenario.Subject,
		RunToken: report.RunToken,
		Pass:     report.Passed(),
	}
	for _, res := range report.Results {
		if !res.Passed {
			scenResult.Failures = append(scenResult.Failures,
				fmt.Sprintf("%s: %s", res.Tag, res.Message))
		}
	}

	// Golden handling mirrors assertion results: --update rewrites,
	// otherwise an existing golden file must match byte for byte.
	goldenPath := goldenFilePath(scenarioFile)
	if opts.Update {
		if err := updateGoldenFile(report, goldenPath); err != nil {
			scenResult.Pass = false
			scenResult.Failures = append(scenResult.Failures,
				fmt.Sprintf("failed to update golden file: %v", err))
		} else if opts.Format != "json" {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", scenario.Subject)
			return scenResult
		}
	} else if _, err := os.Stat(goldenPath); err == nil {
		match, err := compareWithGolden(report, goldenPath)
		if err != nil {
			scenResult.Pass = false
			scenResult.Failures = append(scenResult.Failures,
				fmt.Sprintf("golden comparison failed: %v", err))
		} else if !match {
			scenResult.Pass = false
			scenResult.Failures = append(scenResult.Failures,
				"report does not match golden file (run with --update to regenerate)")
		}
	}

	if opts.Format != "json" {
		if scenResult.Pass {
			fmt.Fprintf(w, "✓ %s\n", scenario.Subject)
		} else {
			fmt.Fprintf(w, "✗ %s\n", scenario.Subject)
			for _, f := range scenResult.Failures {
				fmt.Fprintf(w, "  %s\n", f)
			}
		}
	}
	return scenResult
}

// findScenarioFiles finds all YAML scenario files in a directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})

	return files, err
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// updateGoldenFile writes the report snapshot as the golden file.
func updateGoldenFile(report *harness.Report, goldenPath string) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	data, err := report.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden compares the report snapshot against the golden file.
func compareWithGolden(report *harness.Report, goldenPath string) (bool, error) {
	goldenData, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	currentData, err := report.Snapshot()
	if err != nil {
		return false, fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(goldenData) == string(currentData), nil
}

// newLogger configures slog output for a command invocation.
func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// outputRunJSON outputs the suite result as JSON.
func outputRunJSON(cmd *cobra.Command, result SuiteResult) error {
	status := "ok"
	response := CLIResponse{Status: status, Data: result}

	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_RUN_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputRunText outputs the suite result as text.
func outputRunText(cmd *cobra.Command, result SuiteResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/irverify/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath      string
	Limit       int
	RunID       string
	Fingerprint string
}

// RunJSON is the JSON form of a recorded run.
type RunJSON struct {
	ID              string           `json:"id"`
	Seq             int64            `json:"seq"`
	Source          string           `json:"source"`
	Fingerprint     string           `json:"fingerprint"`
	Recursive       bool             `json:"recursive"`
	Passed          bool             `json:"passed"`
	DiagnosticCount int              `json:"diagnostic_count"`
	Diagnostics     []DiagnosticJSON `json:"diagnostics,omitempty"`
}

func toRunJSON(r store.Run) RunJSON {
	return RunJSON{
		ID:              r.ID,
		Seq:             r.Seq,
		Source:          r.Source,
		Fingerprint:     r.Fingerprint,
		Recursive:       r.Recursive,
		Passed:          r.Passed,
		DiagnosticCount: r.DiagnosticCount,
	}
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded verification runs",
		Long: `Show runs recorded with --db.

Without further flags the most recent runs are listed, newest first.
--run prints one run with its diagnostics; --fingerprint prints the
latest run of a given IR.

Examples:
  irverify history --db runs.db
  irverify history --db runs.db --limit 5
  irverify history --db runs.db --run 0190a6c2-...
  irverify history --db runs.db --fingerprint 3f2a...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run and its diagnostics")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "show the latest run with this fingerprint")
	_ = cmd.MarkFlagRequired("db")
	cmd.MarkFlagsMutuallyExclusive("run", "fingerprint")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.RunID == "" && opts.Fingerprint == "" {
		runs, err := st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			items := make([]RunJSON, len(runs))
			for i, r := range runs {
				items[i] = toRunJSON(r)
			}
			return out.Success(map[string]any{"runs": items})
		}
		writeRunTable(out, runs)
		return nil
	}

	var (
		run   store.Run
		found bool
	)
	if opts.RunID != "" {
		run, found, err = st.GetRun(ctx, opts.RunID)
	} else {
		run, found, err = st.LatestByFingerprint(ctx, opts.Fingerprint)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if !found {
		msg := fmt.Sprintf("no run with id %q", opts.RunID)
		if opts.RunID == "" {
			msg = fmt.Sprintf("no run with fingerprint %q", opts.Fingerprint)
		}
		if err := out.Error("E_NOT_FOUND", msg, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	diags, err := st.RunDiagnostics(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read diagnostics", err)
	}

	if opts.Format == "json" {
		rj := toRunJSON(run)
		rj.Diagnostics = toDiagnosticJSON(diags)
		return out.Success(rj)
	}

	w := out.Writer
	fmt.Fprintf(w, "Run:         %s\n", run.ID)
	fmt.Fprintf(w, "Seq:         %d\n", run.Seq)
	fmt.Fprintf(w, "Source:      %s\n", run.Source)
	fmt.Fprintf(w, "Fingerprint: %s\n", run.Fingerprint)
	fmt.Fprintf(w, "Recursive:   %t\n", run.Recursive)
	fmt.Fprintf(w, "Passed:      %t\n", run.Passed)
	if len(diags) > 0 {
		fmt.Fprintln(w)
		out.Diagnostics(diags)
	}
	return nil
}

func writeRunTable(out *OutputFormatter, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out.Writer, "No runs recorded.")
		return
	}
	tw := tabwriter.NewWriter(out.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tRESULT\tDIAGS\tSOURCE")
	for _, r := range runs {
		status := "pass"
		if !r.Passed {
			status = "fail"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.Seq, r.ID, status, r.DiagnosticCount, r.Source)
	}
	tw.Flush()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
	"github.com/roach88/irverify/internal/irload"
	"github.com/roach88/irverify/internal/store"
	"github.com/roach88/irverify/internal/verifier"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Recursive         bool
	Threads           int
	AllowUnregistered bool
	DBPath            string // record runs when set
}

// FileResult is the outcome of verifying one file.
type FileResult struct {
	File        string           `json:"file"`
	Verified    bool             `json:"verified"`
	LoadError   string           `json:"load_error,omitempty"`
	Message     string           `json:"message,omitempty"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	RunID       string           `json:"run_id,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`

	diags []diag.Diagnostic
}

// VerifyResult is the overall result of the verify command.
type VerifyResult struct {
	Files    []FileResult `json:"files"`
	Verified int          `json:"verified"`
	Failed   int          `json:"failed"`
	Invalid  int          `json:"invalid"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <file>...",
		Short: "Verify IR documents",
		Long: `Verify one or more IR documents.

Each document is loaded, checked for structural well-formedness and then
for SSA dominance. Diagnostics are printed in compiler style.

Exit codes:
  0 - All documents verified
  1 - One or more documents failed verification
  2 - Command error (unreadable or malformed input, database errors)

Examples:
  irverify verify func.yaml
  irverify verify --recursive=false module.cue
  irverify verify --threads 1 --db runs.db func.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Recursive, "recursive", true, "verify nested regions and isolated operations")
	cmd.Flags().IntVar(&opts.Threads, "threads", 0, "worker limit for isolated operations (1 disables threading)")
	cmd.Flags().BoolVar(&opts.AllowUnregistered, "allow-unregistered-dialect", false, "accept operations from unregistered dialects")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record runs into this SQLite database")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *VerifyOptions, files []string) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	var st *store.Store
	if opts.DBPath != "" {
		var err error
		st, err = store.Open(opts.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
	}

	threadsSet := cmd.Flags().Changed("threads")
	if threadsSet && opts.Threads < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--threads must be >= 0, got %d", opts.Threads))
	}

	result := VerifyResult{Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		fr, err := verifyFile(cmd.Context(), file, opts, threadsSet, st, logger)
		if err != nil {
			return err
		}
		switch {
		case fr.LoadError != "":
			result.Invalid++
		case fr.Verified:
			result.Verified++
		default:
			result.Failed++
		}
		result.Files = append(result.Files, fr)
	}

	if opts.Format == "json" {
		if err := writeVerifyJSON(out, result); err != nil {
			return err
		}
	} else {
		writeVerifyText(out, result)
	}

	switch {
	case result.Invalid > 0:
		return NewExitError(ExitCommandError, fmt.Sprintf("%d file(s) could not be loaded", result.Invalid))
	case result.Failed > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed verification", result.Failed))
	}
	return nil
}

func verifyFile(ctx context.Context, file string, opts *VerifyOptions, threadsSet bool, st *store.Store, logger *slog.Logger) (FileResult, error) {
	fr := FileResult{File: file, Diagnostics: []DiagnosticJSON{}}

	loaded, err := irload.LoadFile(file)
	if err != nil {
		code := irload.Code(err)
		if code == "" {
			return fr, WrapExitError(ExitCommandError, "failed to load "+file, err)
		}
		fr.LoadError = code
		fr.Message = err.Error()
		return fr, nil
	}

	if threadsSet {
		loaded.Context.SetThreading(irload.Threading(opts.Threads))
	}
	if opts.AllowUnregistered {
		loaded.Context.SetAllowUnregisteredDialects(true)
	}

	var collector diag.Collector
	var sink diag.Sink = &collector
	if opts.Verbose {
		sink = diag.Tee(&collector, diag.NewSlogSink(logger))
	}

	verr := verifier.Verify(loaded.Root, opts.Recursive,
		verifier.WithSink(sink),
		verifier.WithLogger(logger),
	)
	if verr != nil && !errors.Is(verr, verifier.ErrVerificationFailed) {
		return fr, WrapExitError(ExitCommandError, "verifier failed on "+file, verr)
	}
	fr.Verified = verr == nil
	fr.diags = collector.Diagnostics()
	fr.Diagnostics = toDiagnosticJSON(fr.diags)

	fingerprint, err := ir.Fingerprint(loaded.Root)
	if err != nil {
		return fr, WrapExitError(ExitCommandError, "failed to fingerprint "+file, err)
	}
	fr.Fingerprint = fingerprint

	if st != nil {
		run, err := st.RecordRun(ctx, store.Run{
			Source:      file,
			Fingerprint: fingerprint,
			Recursive:   opts.Recursive,
			Passed:      fr.Verified,
		}, fr.diags)
		if err != nil {
			return fr, WrapExitError(ExitCommandError, "failed to record run", err)
		}
		fr.RunID = run.ID
		logger.Debug("run recorded", "file", file, "run", run.ID, "seq", run.Seq)
	}

	return fr, nil
}

func writeVerifyJSON(out *OutputFormatter, result VerifyResult) error {
	if result.Failed == 0 && result.Invalid == 0 {
		return out.Success(result)
	}
	code := "E_VERIFY_FAILED"
	message := fmt.Sprintf("%d file(s) failed verification", result.Failed)
	if result.Invalid > 0 {
		code = "E_LOAD_FAILED"
		message = fmt.Sprintf("%d file(s) could not be loaded", result.Invalid)
	}
	return out.encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error:  &CLIError{Code: code, Message: message},
	})
}

func writeVerifyText(out *OutputFormatter, result VerifyResult) {
	w := out.Writer
	for _, fr := range result.Files {
		switch {
		case fr.LoadError != "":
			fmt.Fprintf(w, "✗ %s\n", fr.File)
			fmt.Fprintf(w, "  %s\n", fr.Message)
		case fr.Verified:
			fmt.Fprintf(w, "✓ %s\n", fr.File)
		default:
			fmt.Fprintf(w, "✗ %s\n", fr.File)
			out.Diagnostics(fr.diags)
		}
		if fr.RunID != "" {
			out.VerboseLog("  run %s (%s)", fr.RunID, fr.Fingerprint)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Verify Summary: %d verified, %d failed, %d invalid, %d total\n",
		result.Verified, result.Failed, result.Invalid, len(result.Files))
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/config"
	"github.com/roach88/enigma/internal/journal"
	"github.com/roach88/enigma/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // optional - show one session's timeline
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID      string `json:"id"`
	Label   string `json:"label,omitempty"`
	Events  int    `json:"events"`
	Presses int    `json:"presses"`
}

// TraceResult holds one session's timeline.
type TraceResult struct {
	Session     string        `json:"session"`
	Label       string        `json:"label,omitempty"`
	Timeline    []trace.Event `json:"timeline"`
	Output      string        `json:"output"`
	Fingerprint string        `json:"fingerprint"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect journaled sessions",
		Long: `List the sessions in a journal, or show one session's trace.

Without --session every session is listed with its event and keystroke
counts. With --session the session's events are printed in order, followed
by the lit letters and the trace fingerprint.

Examples:
  enigma trace --db ./enigma.db
  enigma trace --db ./enigma.db --session 0190a1b2-...
  enigma trace --db ./enigma.db --session 0190a1b2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal path (default: journal setting)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to show")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := config.Load(cmd.Flags(), opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	st, err := openJournal(opts.Database, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Session == "" {
		return listSessions(ctx, opts, cmd, st)
	}

	session, err := st.ReadSession(ctx, opts.Session)
	if errors.Is(err, journal.ErrSessionNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.Session))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	events, err := st.ReadEvents(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	fp, err := trace.Fingerprint(events)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint trace", err)
	}

	result := TraceResult{
		Session:     session.ID,
		Label:       session.Label,
		Timeline:    events,
		Output:      trace.Output(events),
		Fingerprint: fp,
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd, result)
}

func listSessions(ctx context.Context, opts *TraceOptions, cmd *cobra.Command, st *journal.Store) error {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	summaries := make([]SessionSummary, len(sessions))
	for i, s := range sessions {
		summaries[i] = SessionSummary{ID: s.ID, Label: s.Label, Events: s.Events, Presses: s.Presses}
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, summaries)
	}

	w := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}
	for _, s := range summaries {
		label := s.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%s  %-12s %4d events %4d keys\n", s.ID, label, s.Events, s.Presses)
	}
	return nil
}

func outputTraceJSON(cmd *cobra.Command, data any) error {
	response := CLIResponse{
		Status: "ok",
		Data:   data,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace for Session: %s\n", result.Session)
	if result.Label != "" {
		fmt.Fprintf(w, "Label: %s\n", result.Label)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	} else {
		describeEvents(w, result.Timeline)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "  Output:      %s\n", result.Output)
	fmt.Fprintf(w, "  Fingerprint: %s\n", result.Fingerprint)

	return nil
}

// describeEvents prints one line per event.
func describeEvents(w io.Writer, events []trace.Event) {
	for _, e := range events {
		fmt.Fprintf(w, "  %s\n", e.String())
	}
}

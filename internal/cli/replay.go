package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/config"
	"github.com/roach88/enigma/internal/journal"
	"github.com/roach88/enigma/internal/trace"
	"github.com/roach88/enigma/internal/wiring"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session       string   `json:"session"`
	Events        int      `json:"events"`
	Output        string   `json:"output"`
	Fingerprint   string   `json:"fingerprint"`
	Deterministic bool     `json:"deterministic"`
	Divergences   []string `json:"divergences,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Wiring           string                `json:"wiring"`
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify determinism",
		Long: `Re-drive a fresh machine with every journaled keystroke and check that it
reproduces the recorded trace event for event.

The journal stores keystrokes only, so the wiring must be given again
(--wiring, ENIGMA_WIRING or enigma.yaml). Replaying with a different wiring
reports divergences.

Exit codes:
  0 - All sessions are deterministic
  1 - Replay diverged from the journal
  2 - Command error (journal not found, etc.)

Examples:
  enigma replay --db ./enigma.db
  enigma replay --db ./enigma.db --session 0190a1b2-...
  enigma replay --db ./enigma.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal path (default: journal setting)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")
	cmd.Flags().String(config.KeyWiring, "", "wiring set name or .cue file (default enigma-i)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
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

	set, err := wiring.Resolve(cfg.Wiring)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve wiring", err)
	}

	ids, err := selectSessions(ctx, st, opts.Session)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Wiring:           set.Name,
		Sessions:         make([]ReplaySessionResult, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}

	if len(ids) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}

	for _, id := range ids {
		sr, err := replaySession(ctx, st, set, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err)
		}
		opts.logger().Debug("session replayed", "session", id, "events", sr.Events, "deterministic", sr.Deterministic)

		result.Sessions = append(result.Sessions, sr)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replaySession replays one session on a fresh machine and diffs the traces.
func replaySession(ctx context.Context, st *journal.Store, set wiring.Set, id string) (ReplaySessionResult, error) {
	recorded, err := st.ReadEvents(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	m, err := set.NewMachine()
	if err != nil {
		return ReplaySessionResult{}, err
	}

	sr := ReplaySessionResult{
		Session: id,
		Events:  len(recorded),
		Output:  trace.Output(recorded),
	}

	replayed, replayErr := trace.Replay(m, recorded)
	for _, d := range trace.Diff(recorded, replayed) {
		sr.Divergences = append(sr.Divergences, d.String())
	}
	if replayErr != nil {
		sr.Divergences = append(sr.Divergences, fmt.Sprintf("replay stopped: %v", replayErr))
	}
	sr.Deterministic = len(sr.Divergences) == 0

	sr.Fingerprint, err = trace.Fingerprint(recorded)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	return sr, nil
}

// openJournal opens the --db journal, falling back to the journal setting.
// The journal must already exist.
func openJournal(path string, cfg config.Config) (*journal.Store, error) {
	if path == "" {
		path = cfg.Journal
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no journal: pass --db or set journal in the config")
	}
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", path))
	}
	st, err := journal.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

// selectSessions returns [only] when set, after checking it exists, or every
// session in the journal.
func selectSessions(ctx context.Context, st *journal.Store, only string) ([]string, error) {
	if only != "" {
		if _, err := st.ReadSession(ctx, only); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read session", err)
		}
		return []string{only}, nil
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids, nil
}

func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s), wiring %s\n", result.TotalSessions, result.Wiring)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s\n", status, s.Session)
		fmt.Fprintf(w, "  Events: %d, output %q\n", s.Events, s.Output)
		if verbose {
			fmt.Fprintf(w, "  Fingerprint: %s\n", s.Fingerprint)
		}
		for _, d := range s.Divergences {
			fmt.Fprintf(w, "  %s\n", d)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

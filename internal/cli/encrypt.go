package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/config"
	"github.com/roach88/enigma/internal/journal"
	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/textprep"
	"github.com/roach88/enigma/internal/trace"
	"github.com/roach88/enigma/internal/wiring"
)

// EncryptResult is the JSON payload of the encrypt command.
type EncryptResult struct {
	Wiring      string `json:"wiring"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Start       string `json:"start_positions"`
	End         string `json:"end_positions"`
	Session     string `json:"session,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Events      int    `json:"events"`
}

// NewEncryptCommand creates the encrypt command.
func NewEncryptCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [text...]",
		Short: "Type text through the machine",
		Long: `Type text through the machine and print the lit letters.

Input is upper-cased and stripped of accents first. Symbols outside the
wiring alphabet are dropped, or copied through with --keep-unknown.
Encryption is reciprocal: typing the output from the same start positions
gives back the input.

Settings come from flags, ENIGMA_* environment variables and enigma.yaml.

Examples:
  enigma encrypt HELLO WORLD
  enigma encrypt --positions QEV HELLO
  echo "attack at dawn" | enigma encrypt --group 5
  enigma encrypt --journal ./enigma.db --label test HELLO`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncrypt(rootOpts, cmd, args)
		},
	}

	cmd.Flags().String(config.KeyWiring, "", "wiring set name or .cue file (default enigma-i)")
	cmd.Flags().String(config.KeyPositions, "", "start positions, slowest rotor first")
	cmd.Flags().String(config.KeyJournal, "", "record keystrokes in this SQLite journal")
	cmd.Flags().String(config.KeyLabel, "", "label for the journal session")
	cmd.Flags().Bool(config.KeyKeepUnknown, false, "copy symbols outside the alphabet to the output")
	cmd.Flags().Int(config.KeyGroup, 0, "split output into groups of N letters")

	return cmd
}

func runEncrypt(opts *RootOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := opts.logger()

	cfg, err := config.Load(cmd.Flags(), opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	set, err := wiring.Resolve(cfg.Wiring)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve wiring", err)
	}

	mopts := []machine.Option{machine.WithLogger(logger)}
	if cfg.Positions != "" {
		mopts = append(mopts, machine.WithPositions(cfg.Positions))
	}
	m, err := set.NewMachine(mopts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build machine", err)
	}

	ropts := []trace.RecorderOption{trace.WithRecorderLogger(logger)}
	var sessionID string
	if cfg.Journal != "" {
		st, err := journal.Open(cfg.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()

		sessionID = opts.sessionIDs().Generate()
		if err := st.CreateSession(ctx, sessionID, cfg.Label); err != nil {
			return WrapExitError(ExitCommandError, "failed to create session", err)
		}
		ropts = append(ropts, trace.WithSession(sessionID), trace.WithSink(ctx, st))
		logger.Debug("journaling session", "session", sessionID, "journal", cfg.Journal)
	}

	rec := trace.NewRecorder(m, ropts...)
	start := m.Positions()
	rec.Attach()

	folded := textprep.Fold(input)
	output, err := encipher(m, folded, cfg.KeepUnknown)
	if err != nil {
		return WrapExitError(ExitCommandError, "encryption failed", err)
	}
	if err := rec.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write journal", err)
	}
	if cfg.Group > 0 && !cfg.KeepUnknown {
		output = textprep.Group(output, cfg.Group)
	}

	events := rec.Events()
	fp, err := trace.Fingerprint(events)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint trace", err)
	}

	result := EncryptResult{
		Wiring:      set.Name,
		Input:       folded,
		Output:      output,
		Start:       start,
		End:         m.Positions(),
		Session:     sessionID,
		Fingerprint: fp,
		Events:      len(events),
	}

	formatter := newFormatter(opts, cmd)
	formatter.VerboseLog("positions %s -> %s, %d events", result.Start, result.End, result.Events)
	if sessionID != "" {
		formatter.VerboseLog("session %s", sessionID)
	}
	return formatter.Success(result, result.Output)
}

// encipher types every symbol of text the machine knows. Other symbols are
// dropped, or copied through when keepUnknown is set.
func encipher(m *machine.Machine, text string, keepUnknown bool) (string, error) {
	var out strings.Builder
	for _, seg := range textprep.Segments(text, m.Alphabet().Contains) {
		if !seg.Cipher {
			if keepUnknown {
				out.WriteString(seg.Text)
			}
			continue
		}
		typed, err := m.Type(seg.Text)
		out.WriteString(typed)
		if err != nil {
			return out.String(), err
		}
	}
	return out.String(), nil
}

// readInput joins args, or reads stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/trace"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// SessionIDs names new journal sessions. Tests swap in a fixed generator.
	SessionIDs trace.SessionIDGenerator

	// Logger is built in PersistentPreRunE from Verbose.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the enigma CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{SessionIDs: trace.UUIDv7Generator{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enigma",
		Short: "Enigma - rotor cipher machine simulator",
		Long:  "Simulates a rotor cipher machine: encrypt text, record keystroke journals and verify them by replay.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			slog.SetDefault(opts.Logger)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: enigma.yaml in the user config dir, /etc/enigma or .)")

	cmd.AddCommand(NewEncryptCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewWiringCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// logger returns opts.Logger, or the default logger for commands run
// without the root command (tests).
func (opts *RootOptions) logger() *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

func (opts *RootOptions) sessionIDs() trace.SessionIDGenerator {
	if opts.SessionIDs != nil {
		return opts.SessionIDs
	}
	return trace.UUIDv7Generator{}
}

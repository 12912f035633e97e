package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/wiring"
)

// WiringInfo describes one wiring set.
type WiringInfo struct {
	Name        string   `json:"name"`
	Alphabet    string   `json:"alphabet"`
	Rotors      []string `json:"rotors"`
	Reflector   string   `json:"reflector"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// NewWiringCommand creates the wiring command and its subcommands.
func NewWiringCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wiring",
		Short: "Inspect and validate wiring sets",
		Long: `Inspect the built-in wiring sets or check a CUE wiring file.

A wiring file holds one set:

  name:      "tiny"
  alphabet:  "ABCD"
  rotors:    ["BCDA", "DCBA"]   // slowest first
  reflector: "BADC"`,
	}

	cmd.AddCommand(newWiringShowCommand(rootOpts))
	cmd.AddCommand(newWiringValidateCommand(rootOpts))
	return cmd
}

func newWiringShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name|file.cue]",
		Short: "List built-in sets, or show one set",
		Example: `  enigma wiring show
  enigma wiring show enigma-i-c
  enigma wiring show ./tiny.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts, cmd)

			if len(args) == 0 {
				names := wiring.Names()
				lines := make([]string, len(names))
				for i, name := range names {
					lines[i] = name
					if name == wiring.DefaultName {
						lines[i] += " (default)"
					}
				}
				return formatter.Success(names, strings.Join(lines, "\n"))
			}

			set, err := wiring.Resolve(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve wiring", err)
			}
			info, err := describeWiring(set)
			if err != nil {
				return WrapExitError(ExitFailure, "invalid wiring", err)
			}
			return formatter.Success(info, formatWiring(info))
		},
	}
}

func newWiringValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.cue>",
		Short: "Check a wiring file",
		Long: `Check that a CUE wiring file matches the schema and that every rotor
and the reflector are bijections over its alphabet.

Exit codes:
  0 - The file is valid
  1 - The file is invalid
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts, cmd)

			set, err := wiring.Load(args[0])
			if err != nil {
				code := string(cipher.CodeOf(err))
				if code == "" {
					code = string(cipher.ErrCodeInvalidWiring)
				}
				if ferr := formatter.Error(code, err.Error(), map[string]string{"file": args[0]}); ferr != nil {
					return ferr
				}
				return NewExitError(ExitFailure, fmt.Sprintf("invalid wiring file: %s", args[0]))
			}

			info, err := describeWiring(set)
			if err != nil {
				return WrapExitError(ExitFailure, "invalid wiring", err)
			}
			formatter.VerboseLog("%s", formatWiring(info))
			return formatter.Success(info, fmt.Sprintf("✓ %s: valid (%d rotors, %d symbols)", args[0], len(set.Rotors), len([]rune(info.Alphabet))))
		},
	}
}

func describeWiring(set wiring.Set) (WiringInfo, error) {
	notes, err := set.Diagnostics()
	if err != nil {
		return WiringInfo{}, err
	}
	return WiringInfo{
		Name:        set.Name,
		Alphabet:    set.AlphabetOrLatin(),
		Rotors:      set.Rotors,
		Reflector:   set.Reflector,
		Diagnostics: notes,
	}, nil
}

func formatWiring(info WiringInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:      %s\n", info.Name)
	fmt.Fprintf(&b, "Alphabet:  %s\n", info.Alphabet)
	for i, r := range info.Rotors {
		fmt.Fprintf(&b, "Rotor %d:   %s\n", i, r)
	}
	fmt.Fprintf(&b, "Reflector: %s", info.Reflector)
	for _, d := range info.Diagnostics {
		fmt.Fprintf(&b, "\nNote: %s", d)
	}
	return b.String()
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

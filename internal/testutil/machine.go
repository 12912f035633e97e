package testutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/trace"
	"github.com/roach88/enigma/internal/wiring"
)

// Machine builds a fresh machine from a wiring reference (built-in name or
// .cue file, "" for the default) at the given start positions ("" for the
// first symbol on every rotor).
func Machine(t testing.TB, ref, positions string) *machine.Machine {
	t.Helper()

	set, err := wiring.Resolve(ref)
	require.NoError(t, err)

	var opts []machine.Option
	if positions != "" {
		opts = append(opts, machine.WithPositions(positions))
	}
	m, err := set.NewMachine(opts...)
	require.NoError(t, err)
	return m
}

// RecordTyping types text on m with a fresh recorder attached and returns
// the lit letters and the recorded trace.
func RecordTyping(t testing.TB, m *machine.Machine, text string) (string, []trace.Event) {
	t.Helper()

	rec := trace.NewRecorder(m)
	rec.Attach()
	out, err := m.Type(text)
	require.NoError(t, err)
	return out, rec.Events()
}

// SessionIDs returns n predictable session ids: session-1, session-2, ...
func SessionIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "session-" + strconv.Itoa(i+1)
	}
	return ids
}

package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/trace"
)

func TestMachine(t *testing.T) {
	m := Machine(t, "", "")
	assert.Equal(t, "AAA", m.Positions())

	m = Machine(t, "enigma-i-c", "QEV")
	assert.Equal(t, "QEV", m.Positions())
	assert.Equal(t, 3, m.RotorCount())
}

func TestRecordTyping(t *testing.T) {
	out, events := RecordTyping(t, Machine(t, "", ""), "AAAAA")
	assert.Equal(t, "BDZGO", out)
	require.Len(t, events, 11)
	assert.Equal(t, trace.KindStart, events[0].Kind)
	assert.Equal(t, "BDZGO", trace.Output(events))
}

func TestSessionIDs(t *testing.T) {
	assert.Equal(t, []string{"session-1", "session-2", "session-3"}, SessionIDs(3))
	assert.Empty(t, SessionIDs(0))
}

func TestWriteSession(t *testing.T) {
	st := OpenJournal(t, JournalPath(t))

	WriteSession(t, st, "planted", "by hand", []trace.Event{
		{Seq: 1, Kind: trace.KindStart, Rotor: machine.NoRotor, Positions: "AAA"},
		{Seq: 2, Kind: trace.KindClick, Rotor: 2, Positions: "AAB"},
	})

	session, err := st.ReadSession(context.Background(), "planted")
	require.NoError(t, err)
	assert.Equal(t, "by hand", session.Label)
	assert.Equal(t, 2, session.Events)
	assert.Equal(t, 0, session.Presses)
}

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/trace"
)

func TestTrace_ListSessions(t *testing.T) {
	db := journaled(t, "HELLO WORLD", "AAAAA")

	stdout, _, err := execute(t, "", nil, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "session-1  -              21 events   10 keys")
	assert.Contains(t, stdout, "session-2  -              11 events    5 keys")
}

func TestTrace_ListSessionsJSON(t *testing.T) {
	db := journaled(t, "HELLO WORLD")

	stdout, _, err := execute(t, "", nil, "trace", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []SessionSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, SessionSummary{ID: "session-1", Events: 21, Presses: 10}, resp.Data[0])
}

func TestTrace_Session(t *testing.T) {
	db := journaled(t, "HELLO WORLD")

	stdout, _, err := execute(t, "", nil, "trace", "--db", db, "--session", "session-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Trace for Session: session-1")
	assert.Contains(t, stdout, "  #1 start [AAA]\n")
	assert.Contains(t, stdout, "  #2 press H -> I [AAB]\n")
	assert.Contains(t, stdout, "  #3 release H [AAB]\n")
	assert.Contains(t, stdout, "Output:      ILBDAAMTAZ")
	assert.Contains(t, stdout, "Fingerprint: "+helloFingerprint)
}

func TestTrace_SessionJSON(t *testing.T) {
	db := journaled(t, "HELLO WORLD")

	stdout, _, err := execute(t, "", nil, "trace", "--db", db, "--session", "session-1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "session-1", resp.Data.Session)
	assert.Len(t, resp.Data.Timeline, 21)
	assert.Equal(t, helloFingerprint, resp.Data.Fingerprint)
	assert.Equal(t, trace.KindStart, resp.Data.Timeline[0].Kind)
}

func TestTrace_UnknownSession(t *testing.T) {
	db := journaled(t, "A")

	_, _, err := execute(t, "", nil, "trace", "--db", db, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found: nope")
}

func TestDescribeEvents(t *testing.T) {
	var buf bytes.Buffer
	describeEvents(&buf, []trace.Event{
		{Seq: 1, Kind: trace.KindStart, Rotor: machine.NoRotor, Positions: "AAA"},
		{Seq: 2, Kind: trace.KindClick, Rotor: 0, Positions: "BAA"},
	})
	assert.Equal(t, "  #1 start [AAA]\n  #2 click rotor 0 [BAA]\n", buf.String())
}

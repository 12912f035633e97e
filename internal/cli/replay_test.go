package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/testutil"
	"github.com/roach88/enigma/internal/trace"
)

const helloFingerprint = "a87f8d632cdf82b2d16f6cb48617cb89497eb3def03495851a55770d746623a0"

// journaled encrypts each text in its own session and returns the journal path.
func journaled(t *testing.T, texts ...string) string {
	t.Helper()
	db := testutil.JournalPath(t)
	ids := testutil.SessionIDs(len(texts))
	for i, text := range texts {
		_, _, err := execute(t, "", ids[i:i+1], "encrypt", "--journal", db, text)
		require.NoError(t, err)
	}
	return db
}

func TestReplay_Deterministic(t *testing.T) {
	db := journaled(t, "HELLO WORLD", "AAAAA")

	stdout, _, err := execute(t, "", nil, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Replay Summary: 2 session(s), wiring enigma-i")
	assert.Contains(t, stdout, "✓ Session: session-1")
	assert.Contains(t, stdout, `Events: 21, output "ILBDAAMTAZ"`)
	assert.Contains(t, stdout, "✓ Session: session-2")
	assert.Contains(t, stdout, "✓ All sessions verified deterministic")
}

func TestReplay_JournalFromConfig(t *testing.T) {
	db := journaled(t, "HELLO WORLD")
	t.Setenv("ENIGMA_JOURNAL", db)

	stdout, _, err := execute(t, "", nil, "replay", "--format", "json", "--session", "session-1")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Sessions, 1)
	assert.Equal(t, helloFingerprint, resp.Data.Sessions[0].Fingerprint)
	assert.Equal(t, "ILBDAAMTAZ", resp.Data.Sessions[0].Output)
}

func TestReplay_WrongWiringDiverges(t *testing.T) {
	db := journaled(t, "HELLO WORLD")

	stdout, _, err := execute(t, "", nil, "replay", "--db", db, "--wiring", "enigma-i-c")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Session: session-1")
	assert.Contains(t, stdout, "[1] want")
	assert.Contains(t, stdout, "✗ Determinism verification failed")
}

func TestReplay_WrongWiringJSON(t *testing.T) {
	db := journaled(t, "HELLO")

	stdout, _, err := execute(t, "", nil, "replay", "--db", db, "--wiring", "enigma-i-c", "--format", "json")
	require.Error(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
		Error  *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_DETERMINISM", resp.Error.Code)
	assert.False(t, resp.Data.Sessions[0].Deterministic)
	assert.NotEmpty(t, resp.Data.Sessions[0].Divergences)
}

func TestReplay_TamperedJournal(t *testing.T) {
	db := testutil.JournalPath(t)
	testutil.WriteSession(t, testutil.OpenJournal(t, db), "forged", "", []trace.Event{
		{Seq: 1, Kind: trace.KindStart, Rotor: machine.NoRotor, Positions: "AAA"},
		{Seq: 2, Kind: trace.KindPress, Letter: "A", Lit: "C", Rotor: machine.NoRotor, Positions: "AAB"},
	})

	stdout, _, err := execute(t, "", nil, "replay", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Session: forged")
}

func TestReplay_EmptyJournal(t *testing.T) {
	db := testutil.JournalPath(t)
	testutil.OpenJournal(t, db)

	stdout, _, err := execute(t, "", nil, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No sessions found in journal.")
}

func TestReplay_Errors(t *testing.T) {
	db := journaled(t, "A")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no_journal", []string{"replay"}, "no journal"},
		{"missing_journal", []string{"replay", "--db", filepath.Join(t.TempDir(), "none.db")}, "journal not found"},
		{"unknown_session", []string{"replay", "--db", db, "--session", "nope"}, "session not found"},
		{"unknown_wiring", []string{"replay", "--db", db, "--wiring", "enigma-m4"}, "failed to resolve wiring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", nil, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

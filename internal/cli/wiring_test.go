package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyWiring = "../harness/testdata/wirings/tiny.cue"

func TestWiringShow_List(t *testing.T) {
	stdout, _, err := execute(t, "", nil, "wiring", "show")
	require.NoError(t, err)
	assert.Equal(t, "enigma-i (default)\nenigma-i-c\n", stdout)
}

func TestWiringShow_Builtin(t *testing.T) {
	stdout, _, err := execute(t, "", nil, "wiring", "show", "enigma-i")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "wiring_show_enigma_i", []byte(stdout))
}

func TestWiringShow_FileJSON(t *testing.T) {
	stdout, _, err := execute(t, "", nil, "wiring", "show", tinyWiring, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data WiringInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ABCD", resp.Data.Alphabet)
	assert.Equal(t, []string{"BCDA", "DCBA"}, resp.Data.Rotors)
	assert.Equal(t, "BADC", resp.Data.Reflector)
	assert.Empty(t, resp.Data.Diagnostics)
}

func TestWiringShow_Diagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.cue")
	require.NoError(t, os.WriteFile(path, []byte(`alphabet: "ABC"
rotors: ["BCA"]
reflector: "BCA"
`), 0o644))

	stdout, _, err := execute(t, "", nil, "wiring", "show", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Name:      odd")
	assert.Contains(t, stdout, "Note: reflector is not an involution")
}

func TestWiringShow_Unknown(t *testing.T) {
	_, _, err := execute(t, "", nil, "wiring", "show", "enigma-m4")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWiringValidate_Valid(t *testing.T) {
	stdout, _, err := execute(t, "", nil, "wiring", "validate", tinyWiring)
	require.NoError(t, err)
	assert.Contains(t, stdout, "valid (2 rotors, 4 symbols)")
}

func TestWiringValidate_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not_bijection", "rotors: [\"AACDEFGHIJKLMNOPQRSTUVWXYZ\"]\nreflector: \"YRUHQSLDPXNGOKMIEBFZCWVJAT\"\n", "INVALID_WIRING"},
		{"no_rotors", "rotors: []\nreflector: \"YRUHQSLDPXNGOKMIEBFZCWVJAT\"\n", "INVALID_WIRING"},
		{"unknown_field", "rotors: [\"BDFHJLCPRTXVZNYEIWGAKMUSQO\"]\nreflector: \"YRUHQSLDPXNGOKMIEBFZCWVJAT\"\nnotch: \"Q\"\n", "INVALID_WIRING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name+".cue")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			stdout, _, err := execute(t, "", nil, "wiring", "validate", path, "--format", "json")
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

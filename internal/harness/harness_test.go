package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/trace"
)

func intPtr(i int) *int { return &i }

func TestRun_FirstKeystroke(t *testing.T) {
	scenario := &Scenario{
		Name:        "inline_first_keystroke",
		Description: "A at AAA lights B",
		Steps: []Step{
			{Press: "A", Expect: "B"},
		},
		Assertions: []Assertion{
			{Type: AssertPositions, Value: "AAB"},
			{Type: AssertLampOn, Letter: "B"},
			{Type: AssertState, Value: "key_down"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "B", result.Output)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, trace.KindStart, result.Trace[0].Kind)
	assert.Equal(t, trace.KindPress, result.Trace[1].Kind)
}

func TestRun_ExpectMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectation",
		Steps: []Step{
			{Type: "AAAAA", Expect: "BDZGX"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected output "BDZGX", got "BDZGO"`)
}

func TestRun_ErrorExpectations(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr string
	}{
		{
			name:    "unexpected error",
			step:    Step{Release: "A"},
			wantErr: "unexpected error",
		},
		{
			name:    "expected error but succeeded",
			step:    Step{Press: "A", Error: "UNKNOWN_SYMBOL"},
			wantErr: "expected error UNKNOWN_SYMBOL, got success",
		},
		{
			name:    "wrong error code",
			step:    Step{Press: "a", Error: "INVALID_STATE_TRANSITION"},
			wantErr: "expected error INVALID_STATE_TRANSITION, got UNKNOWN_SYMBOL",
		},
		{
			name:    "expect on an operation without output",
			step:    Step{Click: intPtr(0), Expect: "A"},
			wantErr: "got none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(&Scenario{Name: "x", Description: "x", Steps: []Step{tt.step}})
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestRun_RejectedStepsLeaveNoTrace(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "rejects",
		Description: "rejects",
		Steps: []Step{
			{Release: "A", Error: "INVALID_STATE_TRANSITION"},
			{Click: intPtr(-1), Error: "INDEX_OUT_OF_RANGE"},
			{Set: "A?A", Error: "UNKNOWN_SYMBOL"},
		},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: "start", Count: 1},
			{Type: AssertTraceCount, Kind: "click", Count: 0},
			{Type: AssertPositions, Value: "AAA"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Trace, 1)
}

func TestRun_AssertionFailures(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "failing",
		Description: "every assertion fails",
		Steps:       []Step{{Press: "A"}},
		Assertions: []Assertion{
			{Type: AssertPositions, Value: "AAA"},
			{Type: AssertState, Value: "idle"},
			{Type: AssertLampOff, Letter: "B"},
			{Type: AssertLampOn, Letter: "C"},
			{Type: AssertOutput, Value: ""},
			{Type: AssertTraceCount, Kind: "press", Count: 2},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], `Expected: positions "AAA"`)
	assert.Contains(t, result.Errors[0], `Actual: positions "AAB"`)
	assert.Contains(t, result.Errors[0], "#2 press A -> B [AAB]", "failure carries the trace")
	assert.Contains(t, result.Errors[2], "lamp B off")
	assert.Contains(t, result.Errors[5], "1 press events")
}

func TestRun_SetupErrors(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Description: "x", Wiring: "enigma-ii", Steps: []Step{{Press: "A"}}})
	assert.ErrorContains(t, err, "wiring")

	_, err = Run(&Scenario{Name: "x", Description: "x", Positions: "AA", Steps: []Step{{Press: "A"}}})
	assert.ErrorContains(t, err, "build machine")
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "hello_world.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first.Trace)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second.Trace)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestScenarios_Golden(t *testing.T) {
	files, err := FindScenarios(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)
	require.Len(t, files, 6)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_Format(t *testing.T) {
	data, err := Snapshot("s", []trace.Event{{Seq: 1, Kind: trace.KindStart, Rotor: -1, Positions: "AAA"}})
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"s","trace":[{"kind":"start","positions":"AAA","seq":1}]}`, string(data))
}

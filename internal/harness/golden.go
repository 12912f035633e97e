package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/enigma/internal/trace"
)

// Snapshot returns the canonical JSON golden representation of a trace:
//
//	{"scenario_name":"...","trace":[...]}
//
// The same bytes are produced by every run of the same scenario.
func Snapshot(name string, events []trace.Event) ([]byte, error) {
	return trace.MarshalCanonical(map[string]any{
		"scenario_name": name,
		"trace":         trace.Objects(events),
	})
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if the scenario cannot run. A trace mismatch fails t via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against the golden file
// for scenarioName without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

package harness

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It carries the full trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []trace.Event
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", event)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the machine and the
// result of a run. Returns one message per failed assertion.
func EvaluateAssertions(m *machine.Machine, result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(m, result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(m *machine.Machine, result *Result, a Assertion) error {
	switch a.Type {
	case AssertPositions:
		return expectEqual(a.Type, a.Value, m.Positions(), result.Trace)
	case AssertState:
		return expectEqual(a.Type, a.Value, m.State().String(), result.Trace)
	case AssertOutput:
		return expectEqual(a.Type, a.Value, result.Output, result.Trace)
	case AssertLampOn, AssertLampOff:
		r, _ := utf8.DecodeRuneInString(a.Letter)
		want := a.Type == AssertLampOn
		if m.IsLampOn(r) != want {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("lamp %s %s", a.Letter, onOff(want)),
				Actual:   fmt.Sprintf("lamp %s %s", a.Letter, onOff(!want)),
				Trace:    result.Trace,
			}
		}
		return nil
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceCount checks that events of the kind appear exactly Count times.
func assertTraceCount(events []trace.Event, a Assertion) error {
	count := 0
	for _, e := range events {
		if string(e.Kind) == a.Kind {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d %s events", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d %s events", count, a.Kind),
			Trace:    events,
		}
	}
	return nil
}

func expectEqual(kind, want, got string, events []trace.Event) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%s %q", kind, want),
		Actual:   fmt.Sprintf("%s %q", kind, got),
		Trace:    events,
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

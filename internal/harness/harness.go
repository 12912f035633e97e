package harness

import (
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/roach88/enigma/internal/machine"
	"github.com/roach88/enigma/internal/trace"
	"github.com/roach88/enigma/internal/wiring"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step and assertion matched.
	Pass bool `json:"pass"`

	// Trace is the full recorded trace, start event included.
	Trace []trace.Event `json:"trace"`

	// Output is every lit letter of the run, in order.
	Output string `json:"output"`

	// Errors holds one message per failed step or assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Event{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Harness drives one machine through a scenario.
type Harness struct {
	m *machine.Machine
}

// Run executes a scenario on a freshly built machine and returns the result.
//
// Step and assertion mismatches are reported in Result.Errors. An error is
// returned only when the scenario cannot run at all: unknown wiring or
// invalid start positions.
func Run(scenario *Scenario) (*Result, error) {
	set, err := wiring.Resolve(scenario.Wiring)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wiring: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := []machine.Option{machine.WithLogger(logger)}
	if scenario.Positions != "" {
		opts = append(opts, machine.WithPositions(scenario.Positions))
	}
	m, err := set.NewMachine(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build machine: %w", err)
	}

	rec := trace.NewRecorder(m, trace.WithRecorderLogger(logger))
	rec.Attach()

	h := &Harness{m: m}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	result.Trace = rec.Events()
	result.Output = trace.Output(result.Trace)

	for _, msg := range EvaluateAssertions(m, result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeStep performs one step and records any mismatch in result.
// A rejected operation leaves the machine unchanged, so later steps still run.
func (h *Harness) executeStep(index int, step Step, result *Result) {
	op := step.Op()
	output, hasOutput, err := h.perform(step)

	code := machine.ErrorCode(err)
	switch {
	case step.Error != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got success", index, op, step.Error))
	case step.Error != "" && code != step.Error:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %v", index, op, step.Error, err))
	case step.Error == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, op, err))
	}

	if step.Expect != "" && hasOutput && output != step.Expect {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected output %q, got %q", index, op, step.Expect, output))
	}
	if step.Expect != "" && !hasOutput {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected output %q, got none", index, op, step.Expect))
	}
}

// perform runs the step's operation. hasOutput reports whether the step
// produced letters to compare with Expect.
func (h *Harness) perform(step Step) (output string, hasOutput bool, err error) {
	switch step.Op() {
	case "press":
		r, _ := utf8.DecodeRuneInString(step.Press)
		if err := h.m.KeyPressed(r); err != nil {
			return "", false, err
		}
		lit, ok := h.m.Lit()
		if !ok {
			return "", false, nil
		}
		return string(lit), true, nil
	case "release":
		r, _ := utf8.DecodeRuneInString(step.Release)
		return "", false, h.m.KeyReleased(r)
	case "click":
		return "", false, h.m.RotorClicked(*step.Click)
	case "set":
		return "", false, h.m.SetPositions(step.Set)
	case "type":
		out, err := h.m.Type(step.Type)
		return out, true, err
	default:
		return "", false, fmt.Errorf("empty step")
	}
}

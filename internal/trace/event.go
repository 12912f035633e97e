package trace

import (
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/machine"
)

// Kind identifies what an Event records.
type Kind string

const (
	// KindStart is the first event of every trace; it carries the start positions.
	KindStart Kind = "start"
	KindPress Kind = "press"
	// KindRelease clears every lamp.
	KindRelease Kind = "release"
	KindClick   Kind = "click"
	KindSet     Kind = "set"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindStart, KindPress, KindRelease, KindClick, KindSet:
		return true
	}
	return false
}

// KindOf maps a machine action to its event kind.
func KindOf(a machine.ActionKind) (Kind, error) {
	switch a {
	case machine.ActionPress:
		return KindPress, nil
	case machine.ActionRelease:
		return KindRelease, nil
	case machine.ActionClick:
		return KindClick, nil
	case machine.ActionSet:
		return KindSet, nil
	default:
		return "", fmt.Errorf("no event kind for action %q", a)
	}
}

// Event is one entry of a trace.
//
// Positions is always the state after the event. Letter is set for press and
// release, Lit only for press, Rotor only for click (machine.NoRotor otherwise).
type Event struct {
	Seq       int64  `json:"seq"`
	Kind      Kind   `json:"kind"`
	Letter    string `json:"letter,omitempty"`
	Rotor     int    `json:"rotor"`
	Lit       string `json:"lit,omitempty"`
	Positions string `json:"positions"`
}

// Object returns e as a canonical JSON object. Fields that do not apply to
// the event kind are left out.
func (e Event) Object() map[string]any {
	obj := map[string]any{
		"seq":       e.Seq,
		"kind":      string(e.Kind),
		"positions": e.Positions,
	}
	if e.Letter != "" {
		obj["letter"] = e.Letter
	}
	if e.Lit != "" {
		obj["lit"] = e.Lit
	}
	if e.Kind == KindClick {
		obj["rotor"] = e.Rotor
	}
	return obj
}

// Objects converts events for MarshalCanonical.
func Objects(events []Event) []any {
	out := make([]any, len(events))
	for i, e := range events {
		out[i] = e.Object()
	}
	return out
}

// String renders e as one timeline line, e.g. "#2 press A -> B [AAB]".
func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", e.Seq, e.Kind)
	switch e.Kind {
	case KindPress:
		fmt.Fprintf(&b, " %s -> %s", e.Letter, e.Lit)
	case KindRelease:
		fmt.Fprintf(&b, " %s", e.Letter)
	case KindClick:
		fmt.Fprintf(&b, " rotor %d", e.Rotor)
	}
	fmt.Fprintf(&b, " [%s]", e.Positions)
	return b.String()
}

// Output concatenates the lit letters of every press in events.
func Output(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Kind == KindPress {
			b.WriteString(e.Lit)
		}
	}
	return b.String()
}

package trace

import (
	"fmt"

	"github.com/roach88/enigma/internal/machine"
)

// Replay re-drives m with the operations recorded in events and returns the
// trace the replay produced.
//
// m must be freshly built with the same wiring as the recorded machine. A
// leading start event moves m to the recorded start positions before
// recording begins. The replayed trace is returned even when an operation
// fails, so the caller can Diff up to the failure.
func Replay(m *machine.Machine, events []Event) ([]Event, error) {
	rest := events
	if len(rest) > 0 && rest[0].Kind == KindStart {
		if err := m.SetPositions(rest[0].Positions); err != nil {
			return nil, fmt.Errorf("seq %d: start: %w", rest[0].Seq, err)
		}
		rest = rest[1:]
	}

	rec := NewRecorder(m)
	rec.Attach()

	for _, e := range rest {
		if err := apply(m, e); err != nil {
			return rec.Events(), fmt.Errorf("seq %d: %s: %w", e.Seq, e.Kind, err)
		}
	}
	return rec.Events(), nil
}

func apply(m *machine.Machine, e Event) error {
	switch e.Kind {
	case KindPress:
		r, err := letter(e)
		if err != nil {
			return err
		}
		return m.KeyPressed(r)
	case KindRelease:
		r, err := letter(e)
		if err != nil {
			return err
		}
		return m.KeyReleased(r)
	case KindClick:
		return m.RotorClicked(e.Rotor)
	case KindSet:
		return m.SetPositions(e.Positions)
	case KindStart:
		return fmt.Errorf("start event in the middle of a trace")
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

func letter(e Event) (rune, error) {
	runes := []rune(e.Letter)
	if len(runes) != 1 {
		return 0, fmt.Errorf("event letter %q is not a single symbol", e.Letter)
	}
	return runes[0], nil
}

// Divergence is one position where two traces differ.
// Want or Got is nil when one trace is shorter.
type Divergence struct {
	Index int
	Want  *Event
	Got   *Event
}

func (d Divergence) String() string {
	switch {
	case d.Want == nil:
		return fmt.Sprintf("[%d] unexpected %s", d.Index, d.Got)
	case d.Got == nil:
		return fmt.Sprintf("[%d] missing %s", d.Index, d.Want)
	default:
		return fmt.Sprintf("[%d] want %s, got %s", d.Index, d.Want, d.Got)
	}
}

// Diff compares two traces event by event, ignoring Seq.
// Seq is a property of where a trace was recorded, not of what happened.
func Diff(want, got []Event) []Divergence {
	var out []Divergence
	n := max(len(want), len(got))
	for i := 0; i < n; i++ {
		var w, g *Event
		if i < len(want) {
			w = &want[i]
		}
		if i < len(got) {
			g = &got[i]
		}
		if w != nil && g != nil && sameEvent(*w, *g) {
			continue
		}
		out = append(out, Divergence{Index: i, Want: w, Got: g})
	}
	return out
}

func sameEvent(a, b Event) bool {
	a.Seq, b.Seq = 0, 0
	return a == b
}

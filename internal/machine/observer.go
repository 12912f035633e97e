package machine

// Observer is notified after every successful state-mutating operation.
// Observers query the Machine for whatever they need; Update carries no data.
type Observer interface {
	Update()
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func()

// Update calls f.
func (f ObserverFunc) Update() {
	f()
}

// ActionKind names the mutating operation that last succeeded.
type ActionKind string

const (
	ActionNone    ActionKind = ""
	ActionPress   ActionKind = "press"
	ActionRelease ActionKind = "release"
	ActionClick   ActionKind = "click"
	ActionSet     ActionKind = "set"
)

// NoRotor is the Rotor value of an Action that does not address a rotor.
const NoRotor = -1

// Action describes the last successful mutation, so observers that journal
// activity can tell a keystroke from a manual rotor click.
type Action struct {
	Kind   ActionKind
	Letter rune // press, release
	Rotor  int  // click; NoRotor otherwise
}

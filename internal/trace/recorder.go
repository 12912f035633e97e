package trace

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/enigma/internal/machine"
)

// Sink receives every recorded event, in seq order.
type Sink interface {
	Append(ctx context.Context, sessionID string, e Event) error
}

// Recorder is a machine.Observer that turns notifications into Events.
//
// Observers cannot return errors to the machine, so a Sink failure is kept
// and reported by Err. Events keep being recorded in memory after a failure;
// only the sink stops receiving them.
type Recorder struct {
	m       *machine.Machine
	clock   *Clock
	session string
	sink    Sink
	ctx     context.Context
	logger  *slog.Logger

	events   []Event
	err      error
	attached bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the clock stamping events. Default: NewClock().
func WithClock(c *Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithSession sets the session id passed to the sink.
func WithSession(id string) RecorderOption {
	return func(r *Recorder) {
		r.session = id
	}
}

// WithSink forwards every event to sink using ctx.
func WithSink(ctx context.Context, sink Sink) RecorderOption {
	return func(r *Recorder) {
		r.ctx = ctx
		r.sink = sink
	}
}

// WithRecorderLogger sets the logger for sink failures. Default: slog.Default().
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a Recorder for m. Call Attach to start recording.
func NewRecorder(m *machine.Machine, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		m:      m,
		clock:  NewClock(),
		ctx:    context.Background(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach records the start event with the current positions and registers
// the recorder with the machine. Calling it twice has no effect.
func (r *Recorder) Attach() {
	if r.attached {
		return
	}
	r.attached = true
	r.record(Event{Kind: KindStart, Rotor: machine.NoRotor, Positions: r.m.Positions()})
	r.m.AddObserver(r)
}

// Update implements machine.Observer.
func (r *Recorder) Update() {
	a := r.m.LastAction()
	kind, err := KindOf(a.Kind)
	if err != nil {
		r.logger.Error("unrecordable action", "error", err)
		return
	}

	e := Event{Kind: kind, Rotor: machine.NoRotor, Positions: r.m.Positions()}
	switch kind {
	case KindPress:
		e.Letter = string(a.Letter)
		if lit, ok := r.m.Lit(); ok {
			e.Lit = string(lit)
		}
	case KindRelease:
		e.Letter = string(a.Letter)
	case KindClick:
		e.Rotor = a.Rotor
	}
	r.record(e)
}

func (r *Recorder) record(e Event) {
	e.Seq = r.clock.Next()
	r.events = append(r.events, e)

	if r.sink == nil || r.err != nil {
		return
	}
	if err := r.sink.Append(r.ctx, r.session, e); err != nil {
		r.err = err
		r.logger.Error("trace sink failed",
			"session", r.session,
			"seq", e.Seq,
			"error", err,
		)
	}
}

// Events returns a copy of the recorded trace.
func (r *Recorder) Events() []Event {
	return slices.Clone(r.events)
}

// Err returns the first sink error, if any.
func (r *Recorder) Err() error {
	return r.err
}

// SessionID returns the session id given with WithSession.
func (r *Recorder) SessionID() string {
	return r.session
}

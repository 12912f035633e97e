package journal

import (
	"context"
	"fmt"

	"github.com/roach88/enigma/internal/trace"
)

// CreateSession inserts a session. Creating an existing id is a no-op, so the
// first label wins.
func (s *Store) CreateSession(ctx context.Context, id, label string) error {
	if id == "" {
		return fmt.Errorf("create session: empty id")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, label)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Append stores one event of a session. It implements trace.Sink.
//
// Appending a (session, seq) pair that already exists is silently ignored.
// The session must exist (foreign key).
func (s *Store) Append(ctx context.Context, sessionID string, e trace.Event) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("append event %d: unknown kind %q", e.Seq, e.Kind)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events
		(session_id, seq, kind, letter, rotor, lit, positions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		sessionID,
		e.Seq,
		string(e.Kind),
		e.Letter,
		e.Rotor,
		e.Lit,
		e.Positions,
	)
	if err != nil {
		return fmt.Errorf("append event %d: %w", e.Seq, err)
	}
	return nil
}

var _ trace.Sink = (*Store)(nil)

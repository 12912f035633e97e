package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/enigma/internal/trace"
)

// ErrSessionNotFound is returned by ReadSession for an unknown id.
var ErrSessionNotFound = errors.New("session not found")

// Session summarizes one journaled session.
type Session struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Events int    `json:"events"`
	// Presses counts key presses, i.e. output letters.
	Presses int `json:"presses"`
}

const sessionSummary = `
	SELECT s.id, s.label,
	       COUNT(e.id),
	       COALESCE(SUM(CASE WHEN e.kind = 'press' THEN 1 ELSE 0 END), 0)
	FROM sessions s
	LEFT JOIN events e ON e.session_id = s.id
`

// ReadSession returns the summary of session id.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, sessionSummary+`
		WHERE s.id = ?
		GROUP BY s.id
	`, id)

	var sess Session
	err := row.Scan(&sess.ID, &sess.Label, &sess.Events, &sess.Presses)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("read session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sess, nil
}

// ListSessions returns every session ordered by id. UUIDv7 ids sort by
// creation time.
//
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, sessionSummary+`
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Label, &sess.Events, &sess.Presses); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadEvents returns the trace of a session in seq order.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, letter, rotor, lit, positions
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var e trace.Event
		var kind string
		if err := rows.Scan(&e.Seq, &kind, &e.Letter, &e.Rotor, &e.Lit, &e.Positions); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = trace.Kind(kind)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Package journal provides SQLite-backed storage for keystroke traces.
//
// The journal is append-only:
//   - Sessions: one row per recorded run, identified by a UUIDv7
//   - Events: the trace of a session, one row per trace.Event
//
// # Ordering
//
// All ordering uses the seq column written by the trace Clock, never
// timestamps. Event queries use ORDER BY seq ASC, so a session reads back in
// exactly the order it was recorded.
//
// # Idempotency
//
// UNIQUE(session_id, seq) with ON CONFLICT DO NOTHING makes a repeated
// Append a no-op, so a retried write never duplicates an event.
//
// # What is not stored
//
// Only keystrokes are journaled. Wiring and other machine configuration are
// supplied again when a session is replayed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: Events must belong to a session
package journal

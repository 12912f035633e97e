package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/journal"
	"github.com/roach88/enigma/internal/trace"
)

// JournalPath returns a journal path inside a per-test temp dir. Nothing is
// created.
func JournalPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "enigma.db")
}

// OpenJournal opens a journal at path and closes it when the test ends.
func OpenJournal(t testing.TB, path string) *journal.Store {
	t.Helper()

	st, err := journal.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// WriteSession stores events as session id, bypassing the recorder. Used to
// plant journals that no machine would produce.
func WriteSession(t testing.TB, st *journal.Store, id, label string, events []trace.Event) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, st.CreateSession(ctx, id, label))
	for _, e := range events {
		require.NoError(t, st.Append(ctx, id, e))
	}
}

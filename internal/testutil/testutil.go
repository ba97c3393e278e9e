package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/medpass/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The single-connection pool keeps the in-memory database alive for the
// duration of the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testDB.Close())
	})
	return testDB.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brainydocs/brainydocs/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func newTestUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{Email: email, Name: "Tester", Provider: domain.ProviderLocal}
	require.NoError(t, NewUserRepository(db).Create(user))

	return user
}

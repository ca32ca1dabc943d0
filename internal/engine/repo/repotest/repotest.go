// Package repotest opens an isolated in-memory store for tests
package repotest

import (
	"context"
	"testing"

	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/stretchr/testify/require"
)

// NewDB opens a private in-memory sqlite database that is closed with the test
func NewDB(t testing.TB) *database.GormDB {
	t.Helper()
	db, err := database.NewDatabase(database.Database{
		Driver: database.DriverSQLite,
		SQLite: database.SQLiteConfig{
			Path: "file:" + id.GetUlid() + "?mode=memory&cache=shared",
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewStore returns a migrated store over NewDB
func NewStore(t testing.TB, opts ...repo.StoreOption) *repo.Store {
	t.Helper()
	store := repo.NewStore(NewDB(t), opts...)
	require.NoError(t, store.AutoMigrate(context.Background()))
	return store
}

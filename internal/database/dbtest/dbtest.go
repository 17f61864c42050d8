// Package dbtest gives tests an in-memory SQLite ledger bound to database.DB.
package dbtest

import (
	"testing"

	"github.com/lijinmangal/janananma/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup opens a fresh migrated database, installs it as database.DB and
// restores the previous handle when the test ends.
//
// A single connection is kept open: every new connection to ":memory:" would
// see an empty database.
func Setup(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

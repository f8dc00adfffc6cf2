// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bachhoa/bachhoa-store/internal/database"
)

// New returns a migrated, role-seeded in-memory SQLite database that is
// closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	return NewWithLogger(t, zap.NewNop())
}

// NewWithLogger is New with gorm logging to log.
func NewWithLogger(t testing.TB, log *zap.Logger) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedRoles(db))

	t.Cleanup(func() {
		if pool, err := db.DB(); err == nil {
			pool.Close()
		}
	})
	return db
}

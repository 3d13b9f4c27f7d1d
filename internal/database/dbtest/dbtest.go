// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bountychain/report-vault/internal/config"
	"github.com/bountychain/report-vault/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memCounter atomic.Int64

// Open returns a migrated, isolated in-memory sqlite database that is closed
// when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_foreign_keys=1", memCounter.Add(1))
	db, err := database.Open(&config.Config{DBDriver: "sqlite", SQLitePath: name})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

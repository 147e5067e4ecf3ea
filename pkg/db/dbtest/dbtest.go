// Package dbtest opens migrated SQLite databases for package tests.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/promonitor/storefront/pkg/db"
	"github.com/promonitor/storefront/pkg/migrate"
	"gorm.io/driver/sqlite"
)

// New returns a client over a fresh database file with every migration applied.
func New(t testing.TB) *db.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storefront.db")
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := migrate.Up(context.Background(), sqlDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db.NewFromGorm(conn)
}

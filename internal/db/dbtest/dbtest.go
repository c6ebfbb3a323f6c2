// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"strings"
	"testing"

	"github.com/diewo77/slatko-ops/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the password of every seeded user in tests.
const Password = "test-password"

// Open returns a migrated database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// Seeded returns a migrated database loaded with the demo catalogue.
func Seeded(t testing.TB) *gorm.DB {
	t.Helper()
	conn := Open(t)
	if err := db.Seed(conn, db.SeedOptions{Password: Password, BcryptCost: bcrypt.MinCost}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return conn
}

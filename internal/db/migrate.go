package db

import (
	"embed"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		// Auth & Authorization
		&models.Permission{},
		&models.Profile{},
		&models.User{},
		&models.Session{},
		// Business entities
		&models.CompanySettings{},
		&models.Client{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Visit{},
		&models.VisitLine{},
		&models.Payment{},
		&models.Purchase{},
		&models.ProductionBatch{},
		&models.AuditLog{},
	}
}

// Migrate runs AutoMigrate for all models. Used for sqlite and for
// development databases; production postgres uses RunSQLMigrations.
func Migrate(conn *gorm.DB) error {
	return errors.Wrap(conn.AutoMigrate(AllModels()...), "automigrate")
}

// RunSQLMigrations applies the embedded SQL migrations to a postgres database.
func RunSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, parseDSN(dsn).URL())
	if err != nil {
		return errors.Wrap(err, "init migrate")
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

package db

import (
	"time"

	"github.com/diewo77/slatko-ops/internal/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store. Postgres connections are retried a
// few times so the server can start alongside its database container.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if cfg.Driver() == "sqlite" {
		conn, err := gorm.Open(sqlite.Open(cfg.SQLitePath()), gcfg)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		return conn, nil
	}

	dsn := parseDSN(cfg.URL).String()
	var (
		conn *gorm.DB
		err  error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		conn, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			return conn, nil
		}
		logrus.WithError(err).WithField("attempt", attempt).Warn("database not reachable, retrying")
		time.Sleep(2 * time.Second)
	}
	return nil, errors.Wrap(err, "open postgres")
}

// Ping runs a trivial query, used by the health check.
func Ping(conn *gorm.DB) error {
	return conn.Exec("SELECT 1").Error
}

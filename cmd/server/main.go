package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/slatko-ops/internal/config"
	"github.com/diewo77/slatko-ops/internal/db"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:          "slatko",
	Short:        "Slatko distribution operations API",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed and serve the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, conn, err := bootstrap()
		if err != nil {
			return err
		}
		if err := migrateDB(conn, cfg); err != nil {
			return err
		}
		logrus.Info("migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalogue (idempotent) and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, conn, err := bootstrap()
		if err != nil {
			return err
		}
		if err := migrateDB(conn, cfg); err != nil {
			return err
		}
		if err := seedDB(conn, cfg); err != nil {
			return err
		}
		logrus.Info("seeding completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, configures logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	setupLogging(cfg.App)
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func migrateDB(conn *gorm.DB, cfg *config.Config) error {
	if cfg.App.Migrations && cfg.Database.Driver() == "postgres" {
		return db.RunSQLMigrations(cfg.Database.URL)
	}
	return db.Migrate(conn)
}

func seedDB(conn *gorm.DB, cfg *config.Config) error {
	return db.Seed(conn, db.SeedOptions{Password: cfg.App.SeedPassword, BcryptCost: bcrypt.DefaultCost})
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, conn, err := bootstrap()
	if errors.Is(err, config.ErrMissingRequired) {
		logrus.WithError(err).Error("serving configuration error notice only")
		return serve(ctx, &http.Server{
			Addr:              ":" + config.Port(),
			Handler:           withRecover(ConfigErrorHandler()),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}
	if err != nil {
		return err
	}

	if err := migrateDB(conn, cfg); err != nil {
		return err
	}
	if cfg.App.Seed {
		if err := seedDB(conn, cfg); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      NewApp(conn, cfg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	return serve(ctx, srv)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		logrus.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}

func setupLogging(app config.AppConfig) {
	if app.Production() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(app.LogLevel)
	if err != nil {
		logrus.WithField("level", app.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

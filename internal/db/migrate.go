// Package db opens the database and brings its schema up to date.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-gestion/internal/config"
	"github.com/diewo77/go-gestion/internal/models"
)

// MigrationsDir holds the SQL migrations applied when MIGRATIONS=1.
const MigrationsDir = "migrations"

const connectAttempts = 10

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{
		&models.User{},
		&models.CompanySettings{},
		&models.Client{},
		&models.Article{},
		&models.Booking{},
		&models.Invoice{},
		&models.InvoiceLine{},
	}
}

// Connect opens the configured database, retrying while postgres starts,
// then applies SQL migrations or AutoMigrate.
func Connect(ctx context.Context, cfg config.DatabaseConfig, migrations bool, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	dsn := cfg.DSN()
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		dsn = NormalizeDSN(dsn)
		if dsn == "" {
			return nil, errors.New("empty database DSN")
		}
		dialector = postgres.Open(dsn)
	}
	log.Info().Str("driver", cfg.Driver).Str("dsn", MaskDSN(dsn)).Msg("connecting to database")

	var gdb *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		gdb, err = gorm.Open(dialector, gcfg)
		if err == nil {
			err = gdb.WithContext(ctx).Exec("SELECT 1").Error
		}
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("database not ready, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if migrations && cfg.Driver == "postgres" {
		log.Info().Str("dir", MigrationsDir).Msg("running sql migrations")
		if err := RunSQLMigrations(MigrationsDir, ToURLDSN(dsn)); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := Migrate(gdb); err != nil {
		return nil, err
	}

	if err := checkTables(gdb); err != nil {
		return nil, err
	}
	if cfg.Seed {
		if err := Seed(ctx, gdb); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return gdb, nil
}

// Migrate creates or updates every table from the models.
func Migrate(gdb *gorm.DB) error {
	for _, m := range Models() {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func checkTables(gdb *gorm.DB) error {
	for _, table := range []string{"users", "clients", "articles", "bookings", "factures", "facture_lines"} {
		if !gdb.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// RunSQLMigrations applies the migrations found in dir using golang-migrate.
func RunSQLMigrations(dir, url string) error {
	m, err := migrate.New("file://"+dir, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Seed stores the default invoice issuer when none exists.
func Seed(ctx context.Context, gdb *gorm.DB) error {
	var n int64
	if err := gdb.WithContext(ctx).Model(&models.CompanySettings{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return gdb.WithContext(ctx).Create(&models.CompanySettings{
		Name:     "ENTREPRISE OKOTAN",
		Activity: "Import/Export",
		Address:  "123 Rue des Affaires, Abidjan",
		Phone:    "+225 01 23 45 67 89",
		Email:    "contact@okotan.com",
	}).Error
}

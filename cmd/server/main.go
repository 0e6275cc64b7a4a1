package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/config"
	"github.com/diewo77/go-gestion/internal/currency"
	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/obs"
	"github.com/diewo77/go-gestion/view"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := obs.NewLogger(cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *seedOnlyFlag {
		cfg.Database.Seed = true
	}
	dbConn, err := db.Connect(ctx, cfg.Database, cfg.App.Migrations, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if *migrateOnlyFlag || *seedOnlyFlag {
		log.Info().Bool("seed", cfg.Database.Seed).Msg("database ready, exiting")
		return
	}

	auth.SetSecret(cfg.App.SessionSecret)
	auth.SetUserVerifier(userVerifier(dbConn))

	money := currency.New(cfg.App.Currency)
	view.SetDev(cfg.App.Dev)
	view.SetCurrency(money)
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics("gestion", reg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(dbConn, log, metrics, money),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Str("currency", money.Unit).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped gracefully")
}

// userVerifier rejects sessions of users that no longer exist.
func userVerifier(gdb *gorm.DB) auth.UserVerifier {
	return func(ctx context.Context, uid uint) bool {
		var count int64
		if err := gdb.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	}
}

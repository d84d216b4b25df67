// Package bootstrap wires configuration, adapters and services into a
// runnable application.
package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/adapters/clock"
	"github.com/mapforge/mapforge/adapters/idgen"
	"github.com/mapforge/mapforge/adapters/memory"
	"github.com/mapforge/mapforge/adapters/metrics"
	"github.com/mapforge/mapforge/adapters/sqlite"
	"github.com/mapforge/mapforge/adapters/xsd"
	"github.com/mapforge/mapforge/app"
	"github.com/mapforge/mapforge/config"
	"github.com/mapforge/mapforge/domain/schema"
	"github.com/mapforge/mapforge/ports"
)

// App holds all wired components.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Metrics  *metrics.Collector
	Resolver *xsd.Resolver
	Store    ports.MappingStore

	Formula    *app.FormulaService
	Executor   *app.Executor
	Validator  *app.Validator
	AutoMapper *app.AutoMapper
	Reverser   *app.Reverser

	db      *sqlite.DB
	watcher *xsd.Watcher
	metrics *http.Server
}

// New creates an application from configuration.
func New(cfg *config.Config) (*App, error) {
	logger := SetupLogger(cfg.Logging)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New(prometheus.DefaultRegisterer)
	}

	families := make([]schema.Family, 0, len(cfg.Schemas))
	watch := false
	for _, fam := range cfg.Schemas {
		families = append(families, schema.Family{ID: fam.ID, Prefix: fam.Prefix, Dir: fam.Dir})
		watch = watch || fam.Watch
	}
	resolver := xsd.New(os.DirFS("."), families, logger, collector)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  collector,
		Resolver: resolver,
	}

	if watch {
		w, err := xsd.NewWatcher(resolver, ".", logger)
		if err != nil {
			return nil, fmt.Errorf("watch schemas: %w", err)
		}
		a.watcher = w
	}

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
		a.Store = sqlite.NewMappingStore(db)
	default:
		a.Store = memory.NewMappingStore()
	}

	a.Formula = app.NewFormulaService()
	a.Executor = app.NewExecutor(resolver, a.Formula, clock.Real{}, logger, collector)
	a.Validator = app.NewValidator(resolver, a.Formula, logger, collector)
	a.AutoMapper = app.NewAutoMapper(idgen.UUID{}, logger)
	a.Reverser = app.NewReverser(logger)

	if cfg.Metrics.Enabled {
		a.serveMetrics()
	}

	return a, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.metrics != nil {
		a.metrics.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle(a.Config.Metrics.Path, promhttp.Handler())
	a.metrics = &http.Server{
		Addr:         a.Config.Metrics.Listen,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	a.Logger.Info().Str("addr", a.Config.Metrics.Listen).Msg("serving metrics")
}

// SetupLogger builds the root logger from logging configuration.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

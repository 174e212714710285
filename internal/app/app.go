package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/squad-tracker/internal/config"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/squad-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-tracker/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/squad-tracker/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/squad-tracker/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/squad-tracker/internal/platform/id"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
	"github.com/riskibarqy/squad-tracker/internal/platform/resilience"
	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

// App owns the opened store, the loaded workspace and the services built on
// it. Close releases the store.
type App struct {
	Workspace *usecase.Workspace
	Services  httpapi.Services
	Report    usecase.LoadReport

	logger *logging.Logger
	closer io.Closer
}

type options struct {
	readReplica bool
}

// Option adjusts how New assembles the app.
type Option func(*options)

// AsReadReplica marks a process that only reads a store another process
// writes. It refreshes its workspace often, so slot reads go through the TTL
// cache when CacheEnabled is set.
func AsReadReplica() Option {
	return func(o *options) { o.readReplica = true }
}

// New opens the configured slot store, hydrates the workspace from it and
// wires every service.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if o.readReplica && cfg.CacheEnabled && cfg.StorageDriver != config.StorageMemory {
		store = cache.NewSlotStore(store, cfg.CacheTTL)
		logger.Info("slot reads cached", "ttl", cfg.CacheTTL)
	}

	workspace := usecase.NewWorkspace(store, usecase.WorkspaceOptions{
		MinutesMax: cfg.MinutesMaxPerAllocation,
		Logger:     logger,
	})
	report, err := workspace.Load(ctx)
	if err != nil {
		closeQuietly(closer, logger)
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	logger.Info("app ready",
		"storage_driver", cfg.StorageDriver,
		"fallback_slots", len(report.Fallbacks),
		"derived_match_day", report.DerivedMatchDay,
	)

	return &App{
		Workspace: workspace,
		Services:  newServices(workspace, logger),
		Report:    report,
		logger:    logger,
		closer:    closer,
	}, nil
}

func newServices(workspace *usecase.Workspace, logger *logging.Logger) httpapi.Services {
	return httpapi.Services{
		Roster:     usecase.NewRosterService(workspace, idgen.NewNanoGenerator(), logger),
		Minutes:    usecase.NewMinutesService(workspace, logger),
		GoalAssist: usecase.NewGoalAssistService(workspace, logger),
		Ranking:    usecase.NewRankingService(workspace, logger),
		Seasons:    usecase.NewSeasonService(workspace, logger),
		Archive:    usecase.NewArchiveService(workspace, logger),
		Career:     usecase.NewCareerService(workspace, logger),
		Training:   usecase.NewTrainingService(workspace, logger),
		Backup:     usecase.NewBackupService(workspace, logger),
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (slotstore.Store, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewSlotStore(nil), nil, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewSlotStore(db), db, nil
	case config.StoragePostgres:
		db, err := otelsqlx.Open("postgres", cfg.DBURL, postgresTraceOptions(cfg.DBURL)...)
		if err != nil {
			return nil, nil, crerr.Wrapf(err, "open postgres %s", redactDBURL(cfg.DBURL))
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxOpenConns)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, crerr.Wrapf(err, "ping postgres %s", redactDBURL(cfg.DBURL))
		}
		logger.Info("postgres connected", "dsn", redactDBURL(cfg.DBURL), "max_open_conns", cfg.DBMaxOpenConns)
		breaker := resilience.NewCircuitBreaker(resilience.DefaultBreakerConfig())
		return postgres.NewSlotStore(db, breaker), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// NewHTTPServer builds the API server around the app's services.
func (a *App) NewHTTPServer(cfg config.Config) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Services, a.logger)
	router := httpapi.NewRouter(handler, a.logger, cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func closeQuietly(closer io.Closer, logger *logging.Logger) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn("close store failed", "error", err)
	}
}

// Package server initializes and runs the timevault server: it opens the
// database, applies migrations, wires the ledger, auth and vault services
// and runs the gRPC and metrics endpoints until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/timevault/internal/logging"
	"github.com/dmitrijs2005/timevault/internal/server/config"
	"github.com/dmitrijs2005/timevault/internal/server/metrics"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timevault/internal/server/services"
	"github.com/dmitrijs2005/timevault/internal/timex"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/timevault/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	registry      *prometheus.Registry
	collector     *metrics.Collector
	authService   *services.AuthService
	ledgerService *services.LedgerService
	vaultService  *services.VaultService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	as, err := services.NewAuthService(db, rm, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	ls := services.NewLedgerService(db, rm, logger)
	store := services.NewVaultStore(c.ProgramID(), rm)
	vs := services.NewVaultService(db, rm, store, ls, timex.SystemClock{}, logger, collector, services.NewReceiptArchive(c))

	logger.Info(ctx, "vault program",
		"program", store.Program(), "pool", store.Pool(), "pool_authority", store.Authority())

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		registry:      registry,
		collector:     collector,
		authService:   as,
		ledgerService: ls,
		vaultService:  vs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	limiter := gs.NewRateLimiter(app.config.RateLimit, app.config.RateBurst)
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.authService, app.ledgerService, app.vaultService, limiter, app.collector)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {

	router := metrics.NewRouter(app.registry, app.db.PingContext)
	s := metrics.NewServer(app.config.MetricsAddr, router, logging.Named(app.logger, "metrics"))

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

const tokenSweepInterval = 10 * time.Minute

// sweepRefreshTokens purges expired refresh tokens until ctx is done.
func (app *App) sweepRefreshTokens(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token sweep failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "refresh tokens purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweepRefreshTokens(ctx, tokenSweepInterval)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}

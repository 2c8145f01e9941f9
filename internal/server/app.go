// Package server wires configuration, storage, sessions and the HTTP and gRPC
// endpoints together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/auth"
	"github.com/dmitrijs2005/studentcrm/internal/server/cache"
	"github.com/dmitrijs2005/studentcrm/internal/server/config"
	gs "github.com/dmitrijs2005/studentcrm/internal/server/grpc"
	httpapi "github.com/dmitrijs2005/studentcrm/internal/server/http"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studentcrm/internal/server/services"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler http.Handler
}

// NewApp opens PostgreSQL and Redis, applies migrations and builds the
// services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb, err := cache.Connect(ctx, c.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}

	hasher := auth.NewHasher(c.BcryptCost)

	sessions := services.NewSessionService(db, rm, cache.NewSessionStore(rdb), hasher, c, logger)
	users := services.NewUserService(db, rm, hasher, logger)
	recovery := services.NewRecoveryService(db, rm, cache.NewRecoveryStore(rdb), hasher, c, logger)
	courses := services.NewCourseService(db, rm, sessions, c.BootstrapCourses, logger)

	h := httpapi.NewHandler(sessions, users, recovery, courses,
		httpapi.CookieOptions{Name: c.CookieName, Secure: c.CookieSecure}, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		redis:   rdb,
		handler: httpapi.NewRouter(h),
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	checks := map[string]gs.Check{
		"postgres": app.db.PingContext,
		"redis":    func(ctx context.Context) error { return app.redis.Ping(ctx).Err() },
	}

	s := gs.NewHealthServer(app.config.GRPCAddr, app.config.HealthInterval, checks, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.redis.Close(); err != nil {
		app.logger.Warn(ctx, "redis close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

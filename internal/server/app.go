// Package server initializes and runs the ParkDesk server: it opens and
// migrates the store, builds the services, starts the backup scheduler and
// serves gRPC and HTTP until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/server/backup"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	"github.com/dmitrijs2005/parkdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
	"github.com/dmitrijs2005/parkdesk/internal/server/store"

	gs "github.com/dmitrijs2005/parkdesk/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services *services.Set
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	db, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := migrations.Migrate(ctx, db, migrations.WithLogger(logger)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	opts := []backup.Option{backup.WithLogger(logger)}
	if u := backup.NewS3Uploader(backup.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	}); u != nil {
		opts = append(opts, backup.WithUploader(u))
	}
	bm := backup.NewManager(db, c.BackupDir, opts...)

	svc := services.NewSet(db, repomanager.NewSQLiteRepositoryManager(), c, bm, services.WithLogger(logger))

	return &App{config: c, logger: logger, db: db, services: svc}, nil
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
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.services)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.db, app.services, app.logger.With("module", "http"))
	router := httpapi.NewRouter(h, app.config.HTTPRequestsPerSecond, app.config.HTTPBurst)
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// stops the scheduler and closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.services.Backups.StartScheduler(ctx); err != nil {
		app.logger.Error(ctx, "backup scheduler not started", "error", err.Error())
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.services.Backups.StopScheduler()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}

// Package server initializes and runs the admin auth application: it opens
// the database, runs migrations, wires services to the HTTP layer, and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/funnelforge/adminauth/internal/logging"
	"github.com/funnelforge/adminauth/internal/server/config"
	adminhttp "github.com/funnelforge/adminauth/internal/server/http"
	"github.com/funnelforge/adminauth/internal/server/repositories/repomanager"
	"github.com/funnelforge/adminauth/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *adminhttp.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	admins := services.NewAdminService(db, rm)
	sessions := services.NewSessionService(db, rm)
	resets := services.NewResetService(db, rm)

	handler := adminhttp.NewHandler(admins, sessions, resets, logger,
		[]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	server := adminhttp.NewServer(cfg.EndpointAddrHTTP, handler, []byte(cfg.SecretKey), logger)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting admin auth server", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

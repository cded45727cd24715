package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	xhttp "MiniForecast/pkg/http"
	applogger "MiniForecast/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	l          *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(l *applogger.Logger, httpServer *xhttp.Server) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{l: l, httpServer: httpServer}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is cancelled or the listener fails.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case err := <-a.httpServer.Errors():
		a.l.Error("http server error", applogger.Error(err))
		runErr = err
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown gracefully stops the HTTP server.
func (a *App) shutdown() error {
	a.l.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return fmt.Errorf("http shutdown: %w", err)
	}

	a.l.Info("shutdown complete")
	return nil
}

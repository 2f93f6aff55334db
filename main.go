package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sparkup/sparkup-api/api/handlers"
	"github.com/sparkup/sparkup-api/api/scheduler"
	"github.com/sparkup/sparkup-api/config"
)

const shutdownTimeout = 20 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{}
	a.Config = *config.New()
	defer zap.L().Sync() //nolint:errcheck

	if err := a.Initialize(ctx); err != nil { //initialize database and router
		zap.S().Fatalw("failed to initialize", "error", err)
	}
	go a.Metrics.Run(ctx)

	s := scheduler.NewScheduler(a.StartupDatabase(), a.Config.CleanupSchedule, a.Config.InviteRetention)
	if err := s.Start(); err != nil {
		zap.S().Fatalw("failed to start scheduler", "error", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.S().Infow("sparkup-api is up and running",
			"port", a.Config.Port,
			"url", a.Config.BaseURL,
			"env", a.Config.Env,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Errorw("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	zap.S().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("failed to shut down server", "error", err)
	}
	s.Stop()
	if err := a.Close(shutdownCtx); err != nil {
		zap.S().Errorw("failed to close app", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/copysim/config"
	"github.com/alejandrodnm/copysim/internal/api"
	"github.com/alejandrodnm/copysim/internal/sim"
	"github.com/gin-gonic/gin"
)

// runServe levanta el servidor HTTP y lo apaga limpio cuando el contexto
// se cancela (SIGINT/SIGTERM).
func runServe(ctx context.Context, cfg *config.Config, engine *sim.Engine) error {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewServer(engine, cfg.Simulation, cfg.SimTimeout(), slog.Default())
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("http server stopped cleanly")
	return nil
}

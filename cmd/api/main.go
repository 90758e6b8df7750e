package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/page-palette/internal/analyzer"
	"github.com/Bahjat/page-palette/internal/pageinsight"
	"github.com/Bahjat/page-palette/internal/palette"
	"github.com/Bahjat/page-palette/internal/platform/config"
	"github.com/Bahjat/page-palette/internal/platform/logger"
	"github.com/Bahjat/page-palette/internal/platform/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	sources := pageinsight.DefaultSources(pageinsight.ClientOptions{
		UserAgent:            cfg.UserAgent,
		Timeout:              cfg.FetchTimeout,
		MaxBodyBytes:         cfg.MaxBodyBytes,
		AllowPrivateNetworks: cfg.AllowPrivateNetworks,
	})
	engine := pageinsight.NewEngine(sources, palette.NewAnalyzer())
	svc := analyzer.NewService(engine, log)
	batch := pageinsight.NewBatchAnalyzer(svc, cfg.BatchConcurrency)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	analyzer.NewTransport(svc, batch, log).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      6 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	if err := run(srv, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM, then drains in-flight requests.
func run(srv *http.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

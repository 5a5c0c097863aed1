package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/byStayo/AI-Computer-Controller/internal/adapters/capture"
	"github.com/byStayo/AI-Computer-Controller/internal/adapters/storage/memory"
	"github.com/byStayo/AI-Computer-Controller/internal/auth"
	"github.com/byStayo/AI-Computer-Controller/internal/executor"
	"github.com/byStayo/AI-Computer-Controller/internal/gate"
	cfgpkg "github.com/byStayo/AI-Computer-Controller/internal/infrastructure/config"
	httpapi "github.com/byStayo/AI-Computer-Controller/internal/infrastructure/httpapi"
	obs "github.com/byStayo/AI-Computer-Controller/internal/infrastructure/observability"
	"github.com/byStayo/AI-Computer-Controller/internal/stream"
	"github.com/byStayo/AI-Computer-Controller/internal/usecase"
)

func main() {
	cfg := cfgpkg.FromEnv()

	logger := obs.NewLogger(cfg.LogLevel)
	if cfg.Secret == "" {
		logger.Fatal().Msg("GATEWAY_SECRET is required")
	}
	logger.Info().Str("addr", cfg.Addr).Str("executor", cfg.ExecutorURL).Msg("starting remote-gateway")

	metrics := obs.NewMetrics()
	store := memory.NewStore(500, 2*time.Hour)
	svc := usecase.NewSessionService(store)
	issuer := auth.NewIssuer([]byte(cfg.Secret), cfg.TokenTTL)
	streams := stream.NewController(&capture.ScreenSource{}, logger, metrics)
	exec := &executor.HTTPExecutor{BaseURL: cfg.ExecutorURL, Timeout: cfg.ExecutorTimeout}

	deps := &httpapi.Deps{
		Cfg:      cfg,
		Logger:   logger,
		Metrics:  metrics,
		Issuer:   issuer,
		Svc:      svc,
		Monitor:  httpapi.NewMonitorHub(),
		Gate:     &gate.Gate{},
		Executor: exec,
		Streams:  streams,
	}

	// No Read/WriteTimeout: /ws and /stream hold their connections open.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouterWithDeps(deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("remote-gateway stopped")
}

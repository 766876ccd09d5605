// Command straico-gateway starts the HTTP gateway: it loads configuration,
// wires the Straico upstream client, the chat-completions handler, and the
// models listing handler onto the chi router, and serves until SIGINT or
// SIGTERM triggers a graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tjfontaine/straico-gateway/internal/chatapi"
	"github.com/tjfontaine/straico-gateway/internal/config"
	"github.com/tjfontaine/straico-gateway/internal/models"
	"github.com/tjfontaine/straico-gateway/internal/server"
	"github.com/tjfontaine/straico-gateway/internal/sse"
	"github.com/tjfontaine/straico-gateway/internal/straico"
	"github.com/tjfontaine/straico-gateway/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracer("straico-gateway", logger)
	if err != nil {
		logger.Error("failed to init telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	heartbeatChar, err := sse.ParseHeartbeatChar(cfg.Heartbeat.Char)
	if err != nil {
		logger.Error("invalid heartbeat configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	httpClient := &http.Client{
		Transport: straico.NewTransport(),
		Timeout:   cfg.Upstream.Timeout,
	}
	upstream := straico.NewClient(cfg.Straico.BearerToken,
		straico.WithBaseURL(cfg.Upstream.BaseURL),
		straico.WithHTTPClient(httpClient),
	)

	chatHandler := chatapi.New(upstream, logger, heartbeatChar)
	modelsHandler := models.New(cfg.Models)

	srv := server.New(cfg.Server.Host, cfg.Server.Port, cfg.Upstream.Timeout+10*time.Second, logger)
	srv.Router.Post("/v1/chat/completions", chatHandler.ServeHTTP)
	srv.Router.Get("/v1/models", modelsHandler.List)
	srv.Router.Get("/v1/models/{id}", modelsHandler.Get)
	srv.Router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}

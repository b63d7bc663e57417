package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soniqlabs/callsanta-gateway/internal/config"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/room"
	"github.com/soniqlabs/callsanta-gateway/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before the logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("santa_voice", cfg.SantaVoice).
		Str("elf_voice", cfg.ElfVoice).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Santa call gateway starting")

	gateway := room.NewGateway(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/rooms/", gateway.Handler())
	mux.HandleFunc("/health", observability.HealthCheckHandler())

	deepgramCheck := func(ctx context.Context) (bool, error) {
		client := tts.NewDeepgramClient(cfg.DeepgramAPIKey, cfg.SantaVoice, 24000)
		defer client.Close()
		return client.HealthCheck(ctx)
	}
	assetsCheck := func(ctx context.Context) (bool, error) {
		if err := gateway.AssetStore().Check(); err != nil {
			return false, err
		}
		return true, nil
	}
	mux.HandleFunc("/ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"deepgram": deepgramCheck,
		"assets":   assetsCheck,
	}))

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: room WebSockets stay open for the whole call.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("ws://localhost:%s/rooms/{room}", cfg.Port)).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}

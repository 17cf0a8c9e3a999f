package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	httpadapter "github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/adapter/http"
	kafkaadapter "github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/adapter/kafka"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/config"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/domain"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/observability"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/relief"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	sim := domain.NewSimulator(domain.GridParams{
		Width:        cfg.GridWidth,
		Height:       cfg.GridHeight,
		CenterLat:    cfg.CenterLat,
		CenterLon:    cfg.CenterLon,
		CellSizeM:    cfg.CellSizeM,
		BaseTemp:     cfg.BaseTemp,
		BaseWindU:    cfg.BaseWindU,
		BaseWindV:    cfg.BaseWindV,
		SampleStride: cfg.SampleStride,
	})
	logger.Info("simulation grid ready",
		"width", cfg.GridWidth, "height", cfg.GridHeight,
		"center_lat", cfg.CenterLat, "center_lon", cfg.CenterLon)

	reliefParams := relief.DefaultParams()
	reliefParams.Width = cfg.ReliefWidth
	reliefParams.Height = cfg.ReliefHeight
	reliefParams.Seed = cfg.ReliefSeed
	surface := relief.NewSurface(reliefParams)
	logger.Info("relief surface generated",
		"width", cfg.ReliefWidth, "height", cfg.ReliefHeight, "seed", cfg.ReliefSeed)

	// Event publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher httpadapter.EventPublisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		metrics.PublishingEnabled.Set(1)
		logger.Info("intervention event publishing enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("intervention event publishing disabled")
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.InterveneRate), cfg.InterveneBurst)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Simulator: sim,
		Relief:    surface,
		Publisher: publisher,
		Limiter:   limiter,
		Metrics:   metrics,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/zhvi-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/zhvi-dashboard/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/zhvi-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/zhvi-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/zhvi-dashboard/internal/config"
	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
	"github.com/couchcryptid/zhvi-dashboard/internal/pipeline"
	"github.com/couchcryptid/zhvi-dashboard/internal/session"
)

const (
	sessionSweepInterval = time.Minute
	// publishQueueFactor sizes the publish queue in batches.
	publishQueueFactor = 20
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	table, err := csvfile.NewLoader(logger, metrics).Load(cfg.DataFile)
	if err != nil {
		logger.Error("failed to load data file", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}

	// Initialize static map rendering (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var staticMap domain.StaticMapper
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		staticMap = mapbox.NewCachedStaticMap(client, cfg.MapboxCacheSize, metrics)
		metrics.MapboxEnabled.Set(1)
		logger.Info("mapbox static maps enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox static maps disabled")
	}

	// Snapshot events are optional; without brokers views are computed but not published.
	var (
		publisher *pipeline.EventPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = pipeline.NewEventPublisher(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval, cfg.BatchSize*publishQueueFactor)
		logger.Info("snapshot events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot events disabled")
	}

	var pub pipeline.Publisher
	if publisher != nil {
		pub = publisher
	}
	dash := pipeline.NewDashboard(table, cfg.ValueRounding, cfg.MapStyle, pub, logger, metrics)
	sessions := session.NewStore(table, cfg.SessionTTL, cfg.SessionCacheSize, clockwork.NewRealClock(), logger, metrics)

	api := httpadapter.NewAPI(dash, sessions, staticMap, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Expire idle sessions.
	wg.Add(1)
	go func() {
		defer wg.Done()
		sessions.Run(ctx, sessionSweepInterval)
	}()

	// Start snapshot event publisher. It outlives ctx so views still being
	// served during shutdown are published.
	pubCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()
	if publisher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := publisher.Run(pubCtx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	shutdownInOrder(shutdownCtx, srv, stopPublisher, &wg, logger)
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownInOrder stops the HTTP server, letting in-flight requests finish,
// then stops the publisher and waits for the background workers.
func shutdownInOrder(ctx context.Context, srv shutdowner, stopPublisher context.CancelFunc, workers *sync.WaitGroup, logger *slog.Logger) {
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	stopPublisher()
	workers.Wait()
}

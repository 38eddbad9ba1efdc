// Command neo-etl fetches every page of the NeoWs browse endpoint, flattens
// the records, and writes a timestamped CSV export plus a summary report.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/neo-data-export/internal/adapter/export"
	"github.com/couchcryptid/neo-data-export/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/neo-data-export/internal/adapter/kafka"
	"github.com/couchcryptid/neo-data-export/internal/adapter/nasa"
	"github.com/couchcryptid/neo-data-export/internal/config"
	"github.com/couchcryptid/neo-data-export/internal/observability"
	"github.com/couchcryptid/neo-data-export/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog, err := observability.NewLogger(cfg, clockwork.NewRealClock())
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	err = run(cfg, logger)
	if closeErr := closeLog(); closeErr != nil {
		slog.Error("failed to close log file", "error", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	client := nasa.NewClient(cfg, metrics, logger)
	paginator := nasa.NewPaginator(client, cfg.PageDelay, metrics, logger)
	transformer := pipeline.NewTransformer(metrics, logger)
	writer := export.NewWriter(cfg.OutputDir, logger)

	// Kafka mirroring is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		kw := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = kw
		logger.Info("kafka mirroring enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	p := pipeline.New(paginator, transformer, writer, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health/metrics listener is feature-flagged via HTTP_ADDR.
	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	if err := p.Run(ctx); err != nil {
		logger.Error("export failed", "error", err)
		return err
	}
	return nil
}

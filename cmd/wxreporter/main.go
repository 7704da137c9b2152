package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/ookrx/wx-reporter/internal/adapter/aprs"
	httpadapter "github.com/ookrx/wx-reporter/internal/adapter/http"
	kafkaadapter "github.com/ookrx/wx-reporter/internal/adapter/kafka"
	"github.com/ookrx/wx-reporter/internal/adapter/serial"
	"github.com/ookrx/wx-reporter/internal/adapter/submit"
	"github.com/ookrx/wx-reporter/internal/config"
	"github.com/ookrx/wx-reporter/internal/observability"
	"github.com/ookrx/wx-reporter/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	reader, err := serial.NewReader(cfg, clock, logger)
	if err != nil {
		logger.Error("failed to open serial port", "port", cfg.SerialPort, "error", err)
		os.Exit(1)
	}

	var sinks []pipeline.Sink
	if cfg.APRSEnabled {
		sinks = append(sinks, pipeline.Sink{Name: "aprs", Loader: aprs.NewClient(cfg, clock, logger)})
		logger.Info("aprs-is delivery enabled", "server", cfg.APRSServer)
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, pipeline.Sink{Name: "kafka", Loader: writer})
		logger.Info("kafka delivery enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.SubmitCommand != "" {
		cmd, err := submit.NewCommand(cfg, logger)
		if err != nil {
			logger.Error("invalid submit command", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pipeline.Sink{Name: "submit", Loader: cmd})
		logger.Info("submit program delivery enabled", "command", cfg.SubmitCommand)
	}
	loader := pipeline.NewMultiLoader(metrics, sinks...)
	if loader.Len() == 0 {
		logger.Warn("no delivery sinks configured; telegrams will only be validated")
	}

	rules := cfg.Rules()
	transformer := pipeline.NewTransformer(rules, logger)
	p := pipeline.New(reader, transformer, loader, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, rules, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start receive loop. It also ends when the serial device goes away.
	go func() {
		defer stop()
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("serial port close error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

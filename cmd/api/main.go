package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"metrics-proxy/internal/config"
	"metrics-proxy/internal/domain"
	"metrics-proxy/internal/repository"
	"metrics-proxy/internal/router"
	"metrics-proxy/pkg/logging"
	"metrics-proxy/pkg/metrics"
	"metrics-proxy/pkg/proxy"
)

var CLI struct {
	Config string `short:"c" help:"Configuration file path"`
	Addr   string `help:"Listen address override"`
}

func main() {
	kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if CLI.Addr != "" {
		cfg.Server.Addr = CLI.Addr
	}

	logger, err := logging.NewZapLogger(logging.LoggerConfig{
		ProcessName:   logging.APIProcess,
		IsDevelopment: cfg.Logging.Development,
		LogDir:        cfg.Logging.Dir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	promRegistry := prom.NewRegistry()
	observer := metrics.NewPrometheusObserver(promRegistry)

	registry := metrics.NewRegistry(
		metrics.WithObserver(observer),
		metrics.WithLogger(logger),
	)
	factory := proxy.NewFactory(registry, proxy.WithLogger(logger))

	var taskStore domain.TaskStore

	switch cfg.Database.Driver {
	case "sqlite":
		taskStore = repository.NewSQLiteTaskStore(cfg.Database.Path, logger)
	case "memory":
		taskStore = repository.NewMemoryTaskStore(logger)
	default:
		logger.Fatalf("Unknown storage driver: %s", cfg.Database.Driver)
	}

	store, err := repository.NewInstrumentedTaskStore(factory, taskStore)
	if err != nil {
		logger.Fatalf("Failed to build instrumented task store: %v", err)
	}

	if err := store.Init(); err != nil {
		logger.Fatalf("Failed to initialize task store: %v", err)
	}
	defer store.Close()

	if err := router.Run(cfg.Server.Addr, store, logger, metrics.HTTPHandler(promRegistry)); err != nil {
		logger.Fatalf("Server error: %v", err)
	}

	logTimingSummary(registry, logger)
}

// logTimingSummary reports what the proxy recorded over the process lifetime,
// one line per API.
func logTimingSummary(registry *metrics.Registry, logger logging.Logger) {
	keys := registry.Keys()
	if len(keys) == 0 {
		logger.Info("no proxied calls were recorded")
		return
	}

	for _, key := range keys {
		records := registry.Snapshot(key)
		var total int64
		minMs := records[0].ResponseTimeMs
		maxMs := records[0].ResponseTimeMs
		for _, rec := range records {
			total += rec.ResponseTimeMs
			if rec.ResponseTimeMs < minMs {
				minMs = rec.ResponseTimeMs
			}
			if rec.ResponseTimeMs > maxMs {
				maxMs = rec.ResponseTimeMs
			}
		}
		logger.Info("api timing summary",
			"api", key,
			"count", len(records),
			"avg_ms", float64(total)/float64(len(records)),
			"min_ms", minMs,
			"max_ms", maxMs,
		)
	}
}

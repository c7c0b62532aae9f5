package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/alecthomas/kong"

	"metrics-proxy/internal/domain"
	"metrics-proxy/internal/repository"
	"metrics-proxy/pkg/logging"
	"metrics-proxy/pkg/metrics"
	"metrics-proxy/pkg/proxy"
)

var CLI struct {
	Workers int    `help:"Concurrent workers" default:"4"`
	Calls   int    `help:"Calls per worker" default:"50"`
	Driver  string `help:"Task store driver" enum:"sqlite,memory" default:"memory"`
	DB      string `help:"SQLite database path" default:"./loadgen.db"`
	Jitter  int    `help:"Maximum artificial store latency in ms" default:"20"`
}

func main() {
	kong.Parse(&CLI)

	logger, err := logging.NewZapLogger(logging.LoggerConfig{
		ProcessName:   logging.LoadgenProcess,
		IsDevelopment: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	registry := metrics.NewRegistry(metrics.WithLogger(logger))
	factory := proxy.NewFactory(registry, proxy.WithLogger(logger))

	var base domain.TaskStore

	switch CLI.Driver {
	case "sqlite":
		base = repository.NewSQLiteTaskStore(CLI.DB, logger)
	case "memory":
		base = repository.NewMemoryTaskStore(logger)
	}

	target := base
	if CLI.Jitter > 0 {
		target = &SlowStore{inner: base, maxDelay: time.Duration(CLI.Jitter) * time.Millisecond}
	}

	store, err := repository.NewInstrumentedTaskStore(factory, target)
	if err != nil {
		logger.Fatalf("Failed to build instrumented task store: %v", err)
	}

	if err := store.Init(); err != nil {
		logger.Fatalf("Failed to initialize task store: %v", err)
	}
	defer store.Close()

	generateLoad(store, CLI.Workers, CLI.Calls, logger)

	logTimingSummary(registry, logger)
}

// generateLoad runs the worker pool. Each worker walks its tasks through the
// full lifecycle, with some lookups aimed at missing ids so failed calls show
// up in the logs but never in the timing summary.
func generateLoad(store domain.TaskStore, workers, calls int, logger logging.Logger) {
	logger.Infof("Generating load: %d workers x %d calls...", workers, calls)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ctx := context.Background()

			for i := 0; i < calls; i++ {
				task, err := store.CreateTask(ctx, domain.Task{
					Title: fmt.Sprintf("task-%d-%d", w, i),
				})
				if err != nil {
					logger.Errorf("worker %d: create failed: %v", w, err)
					continue
				}

				if _, err := store.GetTask(ctx, task.ID); err != nil {
					logger.Errorf("worker %d: get failed: %v", w, err)
				}

				if i%3 == 0 {
					if _, err := store.CompleteTask(ctx, task.ID); err != nil {
						logger.Errorf("worker %d: complete failed: %v", w, err)
					}
				}

				if i%5 == 0 {
					if err := store.DeleteTask(ctx, task.ID); err != nil {
						logger.Errorf("worker %d: delete failed: %v", w, err)
					}
				}

				if i%10 == 0 {
					if _, err := store.ListTasks(ctx, 20, 0); err != nil {
						logger.Errorf("worker %d: list failed: %v", w, err)
					}
					// a lookup that is expected to fail and stay unrecorded
					if _, err := store.GetTask(ctx, -1); err == nil {
						logger.Error("lookup of a missing task unexpectedly succeeded")
					}
				}
			}
		}(w)
	}
	wg.Wait()

	logger.Info("Load generation complete.")
}

// logTimingSummary reports what the proxy recorded over the run, one line
// per API.
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

// SlowStore delays the data-path calls of the wrapped store by a random
// amount, so recorded response times spread over a visible range.
type SlowStore struct {
	inner    domain.TaskStore
	maxDelay time.Duration
}

var _ domain.TaskStore = (*SlowStore)(nil)

func (s *SlowStore) pause() {
	if s.maxDelay > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(s.maxDelay))))
	}
}

func (s *SlowStore) Init() error { return s.inner.Init() }

func (s *SlowStore) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	s.pause()
	return s.inner.CreateTask(ctx, task)
}

func (s *SlowStore) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	s.pause()
	return s.inner.GetTask(ctx, id)
}

func (s *SlowStore) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	s.pause()
	return s.inner.ListTasks(ctx, limit, offset)
}

func (s *SlowStore) CompleteTask(ctx context.Context, id int64) (domain.Task, error) {
	s.pause()
	return s.inner.CompleteTask(ctx, id)
}

func (s *SlowStore) DeleteTask(ctx context.Context, id int64) error {
	s.pause()
	return s.inner.DeleteTask(ctx, id)
}

func (s *SlowStore) Close() error { return s.inner.Close() }

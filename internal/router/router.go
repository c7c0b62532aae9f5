package router

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"metrics-proxy/internal/domain"
	"metrics-proxy/internal/endpoints"
	"metrics-proxy/pkg/logging"
)

const requestIDHeader = "X-Request-ID"

func NewRouter(taskStore domain.TaskStore, logger logging.Logger, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, taskStore, logger, metricsHandler)

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))

	return r
}

func addRoutes(r *mux.Router, taskStore domain.TaskStore, logger logging.Logger, metricsHandler http.Handler) {

	taskHandler := &endpoints.Tasks{}
	taskHandler.Init(taskStore, logger)

	r.HandleFunc("/tasks", taskHandler.CreateTaskHandler).Methods("POST")
	r.HandleFunc("/tasks/{limit}/{offset}", taskHandler.ListTasksHandler).Methods("GET")
	r.HandleFunc("/tasks/{id}", taskHandler.GetTaskHandler).Methods("GET")
	r.HandleFunc("/tasks/{id}/complete", taskHandler.CompleteTaskHandler).Methods("PUT")
	r.HandleFunc("/tasks/{id}", taskHandler.DeleteTaskHandler).Methods("DELETE")

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods("GET")
	}
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Run serves the task API until the process receives SIGINT or SIGTERM, then
// shuts the server down gracefully and returns, letting the caller run its
// own shutdown work.
func Run(addr string, taskStore domain.TaskStore, logger logging.Logger, metricsHandler http.Handler) error {
	appRouter := NewRouter(taskStore, logger, metricsHandler)

	server := NewServer(addr, appRouter)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	logger.Infof("Listening on %s", server.Addr)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-quit:
		logger.Info("Shutting down server...")

		if err := gracefulShutdown(server, 25*time.Second); err != nil {
			logger.Errorf("Server stopped with error: %s", err.Error())
			return err
		}
		logger.Info("Server stopped gracefully.")
		return nil
	}
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

// requestIDMiddleware tags every request with an id, honoring one supplied by
// the caller and minting a fresh uuid otherwise. The id is echoed back on the
// response and stored on the request header for downstream middleware.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set(requestIDHeader, requestID)
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request handled",
				"method", r.Method,
				"uri", r.RequestURI,
				"request_id", r.Header.Get(requestIDHeader),
				"duration", time.Since(start),
			)
		})
	}
}

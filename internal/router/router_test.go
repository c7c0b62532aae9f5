package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrics-proxy/internal/endpoints"
	"metrics-proxy/internal/repository"
	"metrics-proxy/pkg/logging"
	"metrics-proxy/pkg/metrics"
)

func newTestRouter(t *testing.T, metricsHandler http.Handler) http.Handler {
	t.Helper()
	store := repository.NewMemoryTaskStore(logging.NewNopLogger())
	require.NoError(t, store.Init())
	return NewRouter(store, logging.NewNopLogger(), metricsHandler)
}

func TestRouterRoutes(t *testing.T) {
	appRouter := newTestRouter(t, metrics.HTTPHandler(nil))

	// case 1: create a task through the full stack
	body, _ := json.Marshal(endpoints.TaskRequest{Title: "routed"})
	req := httptest.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status Created for POST /tasks")

	// case 2: list with pagination vars in the path
	req = httptest.NewRequest("GET", "/tasks/10/0", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Expected status OK for GET /tasks/10/0")

	var apiResponse endpoints.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.True(t, apiResponse.Status)

	// case 3: fetch the created task by id
	req = httptest.NewRequest("GET", "/tasks/1", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Expected status OK for GET /tasks/1")

	// case 4: complete it
	req = httptest.NewRequest("PUT", "/tasks/1/complete", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Expected status OK for PUT /tasks/1/complete")

	// case 5: delete it
	req = httptest.NewRequest("DELETE", "/tasks/1", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Expected status OK for DELETE /tasks/1")

	// case 6: the deleted task is gone
	req = httptest.NewRequest("GET", "/tasks/1", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status Not Found after delete")

	// case 7: prometheus endpoint is mounted
	req = httptest.NewRequest("GET", "/metrics", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Expected status OK for GET /metrics")

	// case 8: unknown paths fall through to 404
	req = httptest.NewRequest("GET", "/nope", nil)
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status Not Found for unknown path")
}

func TestRouterWithoutMetricsHandler(t *testing.T) {
	appRouter := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status Not Found when no metrics handler is mounted")
}

func TestRequestIDMiddleware(t *testing.T) {
	appRouter := newTestRouter(t, nil)

	// case 1: a fresh id is minted and echoed on the response
	req := httptest.NewRequest("GET", "/tasks/10/0", nil)
	rr := httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)

	requestID := rr.Header().Get(requestIDHeader)
	require.NotEmpty(t, requestID, "Expected a generated request id")
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err, "Generated request id should be a valid uuid")

	// case 2: a caller-supplied id is honored
	req = httptest.NewRequest("GET", "/tasks/10/0", nil)
	req.Header.Set(requestIDHeader, "caller-supplied-id")
	rr = httptest.NewRecorder()
	appRouter.ServeHTTP(rr, req)
	assert.Equal(t, "caller-supplied-id", rr.Header().Get(requestIDHeader), "Expected the inbound request id to be echoed")
}

package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"metrics-proxy/internal/domain"
	"metrics-proxy/pkg/logging"

	"github.com/gorilla/mux"
)

type TaskRequest struct {
	Title string `json:"title"`
}

type Tasks struct {
	Response APIResponse
	logger   logging.Logger
	store    domain.TaskStore
}

func (t *Tasks) Init(store domain.TaskStore, logger logging.Logger) {
	t.store = store
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	t.logger = logger
}

func (t *Tasks) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		t.logger.Error("method not allowed, only POST requests are supported", "method", r.Method)
		t.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only POST requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	var reqBody TaskRequest

	err := json.NewDecoder(r.Body).Decode(&reqBody)
	if err != nil {
		t.logger.Error("error unmarshalling json body", "err", err)
		t.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(reqBody.Title) == "" {
		t.logger.Error("create request carried an empty title")
		t.Response.WriteErrorResponseWithStatusCode(w, ErrEmptyTaskTitle, http.StatusBadRequest)
		return
	}

	task, err := t.store.CreateTask(r.Context(), domain.Task{Title: reqBody.Title})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			t.logger.Warn("context cancelled during CreateTask")
			t.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
			return
		}
		t.logger.Error("error from CreateTask", "err", err)
		t.Response.WriteErrorResponse(w, err)
		return
	}

	t.Response.WriteResultResponseWithStatusCode(w, task, http.StatusCreated)
}

func (t *Tasks) GetTaskHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		t.logger.Error("method not allowed, only GET requests are supported", "method", r.Method)
		t.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only GET requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	id, ok := t.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	task, err := t.store.GetTask(r.Context(), id)
	if err != nil {
		t.writeTaskError(w, "GetTask", err)
		return
	}

	t.Response.WriteResultResponse(w, task)
}

func (t *Tasks) ListTasksHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		t.logger.Error("method not allowed, only GET requests are supported", "method", r.Method)
		t.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only GET requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	routeParamValue := mux.Vars(r)

	limitStr := routeParamValue["limit"]
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		t.logger.Error("error parsing limit from url", "err", err)
		t.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	offsetStr := routeParamValue["offset"]
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		t.logger.Error("error parsing offset from url", "err", err)
		t.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	fetchedTasks, err := t.store.ListTasks(r.Context(), limit, offset)
	if err != nil {
		t.writeTaskError(w, "ListTasks", err)
		return
	}

	if fetchedTasks == nil {
		fetchedTasks = []domain.Task{}
	}
	t.Response.WriteResultResponse(w, fetchedTasks)
}

func (t *Tasks) CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPut {
		t.logger.Error("method not allowed, only PUT requests are supported", "method", r.Method)
		t.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only PUT requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	id, ok := t.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	task, err := t.store.CompleteTask(r.Context(), id)
	if err != nil {
		t.writeTaskError(w, "CompleteTask", err)
		return
	}

	t.Response.WriteResultResponse(w, task)
}

func (t *Tasks) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodDelete {
		t.logger.Error("method not allowed, only DELETE requests are supported", "method", r.Method)
		t.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only DELETE requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	id, ok := t.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := t.store.DeleteTask(r.Context(), id); err != nil {
		t.writeTaskError(w, "DeleteTask", err)
		return
	}

	t.Response.WriteResultResponse(w, id)
}

// taskIDFromRequest parses the {id} route variable, writing the error
// response itself when the value is not a valid integer.
func (t *Tasks) taskIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		t.logger.Error("error parsing task id from url", "err", err)
		t.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeTaskError maps store errors onto the response envelope: missing tasks
// become 404, cancelled requests 408, anything else a generic failure.
func (t *Tasks) writeTaskError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		t.logger.Warn("task not found", "op", op)
		t.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		t.logger.Warn("context cancelled", "op", op)
		t.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
	default:
		t.logger.Error("error from store", "op", op, "err", err)
		t.Response.WriteErrorResponse(w, err)
	}
}

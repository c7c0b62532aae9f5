package endpoints

import (
	"errors"

	"metrics-proxy/internal/domain"
)

const (
	API_SUCCESS      = iota + 303000 // 303000
	API_FAILURE                      // 303001 - Generic API failure
	API_UNAUTHORIZED                 // 303002 - Authentication/Authorization failure
)

const (
	TASK_NOT_FOUND       = iota + 101 // 101 - No task exists with the given id
	INVALID_REQUEST_BODY              // 102 - Error parsing request body
	INVALID_PARAMETERS                // 103 - Invalid URL parameters (e.g., non-integer id/limit/offset)
	EMPTY_TASK_TITLE                  // 104 - Task title missing from create request
	REQUEST_CANCELLED                 // 105 - Request was cancelled by client or server timeout
)

var (
	ErrInvalidRequestBody = errors.New("invalid request body format or missing fields")
	ErrInvalidParameters  = errors.New("invalid id, limit or offset parameter; must be integers")
	ErrEmptyTaskTitle     = errors.New("task title must not be empty")
	ErrRequestCancelled   = errors.New("request cancelled by client or server timeout")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return TASK_NOT_FOUND
	case errors.Is(err, ErrInvalidRequestBody):
		return INVALID_REQUEST_BODY
	case errors.Is(err, ErrInvalidParameters):
		return INVALID_PARAMETERS
	case errors.Is(err, ErrEmptyTaskTitle):
		return EMPTY_TASK_TITLE
	case errors.Is(err, ErrRequestCancelled):
		return REQUEST_CANCELLED
	default:
		return API_FAILURE // Default for any unhandled error
	}
}

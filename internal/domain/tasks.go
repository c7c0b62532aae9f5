package domain

import (
	"context"
	"errors"
)

// ErrTaskNotFound is returned by stores when the requested task does not exist.
var ErrTaskNotFound = errors.New("task not found")

type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"created_at"`
}

type TaskStore interface {
	Init() error
	CreateTask(ctx context.Context, task Task) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, limit, offset int) ([]Task, error)
	CompleteTask(ctx context.Context, id int64) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
	Close() error
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"metrics-proxy/internal/domain"
	"metrics-proxy/pkg/logging"
)

// MemoryTaskStore keeps tasks in a map. It backs the load generator and any
// deployment that does not need persistence. Like the SQLite store it must be
// initialized before use.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]domain.Task
	nextID int64
	logger logging.Logger
}

var _ domain.TaskStore = (*MemoryTaskStore)(nil)

func NewMemoryTaskStore(logger logging.Logger) *MemoryTaskStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MemoryTaskStore{logger: logger}
}

func (s *MemoryTaskStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[int64]domain.Task)
	s.logger.Info("task store initialized", "driver", "memory")
	return nil
}

func (s *MemoryTaskStore) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	task.ID = s.nextID
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().Unix()
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryTaskStore) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrTaskNotFound)
	}
	return task, nil
}

func (s *MemoryTaskStore) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, t)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []domain.Task{}, nil
	}
	all = all[offset:]

	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryTaskStore) CompleteTask(ctx context.Context, id int64) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrTaskNotFound)
	}
	task.Done = true
	s.tasks[id] = task
	return task, nil
}

func (s *MemoryTaskStore) DeleteTask(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %d: %w", id, domain.ErrTaskNotFound)
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryTaskStore) Close() error {
	return nil
}

package repository

import (
	"context"

	"metrics-proxy/internal/domain"
	"metrics-proxy/pkg/proxy"
)

// InstrumentedTaskStore implements domain.TaskStore by routing every call
// through an interception proxy, so each successful store call is timed and
// recorded under "<StoreType>::<Method>". It is the typed facade generated
// instrumentation would produce for this interface: one method per operation,
// each delegating to the proxy's uniform dispatch.
type InstrumentedTaskStore struct {
	proxy *proxy.Proxy
}

var _ domain.TaskStore = (*InstrumentedTaskStore)(nil)

// NewInstrumentedTaskStore wraps store in a proxy built by factory. The
// store's concrete type name becomes the API key prefix.
func NewInstrumentedTaskStore(factory *proxy.Factory, store domain.TaskStore) (*InstrumentedTaskStore, error) {
	p, err := factory.Wrap(store)
	if err != nil {
		return nil, err
	}
	return &InstrumentedTaskStore{proxy: p}, nil
}

func (s *InstrumentedTaskStore) Init() error {
	_, err := s.proxy.Invoke("Init")
	return err
}

func (s *InstrumentedTaskStore) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	out, err := s.proxy.Invoke("CreateTask", ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	return out[0].(domain.Task), nil
}

func (s *InstrumentedTaskStore) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	out, err := s.proxy.Invoke("GetTask", ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return out[0].(domain.Task), nil
}

func (s *InstrumentedTaskStore) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	out, err := s.proxy.Invoke("ListTasks", ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return out[0].([]domain.Task), nil
}

func (s *InstrumentedTaskStore) CompleteTask(ctx context.Context, id int64) (domain.Task, error) {
	out, err := s.proxy.Invoke("CompleteTask", ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return out[0].(domain.Task), nil
}

func (s *InstrumentedTaskStore) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.proxy.Invoke("DeleteTask", ctx, id)
	return err
}

func (s *InstrumentedTaskStore) Close() error {
	_, err := s.proxy.Invoke("Close")
	return err
}

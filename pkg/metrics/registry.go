package metrics

import (
	"sort"
	"sync"

	"metrics-proxy/pkg/logging"
)

// Registry is a concurrency-safe, append-only store of RequestRecords,
// partitioned by API name. It never evicts: every record submitted to it stays
// for the registry's lifetime. A registry belongs to whoever constructed it
// and may be shared by any number of proxies.
type Registry struct {
	mu     sync.RWMutex
	series map[string]*series

	observer Observer
	logger   logging.Logger
}

// series holds the records of one API name. Each series carries its own lock
// so appends for unrelated keys never serialize against each other.
type series struct {
	mu      sync.Mutex
	records []RequestRecord
}

// Option is a functional option for configuring a Registry.
type Option func(*Registry)

// WithObserver attaches an observer that is notified of every accepted
// record, after it has been stored. The default is NopObserver.
func WithObserver(observer Observer) Option {
	return func(r *Registry) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// WithLogger attaches a logger. The registry logs only when it starts
// tracking a new API name, never on the per-record path.
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		series:   make(map[string]*series),
		observer: NopObserver{},
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends rec to the sequence stored under key, creating the sequence
// on first use. It is safe under arbitrary concurrent callers; the per-key
// sequence ends up in an order consistent with completion order as seen by
// each individual caller. The attached observer is notified outside all
// registry locks.
func (r *Registry) Record(key string, rec RequestRecord) {
	s := r.seriesFor(key)

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	r.observer.ObserveRequest(rec)
}

// seriesFor returns the series for key, creating it race-free on first use.
func (r *Registry) seriesFor(key string) *series {
	r.mu.RLock()
	s, ok := r.series[key]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.series[key]; ok {
		// lost the creation race to a concurrent first use
		return s
	}
	s = &series{}
	r.series[key] = s
	r.logger.Debug("tracking new api", "api", key)
	return s
}

// Snapshot returns an independent copy of the records stored under key, in
// insertion order. Unknown keys yield nil. The copy is safe to inspect while
// writers keep recording.
func (r *Registry) Snapshot(key string) []RequestRecord {
	r.mu.RLock()
	s, ok := r.series[key]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RequestRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Keys returns the known API names in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.series))
	for key := range r.series {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

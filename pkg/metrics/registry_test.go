package metrics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"metrics-proxy/pkg/logging"
)

// captureObserver records every observed RequestRecord for inspection.
type captureObserver struct {
	mu   sync.Mutex
	seen []RequestRecord
}

func (c *captureObserver) ObserveRequest(rec RequestRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, rec)
}

func (c *captureObserver) snapshot() []RequestRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RequestRecord, len(c.seen))
	copy(out, c.seen)
	return out
}

func TestRegistry_RecordAndSnapshot(t *testing.T) {
	registry := NewRegistry()

	// case 1: unknown key yields no records
	assert.Empty(t, registry.Snapshot("Greeter::Greet"), "unknown key should have no records")
	assert.Empty(t, registry.Keys(), "fresh registry should have no keys")

	// case 2: records land under their key in insertion order
	first := RequestRecord{APIName: "Greeter::Greet", StartTimestamp: 1000, ResponseTimeMs: 5}
	second := RequestRecord{APIName: "Greeter::Greet", StartTimestamp: 1010, ResponseTimeMs: 7}
	registry.Record("Greeter::Greet", first)
	registry.Record("Greeter::Greet", second)

	got := registry.Snapshot("Greeter::Greet")
	assert.Len(t, got, 2, "expected both records under the key")
	assert.Equal(t, first, got[0], "insertion order should be preserved")
	assert.Equal(t, second, got[1], "insertion order should be preserved")

	// case 3: unrelated keys stay separate
	registry.Record("Store::GetTask", RequestRecord{APIName: "Store::GetTask", StartTimestamp: 1020, ResponseTimeMs: 3})
	assert.Len(t, registry.Snapshot("Greeter::Greet"), 2, "other keys must not leak into this one")
	assert.Len(t, registry.Snapshot("Store::GetTask"), 1)

	// case 4: keys are enumerated sorted
	assert.Equal(t, []string{"Greeter::Greet", "Store::GetTask"}, registry.Keys(), "keys should be sorted")
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	registry := NewRegistry()
	registry.Record("k", RequestRecord{APIName: "k", ResponseTimeMs: 1})

	snap := registry.Snapshot("k")
	snap[0].ResponseTimeMs = 999

	// case 1: mutating a snapshot must not touch the registry
	assert.Equal(t, int64(1), registry.Snapshot("k")[0].ResponseTimeMs, "snapshot must be an independent copy")

	// case 2: records appended later must not appear in an old snapshot
	registry.Record("k", RequestRecord{APIName: "k", ResponseTimeMs: 2})
	assert.Len(t, snap, 1, "old snapshot should not grow")
	assert.Len(t, registry.Snapshot("k"), 2)
}

func TestRegistry_ConcurrentRecording(t *testing.T) {
	registry := NewRegistry(WithLogger(logging.NewNopLogger()))

	const goroutines = 10
	const perGoroutine = 10

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				registry.Record("Greeter::Greet", RequestRecord{
					APIName:        "Greeter::Greet",
					StartTimestamp: int64(g*perGoroutine + i),
					ResponseTimeMs: int64(i),
				})
				// a second key exercises first-use creation under contention
				registry.Record(fmt.Sprintf("Store::Op%d", g%3), RequestRecord{APIName: "shared"})
			}
		}(g)
	}
	wg.Wait()

	// case 1: no record lost or duplicated on the contended key
	assert.Len(t, registry.Snapshot("Greeter::Greet"), goroutines*perGoroutine, "every concurrent record must land exactly once")

	// case 2: concurrently created keys exist exactly once each
	assert.Equal(t, []string{"Greeter::Greet", "Store::Op0", "Store::Op1", "Store::Op2"}, registry.Keys())

	total := 0
	for _, key := range registry.Keys()[1:] {
		total += len(registry.Snapshot(key))
	}
	assert.Equal(t, goroutines*perGoroutine, total, "secondary keys must hold all their records")
}

func TestRegistry_ObserverReceivesRecords(t *testing.T) {
	observer := &captureObserver{}
	registry := NewRegistry(WithObserver(observer))

	recs := []RequestRecord{
		{APIName: "a", ResponseTimeMs: 1},
		{APIName: "b", ResponseTimeMs: 2},
		{APIName: "a", ResponseTimeMs: 3},
	}
	for _, rec := range recs {
		registry.Record(rec.APIName, rec)
	}

	assert.Equal(t, recs, observer.snapshot(), "observer should see exactly the accepted records, in order")
}

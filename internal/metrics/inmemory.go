package metrics

import "sync"

// Counters holds the per-resource event counts.
type Counters struct {
	Created  uint64
	Updated  uint64
	Deleted  uint64
	Rejected uint64
	Failed   uint64
}

// Snapshot captures current in-memory counters keyed by resource.
type Snapshot map[string]Counters

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	mu       sync.Mutex
	counters map[string]*Counters
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{counters: make(map[string]*Counters)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := make(Snapshot, len(m.counters))
	for resource, c := range m.counters {
		snap[resource] = *c
	}
	return snap
}

// IncCreated increments the created counter.
func (m *InMemoryRecorder) IncCreated(resource string) {
	m.inc(resource, func(c *Counters) { c.Created++ })
}

// IncUpdated increments the updated counter.
func (m *InMemoryRecorder) IncUpdated(resource string) {
	m.inc(resource, func(c *Counters) { c.Updated++ })
}

// IncDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncDeleted(resource string) {
	m.inc(resource, func(c *Counters) { c.Deleted++ })
}

// IncRejected increments the rejected counter.
func (m *InMemoryRecorder) IncRejected(resource string) {
	m.inc(resource, func(c *Counters) { c.Rejected++ })
}

// IncFailed increments the failed counter.
func (m *InMemoryRecorder) IncFailed(resource string) {
	m.inc(resource, func(c *Counters) { c.Failed++ })
}

func (m *InMemoryRecorder) inc(resource string, fn func(*Counters)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[resource]
	if !ok {
		c = &Counters{}
		m.counters[resource] = c
	}
	fn(c)
}

package tracing

import (
	"sort"
	"sync"
)

// An EventCount is the number of events of one kind seen from one engine.
type EventCount struct {
	Engine string
	Kind   string
	Count  uint64
}

type countKey struct {
	engine string
	kind   string
}

// CountTracer counts events per engine and kind.
type CountTracer struct {
	lock   sync.Mutex
	counts map[countKey]uint64
}

// NewCountTracer creates a new CountTracer
func NewCountTracer() *CountTracer {
	return &CountTracer{counts: make(map[countKey]uint64)}
}

func (t *CountTracer) count(engine, kind string) {
	t.lock.Lock()
	t.counts[countKey{engine, kind}]++
	t.lock.Unlock()
}

// HeapEvent counts a heap event.
func (t *CountTracer) HeapEvent(e HeapEvent) {
	t.count(e.Engine, e.Kind)
}

// BuddyEvent counts a buddy allocator event.
func (t *CountTracer) BuddyEvent(e BuddyEvent) {
	t.count(e.Engine, e.Kind)
}

// CacheEvent counts a cache access.
func (t *CountTracer) CacheEvent(e CacheEvent) {
	t.count(e.Engine, e.Kind)
}

// VMEvent counts a translation.
func (t *CountTracer) VMEvent(e VMEvent) {
	t.count(e.Engine, e.Kind)
}

// Count returns the number of events of a kind seen from an engine.
func (t *CountTracer) Count(engine, kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counts[countKey{engine, kind}]
}

// Counts returns all the non-zero counts ordered by engine and kind.
func (t *CountTracer) Counts() []EventCount {
	t.lock.Lock()
	defer t.lock.Unlock()

	counts := make([]EventCount, 0, len(t.counts))
	for k, n := range t.counts {
		counts = append(counts, EventCount{Engine: k.engine, Kind: k.kind, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Engine != counts[j].Engine {
			return counts[i].Engine < counts[j].Engine
		}

		return counts[i].Kind < counts[j].Kind
	})

	return counts
}

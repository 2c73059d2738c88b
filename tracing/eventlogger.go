package tracing

import (
	"log"

	"github.com/krish-2325/memory-management-simulator/sim"
)

// EventLogger is a tracer that prints one line per event.
type EventLogger struct {
	sim.LogHookBase
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// HeapEvent prints a heap event.
func (l *EventLogger) HeapEvent(e HeapEvent) {
	switch e.Kind {
	case KindAllocFail:
		l.Logf("%s %s size=%d strategy=%s",
			e.Engine, e.Kind, e.Requested, e.Strategy)
	default:
		l.Logf("%s %s id=%d addr=0x%04x size=%d",
			e.Engine, e.Kind, e.BlockID, e.Address, e.Size)
	}
}

// BuddyEvent prints a buddy allocator event.
func (l *EventLogger) BuddyEvent(e BuddyEvent) {
	switch e.Kind {
	case KindAllocFail:
		l.Logf("%s %s size=%d", e.Engine, e.Kind, e.Size)
	case KindFree:
		l.Logf("%s %s addr=0x%04x size=%d merged=0x%04x/%d",
			e.Engine, e.Kind, e.Address, e.Size, e.MergedAddress, e.MergedSize)
	default:
		l.Logf("%s %s addr=0x%04x size=%d",
			e.Engine, e.Kind, e.Address, e.Size)
	}
}

// CacheEvent prints a cache access.
func (l *EventLogger) CacheEvent(e CacheEvent) {
	hit := e.HitLevel
	if hit == "" {
		hit = "memory"
	}

	l.Logf("%s %s addr=0x%04x served_by=%s [%s]",
		e.Engine, e.Kind, e.Address, hit, e.Outcomes)
}

// VMEvent prints a translation.
func (l *EventLogger) VMEvent(e VMEvent) {
	switch e.Kind {
	case KindSegFault:
		l.Logf("%s %s vaddr=0x%04x", e.Engine, e.Kind, e.VAddr)
	case KindPageFault:
		l.Logf("%s %s vaddr=0x%04x page=%d frame=%d evicted=%d",
			e.Engine, e.Kind, e.VAddr, e.Page, e.Frame, e.Evicted)
	default:
		l.Logf("%s %s vaddr=0x%04x paddr=0x%04x",
			e.Engine, e.Kind, e.VAddr, e.PAddr)
	}
}

// Package tracing turns the hook events of the memory engines into records
// that can be logged, counted, or stored.
package tracing

import (
	"github.com/krish-2325/memory-management-simulator/sim"
)

// A Tracer consumes the events produced by the memory engines.
type Tracer interface {
	HeapEvent(e HeapEvent)
	BuddyEvent(e BuddyEvent)
	CacheEvent(e CacheEvent)
	VMEvent(e VMEvent)
}

// CollectTrace lets the tracer receive the events of a domain.
func CollectTrace(domain sim.NamedHookable, tracer Tracer) {
	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook converts hook contexts into events.
type traceHook struct {
	t Tracer
}

// Func dispatches the hook context to the tracer. Positions that are not
// memory events are ignored.
func (h *traceHook) Func(ctx sim.HookCtx) {
	if e, ok := heapEventFromCtx(ctx); ok {
		h.t.HeapEvent(e)
		return
	}

	if e, ok := buddyEventFromCtx(ctx); ok {
		h.t.BuddyEvent(e)
		return
	}

	if e, ok := cacheEventFromCtx(ctx); ok {
		h.t.CacheEvent(e)
		return
	}

	if e, ok := vmEventFromCtx(ctx); ok {
		h.t.VMEvent(e)
	}
}

func domainName(ctx sim.HookCtx) string {
	if named, ok := ctx.Domain.(sim.Named); ok {
		return named.Name()
	}

	return ""
}

package tracing

import (
	"fmt"
	"strings"

	"github.com/krish-2325/memory-management-simulator/mem/buddy"
	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/heap"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
	"github.com/krish-2325/memory-management-simulator/sim"
)

// Event kinds.
const (
	KindAlloc       = "alloc"
	KindAllocFail   = "alloc_fail"
	KindFree        = "free"
	KindCacheAccess = "cache_access"
	KindPageHit     = "page_hit"
	KindPageFault   = "page_fault"
	KindSegFault    = "seg_fault"
)

// A HeapEvent is an allocation, failed allocation, or release on the
// contiguous heap. Seq is filled by the tracer that stores the event.
type HeapEvent struct {
	Seq       uint64
	Engine    string
	Kind      string
	BlockID   int
	Address   uint64
	Size      uint64
	Requested uint64
	Strategy  string
}

// A BuddyEvent is an allocation, failed allocation, or release on the buddy
// allocator. For releases, MergedAddress and MergedSize give the block that
// ended up on the free list.
type BuddyEvent struct {
	Seq           uint64
	Engine        string
	Kind          string
	Address       uint64
	Size          uint64
	MergedAddress uint64
	MergedSize    uint64
}

// A CacheEvent is one access to the cache hierarchy.
type CacheEvent struct {
	Seq      uint64
	Engine   string
	Kind     string
	Address  uint64
	Probed   int
	HitLevel string
	Outcomes string
}

// A VMEvent is one address translation.
type VMEvent struct {
	Seq     uint64
	Engine  string
	Kind    string
	VAddr   uint64
	PAddr   uint64
	Page    int
	Frame   int
	Evicted int
}

func heapEventFromCtx(ctx sim.HookCtx) (HeapEvent, bool) {
	e := HeapEvent{Engine: domainName(ctx), BlockID: -1}

	switch ctx.Pos {
	case heap.HookPosAlloc:
		alloc := ctx.Item.(heap.Allocation)
		e.Kind = KindAlloc
		e.BlockID = alloc.ID
		e.Address = alloc.Address
		e.Size = alloc.Size
		e.Requested = alloc.Size
		e.Strategy = strategyName(ctx.Detail)
	case heap.HookPosAllocFail:
		e.Kind = KindAllocFail
		e.Requested = ctx.Item.(uint64)
		e.Strategy = strategyName(ctx.Detail)
	case heap.HookPosFree:
		block := ctx.Item.(heap.Block)
		e.Kind = KindFree
		e.BlockID = block.ID
		e.Address = block.Start
		e.Size = block.Size
		e.Requested = block.Requested
	default:
		return e, false
	}

	return e, true
}

func strategyName(detail any) string {
	if s, ok := detail.(heap.Strategy); ok {
		return s.String()
	}

	return ""
}

func buddyEventFromCtx(ctx sim.HookCtx) (BuddyEvent, bool) {
	e := BuddyEvent{Engine: domainName(ctx)}

	switch ctx.Pos {
	case buddy.HookPosAlloc:
		r := ctx.Item.(buddy.Region)
		e.Kind = KindAlloc
		e.Address = r.Address
		e.Size = r.Size
	case buddy.HookPosAllocFail:
		e.Kind = KindAllocFail
		e.Size = ctx.Item.(uint64)
	case buddy.HookPosFree:
		released := ctx.Item.(buddy.Region)
		merged := ctx.Detail.(buddy.Region)
		e.Kind = KindFree
		e.Address = released.Address
		e.Size = released.Size
		e.MergedAddress = merged.Address
		e.MergedSize = merged.Size
	default:
		return e, false
	}

	return e, true
}

func cacheEventFromCtx(ctx sim.HookCtx) (CacheEvent, bool) {
	if ctx.Pos != cache.HookPosAccess {
		return CacheEvent{}, false
	}

	result := ctx.Item.(cache.AccessResult)

	outcomes := make([]string, len(result.Outcomes))
	for i, o := range result.Outcomes {
		outcome := "miss"
		if o.Hit {
			outcome = "hit"
		}

		outcomes[i] = fmt.Sprintf("%s:%s", o.Level, outcome)
	}

	return CacheEvent{
		Engine:   domainName(ctx),
		Kind:     KindCacheAccess,
		Address:  result.Address,
		Probed:   len(result.Outcomes),
		HitLevel: result.HitLevel(),
		Outcomes: strings.Join(outcomes, ","),
	}, true
}

func vmEventFromCtx(ctx sim.HookCtx) (VMEvent, bool) {
	e := VMEvent{Engine: domainName(ctx), Page: -1, Frame: -1, Evicted: -1}

	switch ctx.Pos {
	case mmu.HookPosPageHit:
		e.Kind = KindPageHit
		fillTranslation(&e, ctx.Item.(mmu.Translation))
	case mmu.HookPosPageFault:
		e.Kind = KindPageFault
		fillTranslation(&e, ctx.Item.(mmu.Translation))
		e.Evicted = ctx.Detail.(int)
	case mmu.HookPosSegFault:
		e.Kind = KindSegFault
		e.VAddr = ctx.Item.(uint64)
	default:
		return e, false
	}

	return e, true
}

func fillTranslation(e *VMEvent, t mmu.Translation) {
	e.VAddr = t.VAddr
	e.PAddr = t.PAddr
	e.Page = t.Page
	e.Frame = t.Frame
}

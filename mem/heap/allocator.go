// Package heap implements a contiguous heap allocator that serves requests
// with the first-fit, best-fit, or worst-fit strategies and coalesces
// neighbouring free blocks on release.
package heap

import (
	"container/list"
	"fmt"

	"github.com/krish-2325/memory-management-simulator/sim"
)

// HookPosAlloc marks a successful allocation. The hook item is an Allocation.
var HookPosAlloc = &sim.HookPos{Name: "HeapAlloc"}

// HookPosAllocFail marks a failed allocation. The hook item is the requested
// size and the detail is the Strategy used.
var HookPosAllocFail = &sim.HookPos{Name: "HeapAllocFail"}

// HookPosFree marks a block being released. The hook item is the Block as it
// was before it got merged with its neighbours.
var HookPosFree = &sim.HookPos{Name: "HeapFree"}

// A Block is a contiguous region of the heap.
type Block struct {
	Start     uint64
	Size      uint64
	Requested uint64
	IsFree    bool
	ID        int
}

// End returns the address right after the last byte of the block.
func (b Block) End() uint64 {
	return b.Start + b.Size
}

// An Allocation describes the block handed out by a successful request.
type Allocation struct {
	ID      int
	Address uint64
	Size    uint64
}

// Allocator manages an address space as an ordered list of blocks. The
// blocks always partition [0, Total) and no two neighbours are both free.
type Allocator struct {
	*sim.HookableBase

	name        string
	total       uint64
	blocks      *list.List
	nextBlockID int
	requests    uint64
	successes   uint64
}

// NewAllocator creates an allocator that manages size bytes.
func NewAllocator(name string, size uint64) *Allocator {
	a := &Allocator{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		blocks:       list.New(),
		nextBlockID:  1,
	}

	a.Init(size)

	return a
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// Init discards the current layout and makes the whole address space a single
// free block. Block IDs and request counters keep counting across calls.
func (a *Allocator) Init(size uint64) {
	a.total = size
	a.blocks.Init()

	if size == 0 {
		return
	}

	a.blocks.PushBack(&Block{Start: 0, Size: size, IsFree: true, ID: -1})
}

// Total returns the number of bytes managed by the allocator.
func (a *Allocator) Total() uint64 {
	return a.total
}

// Allocate carves size bytes out of a free block chosen by the strategy.
func (a *Allocator) Allocate(strategy Strategy, size uint64) (Allocation, error) {
	a.requests++

	if size == 0 {
		a.reportFailure(strategy, size)
		return Allocation{}, ErrInvalidSize
	}

	elem := a.findFit(strategy, size)
	if elem == nil {
		a.reportFailure(strategy, size)
		return Allocation{}, fmt.Errorf("%w: %s cannot place %d bytes",
			ErrAllocationFailure, strategy, size)
	}

	block := elem.Value.(*Block)
	if block.Size > size {
		residual := &Block{
			Start:  block.Start + size,
			Size:   block.Size - size,
			IsFree: true,
			ID:     -1,
		}
		a.blocks.InsertAfter(residual, elem)
	}

	block.Size = size
	block.Requested = size
	block.IsFree = false
	block.ID = a.nextBlockID
	a.nextBlockID++
	a.successes++

	alloc := Allocation{ID: block.ID, Address: block.Start, Size: size}
	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosAlloc,
		Item:   alloc,
		Detail: strategy,
	})

	return alloc, nil
}

func (a *Allocator) reportFailure(strategy Strategy, size uint64) {
	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosAllocFail,
		Item:   size,
		Detail: strategy,
	})
}

func (a *Allocator) findFit(strategy Strategy, size uint64) *list.Element {
	var chosen *list.Element

	for e := a.blocks.Front(); e != nil; e = e.Next() {
		b := e.Value.(*Block)
		if !b.IsFree || b.Size < size {
			continue
		}

		switch strategy {
		case FirstFit:
			return e
		case BestFit:
			if chosen == nil || b.Size < chosen.Value.(*Block).Size {
				chosen = e
			}
		case WorstFit:
			if chosen == nil || b.Size > chosen.Value.(*Block).Size {
				chosen = e
			}
		default:
			panic(fmt.Sprintf("unknown strategy %d", int(strategy)))
		}
	}

	return chosen
}

// Free releases the allocated block with the given ID and merges it with free
// neighbours.
func (a *Allocator) Free(id int) error {
	for e := a.blocks.Front(); e != nil; e = e.Next() {
		b := e.Value.(*Block)
		if b.IsFree || b.ID != id {
			continue
		}

		a.InvokeHook(sim.HookCtx{Domain: a, Pos: HookPosFree, Item: *b})

		b.IsFree = true
		b.Requested = 0
		b.ID = -1

		a.coalesce(e)

		return nil
	}

	return fmt.Errorf("%w: %d", ErrUnknownBlockID, id)
}

func (a *Allocator) coalesce(e *list.Element) {
	if prev := e.Prev(); prev != nil && prev.Value.(*Block).IsFree {
		prev.Value.(*Block).Size += e.Value.(*Block).Size
		a.blocks.Remove(e)
		e = prev
	}

	if next := e.Next(); next != nil && next.Value.(*Block).IsFree {
		e.Value.(*Block).Size += next.Value.(*Block).Size
		a.blocks.Remove(next)
	}
}

// FreeByAddress releases the allocated block that starts at addr.
func (a *Allocator) FreeByAddress(addr uint64) error {
	for e := a.blocks.Front(); e != nil; e = e.Next() {
		b := e.Value.(*Block)
		if !b.IsFree && b.Start == addr {
			return a.Free(b.ID)
		}
	}

	return fmt.Errorf("%w: 0x%x", ErrUnknownAddress, addr)
}

// Dump returns a copy of the blocks in address order.
func (a *Allocator) Dump() []Block {
	blocks := make([]Block, 0, a.blocks.Len())
	for e := a.blocks.Front(); e != nil; e = e.Next() {
		blocks = append(blocks, *e.Value.(*Block))
	}

	return blocks
}

// Package buddy implements a power-of-two buddy allocator.
//
// The allocator does not keep per-allocation metadata. A caller that frees a
// block must pass the same size it allocated with; double frees and frees with
// a mismatched size are not detected.
package buddy

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/krish-2325/memory-management-simulator/sim"
)

// HookPosAlloc marks a successful allocation. The item is a Region.
var HookPosAlloc = &sim.HookPos{Name: "BuddyAlloc"}

// HookPosAllocFail marks a failed allocation. The item is the requested size.
var HookPosAllocFail = &sim.HookPos{Name: "BuddyAllocFail"}

// HookPosFree marks a release. The item is the released Region and the detail
// is the Region that ended up on the free list after merging.
var HookPosFree = &sim.HookPos{Name: "BuddyFree"}

// A Region is a block handed out or taken back by the allocator.
type Region struct {
	Address uint64
	Size    uint64
}

// A FreeList lists the start addresses of the free blocks of one size.
type FreeList struct {
	Size      uint64
	Addresses []uint64
}

// Allocator manages free lists keyed by block size.
type Allocator struct {
	*sim.HookableBase

	name      string
	totalSize uint64
	minBlock  uint64
	freeLists map[uint64][]uint64

	allocations uint64
	failures    uint64
}

// NewAllocator creates a buddy allocator. Both sizes must be powers of two
// and minBlock must not exceed totalSize.
func NewAllocator(name string, totalSize, minBlock uint64) (*Allocator, error) {
	if !isPowerOfTwo(totalSize) || !isPowerOfTwo(minBlock) {
		return nil, fmt.Errorf("%w: total %d and minimum block %d "+
			"must be powers of two", ErrInvalidConfiguration, totalSize, minBlock)
	}

	if minBlock > totalSize {
		return nil, fmt.Errorf("%w: minimum block %d exceeds total %d",
			ErrInvalidConfiguration, minBlock, totalSize)
	}

	a := &Allocator{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		totalSize:    totalSize,
		minBlock:     minBlock,
		freeLists:    make(map[uint64][]uint64),
	}
	a.freeLists[totalSize] = []uint64{0}

	return a, nil
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len64(n-1)
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// TotalSize returns the number of bytes managed.
func (a *Allocator) TotalSize() uint64 {
	return a.totalSize
}

// MinBlock returns the smallest block size handed out.
func (a *Allocator) MinBlock() uint64 {
	return a.minBlock
}

// BlockSize returns the size of the block that serves a request of the given
// number of bytes.
func (a *Allocator) BlockSize(size uint64) uint64 {
	if size > a.totalSize {
		return size
	}

	rounded := nextPowerOfTwo(size)
	if rounded < a.minBlock {
		rounded = a.minBlock
	}

	return rounded
}

// Allocate returns the address of a free block of at least size bytes.
func (a *Allocator) Allocate(size uint64) (uint64, error) {
	want := a.BlockSize(size)

	current := want
	for current <= a.totalSize && len(a.freeLists[current]) == 0 {
		current <<= 1
	}

	if current > a.totalSize {
		a.failures++
		a.InvokeHook(sim.HookCtx{Domain: a, Pos: HookPosAllocFail, Item: size})

		return 0, fmt.Errorf("%w: %d bytes requested", ErrNoSpace, size)
	}

	addr := a.pop(current)
	for current > want {
		current >>= 1
		a.push(current, addr+current)
	}

	a.allocations++
	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosAlloc,
		Item:   Region{Address: addr, Size: want},
	})

	return addr, nil
}

// Free returns the block at addr to the allocator and merges it with its
// buddies as long as they are free.
func (a *Allocator) Free(addr, size uint64) error {
	size = a.BlockSize(size)
	if size > a.totalSize || addr%size != 0 || addr+size > a.totalSize {
		return fmt.Errorf("%w: 0x%x with size %d", ErrInvalidAddress, addr, size)
	}

	released := Region{Address: addr, Size: size}

	for size < a.totalSize {
		buddy := addr ^ size
		if !a.remove(size, buddy) {
			break
		}

		addr = min(addr, buddy)
		size <<= 1
	}

	a.push(size, addr)

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosFree,
		Item:   released,
		Detail: Region{Address: addr, Size: size},
	})

	return nil
}

func (a *Allocator) push(size, addr uint64) {
	a.freeLists[size] = append(a.freeLists[size], addr)
}

func (a *Allocator) pop(size uint64) uint64 {
	list := a.freeLists[size]
	addr := list[len(list)-1]
	a.freeLists[size] = list[:len(list)-1]

	return addr
}

func (a *Allocator) remove(size, addr uint64) bool {
	list := a.freeLists[size]
	for i, candidate := range list {
		if candidate == addr {
			a.freeLists[size] = append(list[:i], list[i+1:]...)
			return true
		}
	}

	return false
}

// Dump returns the non-empty free lists ordered by block size, each with its
// addresses in ascending order.
func (a *Allocator) Dump() []FreeList {
	lists := make([]FreeList, 0, len(a.freeLists))

	for size, addrs := range a.freeLists {
		if len(addrs) == 0 {
			continue
		}

		sorted := make([]uint64, len(addrs))
		copy(sorted, addrs)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		lists = append(lists, FreeList{Size: size, Addresses: sorted})
	}

	sort.Slice(lists, func(i, j int) bool { return lists[i].Size < lists[j].Size })

	return lists
}

// Stats summarizes the free space of a buddy allocator.
type Stats struct {
	Total        uint64
	Free         uint64
	LargestFree  uint64
	Allocations  uint64
	Failures     uint64
	FreeBlockNum int
}

// Stats computes the current statistics.
func (a *Allocator) Stats() Stats {
	s := Stats{
		Total:       a.totalSize,
		Allocations: a.allocations,
		Failures:    a.failures,
	}

	for size, addrs := range a.freeLists {
		if len(addrs) == 0 {
			continue
		}

		s.Free += size * uint64(len(addrs))
		s.FreeBlockNum += len(addrs)

		if size > s.LargestFree {
			s.LargestFree = size
		}
	}

	return s
}

// Package simulation wires the memory engines together and serves them to
// the command layer.
package simulation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/krish-2325/memory-management-simulator/datarecording"
	"github.com/krish-2325/memory-management-simulator/mem/buddy"
	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/heap"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
	"github.com/krish-2325/memory-management-simulator/sim"
	"github.com/krish-2325/memory-management-simulator/tracing"
)

var (
	// ErrAddressOutOfRange is returned by Access for virtual addresses beyond
	// the address space. Such accesses are not counted.
	ErrAddressOutOfRange = errors.New("invalid virtual address (out of range)")

	// ErrUnknownCacheLevel is returned when reconfiguring a level that does
	// not exist.
	ErrUnknownCacheLevel = errors.New("unknown cache level")
)

// A MallocResult describes a successful allocation. Buddy allocations have
// no block ID and report the rounded block size.
type MallocResult struct {
	ID      int
	Address uint64
	Size    uint64
	Buddy   bool
}

// An AccessResult describes one virtual memory access.
type AccessResult struct {
	VAddr     uint64
	PAddr     uint64
	PageFault bool
	Cache     cache.AccessResult
}

// A Summary collects the access statistics of the whole system.
type Summary struct {
	TotalAccesses uint64
	Cache         []cache.LevelStats
	VM            mmu.Stats
}

// A Simulation owns the heap, the buddy allocator, the cache hierarchy and
// the MMU. All its methods are safe to call from multiple goroutines.
type Simulation struct {
	mu sync.Mutex

	id     string
	config Config

	heap  *heap.Allocator
	buddy *buddy.Allocator
	cache *cache.Hierarchy
	mmu   *mmu.MMU

	mode          AllocatorMode
	totalAccesses uint64

	counter      *tracing.CountTracer
	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config {
	return s.config
}

func (s *Simulation) engines() []sim.NamedHookable {
	return []sim.NamedHookable{s.heap, s.buddy, s.cache, s.mmu}
}

// AddTracer lets the tracer receive the events of every engine.
func (s *Simulation) AddTracer(t tracing.Tracer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.engines() {
		tracing.CollectTrace(e, t)
	}
}

// EngineNames lists the names of the engines, in a fixed order.
func (s *Simulation) EngineNames() []string {
	names := []string{}
	for _, e := range s.engines() {
		names = append(names, e.Name())
	}

	return names
}

// Inspect runs f on the engine with the given name while no other method can
// change it. It returns false if there is no such engine.
func (s *Simulation) Inspect(name string, f func(engine any)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.engines() {
		if e.Name() == name {
			f(e)
			return true
		}
	}

	return false
}

// InitHeap resets the contiguous heap to a single free block of size bytes.
func (s *Simulation) InitHeap(size uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.heap.Init(size)
}

// SetAllocator selects the allocator used by Malloc.
func (s *Simulation) SetAllocator(mode AllocatorMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
}

// Allocator returns the allocator used by Malloc.
func (s *Simulation) Allocator() AllocatorMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

// Malloc allocates size bytes from the selected allocator.
func (s *Simulation) Malloc(size uint64) (MallocResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeBuddy {
		addr, err := s.buddy.Allocate(size)
		if err != nil {
			return MallocResult{}, err
		}

		return MallocResult{
			ID:      -1,
			Address: addr,
			Size:    s.buddy.BlockSize(size),
			Buddy:   true,
		}, nil
	}

	alloc, err := s.heap.Allocate(s.mode.strategy(), size)
	if err != nil {
		return MallocResult{}, err
	}

	return MallocResult{ID: alloc.ID, Address: alloc.Address, Size: alloc.Size}, nil
}

// Free releases the heap block with the given ID.
func (s *Simulation) Free(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Free(id)
}

// FreeAddress releases the heap block that starts at addr.
func (s *Simulation) FreeAddress(addr uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.FreeByAddress(addr)
}

// BuddyFree returns a block to the buddy allocator. The size must be the one
// used to allocate the block.
func (s *Simulation) BuddyFree(addr, size uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buddy.Free(addr, size)
}

// HeapDump returns the blocks of the heap in address order.
func (s *Simulation) HeapDump() []heap.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Dump()
}

// HeapStats returns the statistics of the heap.
func (s *Simulation) HeapStats() heap.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.heap.Stats()
}

// BuddyDump returns the non-empty buddy free lists.
func (s *Simulation) BuddyDump() []buddy.FreeList {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buddy.Dump()
}

// BuddyStats returns the statistics of the buddy allocator.
func (s *Simulation) BuddyStats() buddy.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buddy.Stats()
}

// Access translates the virtual address and sends the physical address
// through the cache hierarchy.
func (s *Simulation) Access(vAddr uint64) (AccessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vAddr >= s.mmu.AddressSpaceSize() {
		return AccessResult{}, fmt.Errorf("%w: 0x%x", ErrAddressOutOfRange, vAddr)
	}

	s.totalAccesses++

	t, err := s.mmu.TranslateDetailed(vAddr)
	if err != nil {
		return AccessResult{}, err
	}

	return AccessResult{
		VAddr:     vAddr,
		PAddr:     t.PAddr,
		PageFault: t.Fault,
		Cache:     s.cache.Access(t.PAddr),
	}, nil
}

// SetCacheLevel changes the size and associativity of one level and rebuilds
// the whole hierarchy, dropping the contents and counters of all levels.
func (s *Simulation) SetCacheLevel(name string, size, associativity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configs := s.cache.Configs()

	found := false
	for i := range configs {
		if configs[i].Name == name {
			configs[i].Size = size
			configs[i].Associativity = associativity
			found = true
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownCacheLevel, name)
	}

	return s.cache.Reinit(configs...)
}

// CacheConfigs returns the configuration of every cache level.
func (s *Simulation) CacheConfigs() []cache.LevelConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.Configs()
}

// CacheStats returns the counters of every cache level.
func (s *Simulation) CacheStats() []cache.LevelStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.Stats()
}

// VMStats returns the counters of the MMU.
func (s *Simulation) VMStats() mmu.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mmu.Stats()
}

// ResidentPages lists the pages that are mapped to a frame.
func (s *Simulation) ResidentPages() []mmu.ResidentPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mmu.ResidentPages()
}

// AddressSpaceSize returns the size of the virtual address space.
func (s *Simulation) AddressSpaceSize() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mmu.AddressSpaceSize()
}

// TotalAccesses returns the number of accepted Access calls.
func (s *Simulation) TotalAccesses() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalAccesses
}

// Summary returns the total access count with the cache and VM statistics.
func (s *Simulation) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Summary{
		TotalAccesses: s.totalAccesses,
		Cache:         s.cache.Stats(),
		VM:            s.mmu.Stats(),
	}
}

// EventCounts returns how many events each engine produced so far.
func (s *Simulation) EventCounts() []tracing.EventCount {
	return s.counter.Counts()
}

// DataRecorder returns the recorder that stores the event trace, or nil if
// the simulation does not record.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dataRecorder
}

// Terminate writes the end of the run and closes the recorder.
func (s *Simulation) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataRecorder == nil {
		return nil
	}

	s.execRecorder.End()
	err := s.dataRecorder.Close()
	s.dataRecorder = nil

	return err
}

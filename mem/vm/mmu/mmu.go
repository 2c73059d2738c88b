// Package mmu simulates paged address translation with demand paging.
package mmu

import (
	"errors"
	"fmt"

	"github.com/krish-2325/memory-management-simulator/mem/vm"
	"github.com/krish-2325/memory-management-simulator/sim"
)

var (
	// ErrSegmentationFault is returned when a virtual address lies outside
	// the page table.
	ErrSegmentationFault = errors.New("segmentation fault: invalid page access")

	// ErrInvalidConfiguration is returned when the MMU cannot be built from
	// the given parameters.
	ErrInvalidConfiguration = errors.New("invalid virtual memory configuration")
)

// DiskLatency is the symbolic cost, in cycles, of bringing a page in from
// disk. It is only reported, never waited on.
const DiskLatency = 100

// HookPosPageHit marks a translation that found its page resident. The item
// is a Translation.
var HookPosPageHit = &sim.HookPos{Name: "PageHit"}

// HookPosPageFault marks a translation that had to load its page. The item is
// a Translation and the detail is the evicted page, or -1 if a free frame was
// used.
var HookPosPageFault = &sim.HookPos{Name: "PageFault"}

// HookPosSegFault marks an access outside the address space. The item is the
// virtual address.
var HookPosSegFault = &sim.HookPos{Name: "SegFault"}

// A Translation describes how one virtual address was resolved.
type Translation struct {
	VAddr  uint64
	PAddr  uint64
	Page   int
	Frame  int
	Offset uint64
	Fault  bool
}

// MMU translates virtual addresses through a fixed-size page table into a
// limited number of physical frames.
type MMU struct {
	*sim.HookableBase

	name         string
	pageSize     uint64
	policy       Policy
	pageTable    vm.PageTable
	frames       *vm.FrameTable
	victimFinder VictimFinder

	faultClock   uint64
	hits         uint64
	faults       uint64
	diskAccesses uint64
}

// Name returns the name of the MMU.
func (m *MMU) Name() string {
	return m.name
}

// PageSize returns the page size in bytes.
func (m *MMU) PageSize() uint64 {
	return m.pageSize
}

// NumFrames returns the number of physical frames.
func (m *MMU) NumFrames() int {
	return m.frames.NumFrames()
}

// Policy returns the replacement policy.
func (m *MMU) Policy() Policy {
	return m.policy
}

// AddressSpaceSize returns the size of the virtual address space in bytes.
func (m *MMU) AddressSpaceSize() uint64 {
	return uint64(m.pageTable.NumPages()) * m.pageSize
}

// Translate resolves a virtual address into a physical address, loading the
// page on a fault.
func (m *MMU) Translate(vAddr uint64) (uint64, error) {
	t, err := m.TranslateDetailed(vAddr)
	return t.PAddr, err
}

// TranslateDetailed works like Translate but also tells which page and frame
// were involved and whether a fault happened.
func (m *MMU) TranslateDetailed(vAddr uint64) (Translation, error) {
	pageNum := vAddr / m.pageSize
	offset := vAddr % m.pageSize

	if pageNum >= uint64(m.pageTable.NumPages()) {
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosSegFault, Item: vAddr})
		return Translation{VAddr: vAddr}, fmt.Errorf("%w: address 0x%x",
			ErrSegmentationFault, vAddr)
	}

	page := int(pageNum)
	t := Translation{VAddr: vAddr, Page: page, Offset: offset}

	pte, found := m.pageTable.Find(page)
	if found {
		m.hits++
		pte.Reference = true
		m.pageTable.Update(page, pte)

		t.Frame = pte.Frame
		t.PAddr = m.physicalAddress(pte.Frame, offset)
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosPageHit, Item: t})

		return t, nil
	}

	m.faults++
	m.diskAccesses++
	m.faultClock++

	frame, evicted := m.claimFrame()

	m.pageTable.Insert(page, vm.PTE{
		Frame:          frame,
		InsertionOrder: m.faultClock,
		Reference:      true,
	})
	m.frames.Assign(frame, page)

	t.Frame = frame
	t.Fault = true
	t.PAddr = m.physicalAddress(frame, offset)
	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosPageFault,
		Item:   t,
		Detail: evicted,
	})

	return t, nil
}

func (m *MMU) physicalAddress(frame int, offset uint64) uint64 {
	return uint64(frame)*m.pageSize + offset
}

// claimFrame returns a free frame, evicting a resident page if needed. The
// second return value is the evicted page, or -1.
func (m *MMU) claimFrame() (frame int, evicted int) {
	if frame, ok := m.frames.FreeFrame(); ok {
		return frame, -1
	}

	frame = m.victimFinder.FindVictim(m.pageTable, m.frames)
	evicted = m.frames.PageIn(frame)

	m.pageTable.Remove(evicted)
	m.frames.Release(frame)

	return frame, evicted
}

// ResidentPages lists the pages currently mapped, with their entries.
func (m *MMU) ResidentPages() []ResidentPage {
	pages := []ResidentPage{}
	for _, page := range m.pageTable.ValidPages() {
		pte, _ := m.pageTable.Find(page)
		pages = append(pages, ResidentPage{Page: page, PTE: pte})
	}

	return pages
}

// ResidentPage pairs a page number with its page table entry.
type ResidentPage struct {
	Page int
	vm.PTE
}

// Frames returns the page held by each frame, -1 for free frames.
func (m *MMU) Frames() []int {
	return m.frames.Pages()
}

// Stats reports the translation counters.
type Stats struct {
	Hits              uint64
	Faults            uint64
	DiskAccesses      uint64
	FaultRatePct      float64
	DiskLatencyCycles uint64
	DiskCycles        uint64
}

// FaultRate returns the percentage of translations that faulted, or 0 before
// any translation.
func (m *MMU) FaultRate() float64 {
	total := m.hits + m.faults
	if total == 0 {
		return 0
	}

	return float64(m.faults) / float64(total) * 100
}

// Stats returns the current counters.
func (m *MMU) Stats() Stats {
	return Stats{
		Hits:              m.hits,
		Faults:            m.faults,
		DiskAccesses:      m.diskAccesses,
		FaultRatePct:      m.FaultRate(),
		DiskLatencyCycles: DiskLatency,
		DiskCycles:        m.diskAccesses * DiskLatency,
	}
}

package mmu

import (
	"github.com/krish-2325/memory-management-simulator/mem/vm"
)

// A VictimFinder picks the frame to reclaim when all frames are in use.
type VictimFinder interface {
	FindVictim(pageTable vm.PageTable, frames *vm.FrameTable) (frame int)
}

// FIFOVictimFinder evicts the resident page that was loaded earliest, no
// matter which frame it lives in.
type FIFOVictimFinder struct {
}

// FindVictim returns the frame of the page with the smallest insertion order.
func (f *FIFOVictimFinder) FindVictim(
	pageTable vm.PageTable,
	_ *vm.FrameTable,
) int {
	victim := -1
	var oldest vm.PTE

	for _, page := range pageTable.ValidPages() {
		pte, _ := pageTable.Find(page)
		if victim < 0 || pte.InsertionOrder < oldest.InsertionOrder {
			victim = page
			oldest = pte
		}
	}

	if victim < 0 {
		panic("no resident page to evict")
	}

	return oldest.Frame
}

// ClockVictimFinder sweeps the frames in circular order and gives every page
// with its reference bit set a second chance.
type ClockVictimFinder struct {
	hand int
}

// Hand returns the frame the clock hand points to.
func (c *ClockVictimFinder) Hand() int {
	return c.hand
}

// FindVictim clears reference bits under the hand until it finds a page whose
// bit is already clear. The hand stays on the returned frame.
func (c *ClockVictimFinder) FindVictim(
	pageTable vm.PageTable,
	frames *vm.FrameTable,
) int {
	for {
		page := frames.PageIn(c.hand)
		pte, _ := pageTable.Find(page)

		if !pte.Reference {
			return c.hand
		}

		pte.Reference = false
		pageTable.Update(page, pte)
		c.hand = (c.hand + 1) % frames.NumFrames()
	}
}

// Package vm defines the page table and frame table of the simulated paged
// virtual memory.
package vm

import "fmt"

// A PTE is an entry in the page table, maintaining the information about how
// to translate a virtual page to a physical frame.
type PTE struct {
	Valid          bool
	Frame          int
	InsertionOrder uint64
	Reference      bool
}

// A PageTable holds one entry per virtual page.
type PageTable interface {
	NumPages() int
	Find(page int) (PTE, bool)
	Insert(page int, pte PTE)
	Update(page int, pte PTE)
	Remove(page int)
	ValidPages() []int
}

// NewPageTable creates a page table with numPages entries, all invalid.
func NewPageTable(numPages int) PageTable {
	pt := &pageTableImpl{
		entries: make([]PTE, numPages),
	}

	for i := range pt.entries {
		pt.entries[i].Frame = -1
	}

	return pt
}

// pageTableImpl is the default implementation of a Page Table
type pageTableImpl struct {
	entries []PTE
}

func (pt *pageTableImpl) NumPages() int {
	return len(pt.entries)
}

// Find returns the entry of the page. The bool return value tells if the page
// is mapped to a frame.
func (pt *pageTableImpl) Find(page int) (PTE, bool) {
	pt.pageMustBeInRange(page)

	pte := pt.entries[page]

	return pte, pte.Valid
}

// Insert maps a page that is not resident yet.
func (pt *pageTableImpl) Insert(page int, pte PTE) {
	pt.pageMustBeInRange(page)
	pt.pageMustNotBeValid(page)

	pte.Valid = true
	pt.entries[page] = pte
}

// Update changes the entry of a resident page.
func (pt *pageTableImpl) Update(page int, pte PTE) {
	pt.pageMustBeInRange(page)
	pt.pageMustBeValid(page)

	pte.Valid = true
	pt.entries[page] = pte
}

// Remove invalidates the entry of a resident page.
func (pt *pageTableImpl) Remove(page int) {
	pt.pageMustBeInRange(page)
	pt.pageMustBeValid(page)

	pt.entries[page] = PTE{Frame: -1}
}

// ValidPages lists the resident pages in ascending order.
func (pt *pageTableImpl) ValidPages() []int {
	pages := []int{}
	for i, pte := range pt.entries {
		if pte.Valid {
			pages = append(pages, i)
		}
	}

	return pages
}

func (pt *pageTableImpl) pageMustBeInRange(page int) {
	if page < 0 || page >= len(pt.entries) {
		panic(fmt.Sprintf("page %d out of range", page))
	}
}

func (pt *pageTableImpl) pageMustBeValid(page int) {
	if !pt.entries[page].Valid {
		panic("page does not exist")
	}
}

func (pt *pageTableImpl) pageMustNotBeValid(page int) {
	if pt.entries[page].Valid {
		panic("page exist")
	}
}

package mmu

import (
	"fmt"

	"github.com/krish-2325/memory-management-simulator/mem/vm"
	"github.com/krish-2325/memory-management-simulator/sim"
)

// A Builder can build MMUs
type Builder struct {
	name      string
	pageSize  uint64
	numFrames int
	numPages  int
	policy    Policy
}

// MakeBuilder creates a new builder with 8 frames of 256 bytes, a 256-entry
// page table and clock replacement.
func MakeBuilder() Builder {
	return Builder{
		name:      "MMU",
		pageSize:  256,
		numFrames: 8,
		numPages:  256,
		policy:    ClockReplacement,
	}
}

// WithName sets the name of the MMU.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithPageSize sets the page size in bytes.
func (b Builder) WithPageSize(n uint64) Builder {
	b.pageSize = n
	return b
}

// WithNumFrames sets the number of physical frames.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithNumPages sets the number of entries in the page table.
func (b Builder) WithNumPages(n int) Builder {
	b.numPages = n
	return b
}

// WithPolicy sets the page replacement policy.
func (b Builder) WithPolicy(p Policy) Builder {
	b.policy = p
	return b
}

func (b Builder) parametersMustBeValid() error {
	if b.pageSize == 0 || b.numFrames <= 0 || b.numPages <= 0 {
		return fmt.Errorf("%w: page size %d, frames %d and pages %d "+
			"must be positive",
			ErrInvalidConfiguration, b.pageSize, b.numFrames, b.numPages)
	}

	return nil
}

// Build creates a new MMU.
func (b Builder) Build() (*MMU, error) {
	if err := b.parametersMustBeValid(); err != nil {
		return nil, err
	}

	m := &MMU{
		HookableBase: sim.NewHookableBase(),
		name:         b.name,
		pageSize:     b.pageSize,
		policy:       b.policy,
		pageTable:    vm.NewPageTable(b.numPages),
		frames:       vm.NewFrameTable(b.numFrames),
	}

	switch b.policy {
	case FIFOReplacement:
		m.victimFinder = &FIFOVictimFinder{}
	case ClockReplacement:
		m.victimFinder = &ClockVictimFinder{}
	default:
		return nil, fmt.Errorf("%w: unknown policy %s",
			ErrInvalidConfiguration, b.policy)
	}

	return m, nil
}

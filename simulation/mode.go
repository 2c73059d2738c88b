package simulation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/krish-2325/memory-management-simulator/mem/heap"
)

// ErrUnknownAllocator is returned for an allocator name that is not
// supported.
var ErrUnknownAllocator = errors.New("unknown allocator")

// AllocatorMode selects which allocator serves Malloc.
type AllocatorMode int

// Allocator modes.
const (
	ModeFirstFit AllocatorMode = iota
	ModeBestFit
	ModeWorstFit
	ModeBuddy
)

func (m AllocatorMode) String() string {
	switch m {
	case ModeFirstFit:
		return "first_fit"
	case ModeBestFit:
		return "best_fit"
	case ModeWorstFit:
		return "worst_fit"
	case ModeBuddy:
		return "buddy"
	default:
		return fmt.Sprintf("AllocatorMode(%d)", int(m))
	}
}

// ParseAllocatorMode converts first_fit, best_fit, worst_fit or buddy into
// an AllocatorMode.
func ParseAllocatorMode(name string) (AllocatorMode, error) {
	if strings.EqualFold(name, "buddy") {
		return ModeBuddy, nil
	}

	strategy, err := heap.ParseStrategy(name)
	if err != nil {
		return ModeFirstFit, fmt.Errorf("%w: %q", ErrUnknownAllocator, name)
	}

	return modeOf(strategy), nil
}

func modeOf(s heap.Strategy) AllocatorMode {
	switch s {
	case heap.BestFit:
		return ModeBestFit
	case heap.WorstFit:
		return ModeWorstFit
	default:
		return ModeFirstFit
	}
}

func (m AllocatorMode) strategy() heap.Strategy {
	switch m {
	case ModeBestFit:
		return heap.BestFit
	case ModeWorstFit:
		return heap.WorstFit
	default:
		return heap.FirstFit
	}
}

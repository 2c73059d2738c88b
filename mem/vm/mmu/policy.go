package mmu

import (
	"fmt"
	"strings"
)

// Policy selects which resident page is evicted when no frame is free.
type Policy int

// Supported page replacement policies.
const (
	FIFOReplacement Policy = iota
	ClockReplacement
)

func (p Policy) String() string {
	switch p {
	case FIFOReplacement:
		return "FIFO"
	case ClockReplacement:
		return "CLOCK"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "fifo" or "clock" (any case) into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToUpper(name) {
	case "FIFO", "FIFO_REPL":
		return FIFOReplacement, nil
	case "CLOCK", "CLOCK_REPL":
		return ClockReplacement, nil
	}

	return FIFOReplacement, fmt.Errorf("%w: unknown page replacement policy %q",
		ErrInvalidConfiguration, name)
}

package cache

import (
	"fmt"
	"strings"
)

// Policy selects which line of a full set gets replaced on a miss.
type Policy int

// Supported replacement policies.
const (
	FIFO Policy = iota
	LRU
)

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "fifo" or "lru" (any case) into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToUpper(name) {
	case "FIFO":
		return FIFO, nil
	case "LRU":
		return LRU, nil
	}

	return FIFO, fmt.Errorf("%w: unknown replacement policy %q",
		ErrInvalidConfiguration, name)
}

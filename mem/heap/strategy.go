package heap

import (
	"fmt"
	"strings"
)

// Strategy decides which free block serves an allocation request.
type Strategy int

// The supported fit strategies.
const (
	FirstFit Strategy = iota
	BestFit
	WorstFit
)

func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "first_fit"
	case BestFit:
		return "best_fit"
	case WorstFit:
		return "worst_fit"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts names such as "first_fit" or "best-fit" into a
// Strategy.
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(name), "-", "_")

	switch normalized {
	case "first_fit", "first":
		return FirstFit, nil
	case "best_fit", "best":
		return BestFit, nil
	case "worst_fit", "worst":
		return WorstFit, nil
	}

	return FirstFit, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

package sim

import (
	"log"
)

// LogHookBase is embedded by hooks and tracers that print what they observe.
// A nil Logger discards the output.
type LogHookBase struct {
	*log.Logger
}

// Logf prints a line if a Logger is set.
func (h LogHookBase) Logf(format string, args ...any) {
	if h.Logger == nil {
		return
	}

	h.Printf(format, args...)
}

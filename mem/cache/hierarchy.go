// Package cache simulates a hierarchy of set-associative caches.
package cache

import (
	"fmt"

	"github.com/krish-2325/memory-management-simulator/sim"
)

// HookPosAccess marks an access to the hierarchy. The item is an
// AccessResult.
var HookPosAccess = &sim.HookPos{Name: "CacheAccess"}

// LevelOutcome tells whether one level hit.
type LevelOutcome struct {
	Level string
	Hit   bool
}

// AccessResult lists the levels probed by an access, in probe order. Probing
// stops at the first hit.
type AccessResult struct {
	Address  uint64
	Outcomes []LevelOutcome
}

// HitLevel returns the name of the level that hit, or an empty string if the
// access went all the way to memory.
func (r AccessResult) HitLevel() string {
	if len(r.Outcomes) == 0 {
		return ""
	}

	last := r.Outcomes[len(r.Outcomes)-1]
	if !last.Hit {
		return ""
	}

	return last.Level
}

// Hierarchy probes its levels in order. Every level that misses installs the
// block; levels below the one that hit are not touched.
type Hierarchy struct {
	*sim.HookableBase

	name   string
	levels []*Level
}

// NewHierarchy builds a hierarchy from level configurations, upper level
// first.
func NewHierarchy(name string, configs ...LevelConfig) (*Hierarchy, error) {
	h := &Hierarchy{
		HookableBase: sim.NewHookableBase(),
		name:         name,
	}

	if err := h.Reinit(configs...); err != nil {
		return nil, err
	}

	return h, nil
}

// Name returns the name of the hierarchy.
func (h *Hierarchy) Name() string {
	return h.name
}

// Levels returns the levels, upper level first.
func (h *Hierarchy) Levels() []*Level {
	return h.levels
}

// Configs returns the configurations of the current levels.
func (h *Hierarchy) Configs() []LevelConfig {
	configs := make([]LevelConfig, len(h.levels))
	for i, l := range h.levels {
		configs[i] = l.Config()
	}

	return configs
}

// Reinit throws away all the levels, including their contents and counters,
// and builds new ones. On error the current levels are kept.
func (h *Hierarchy) Reinit(configs ...LevelConfig) error {
	if len(configs) == 0 {
		return fmt.Errorf("%w: at least one level is required",
			ErrInvalidConfiguration)
	}

	levels := make([]*Level, 0, len(configs))
	for _, c := range configs {
		l, err := NewLevel(c)
		if err != nil {
			return err
		}

		levels = append(levels, l)
	}

	h.levels = levels

	return nil
}

// Access sends the address through the levels until one of them hits.
func (h *Hierarchy) Access(address uint64) AccessResult {
	result := AccessResult{Address: address}

	for _, l := range h.levels {
		hit := l.Access(address)
		result.Outcomes = append(result.Outcomes,
			LevelOutcome{Level: l.Name(), Hit: hit})

		if hit {
			break
		}
	}

	h.InvokeHook(sim.HookCtx{Domain: h, Pos: HookPosAccess, Item: result})

	return result
}

// Stats returns the counters of every level, upper level first.
func (h *Hierarchy) Stats() []LevelStats {
	stats := make([]LevelStats, len(h.levels))
	for i, l := range h.levels {
		stats[i] = l.Stats()
	}

	return stats
}

package cache

import (
	"github.com/krish-2325/memory-management-simulator/mem/cache/internal/tagging"
)

// A Level is one set-associative cache.
type Level struct {
	config       LevelConfig
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder

	hits        uint64
	misses      uint64
	globalClock uint64
}

// NewLevel creates an empty level. All lines start invalid.
func NewLevel(config LevelConfig) (*Level, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	l := &Level{
		config: config,
		tags: tagging.NewTagArray(
			config.NumSets(), config.Associativity, config.BlockSize),
	}

	switch config.Policy {
	case FIFO:
		l.victimFinder = tagging.NewFIFOVictimFinder()
	case LRU:
		l.victimFinder = tagging.NewLRUVictimFinder()
	}

	return l, nil
}

// Name returns the name of the level.
func (l *Level) Name() string {
	return l.config.Name
}

// Config returns the parameters the level was built with.
func (l *Level) Config() LevelConfig {
	return l.config
}

// Access looks the address up and fills it on a miss. It returns true on a
// hit.
func (l *Level) Access(address uint64) bool {
	block, found := l.tags.Lookup(address)
	if found {
		l.hits++
		l.globalClock++
		block.LastUsedOrder = l.globalClock
		l.tags.Update(block)

		return true
	}

	l.misses++
	l.globalClock++

	set, _ := l.tags.GetSet(address)
	_, tag := l.tags.Decode(address)

	victim := l.victimFinder.FindVictim(set)
	victim.IsValid = true
	victim.Tag = tag
	victim.InsertionOrder = l.globalClock
	victim.LastUsedOrder = l.globalClock
	l.tags.Update(victim)

	return false
}

// Contains reports whether the address is resident without touching any
// replacement state or counter.
func (l *Level) Contains(address uint64) bool {
	_, found := l.tags.Lookup(address)
	return found
}

// Stats returns the hit and miss counters of the level.
func (l *Level) Stats() LevelStats {
	return LevelStats{
		Name:        l.config.Name,
		Hits:        l.hits,
		Misses:      l.misses,
		HitRatioPct: hitRatio(l.hits, l.misses),
	}
}

func hitRatio(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}

	return float64(hits) / float64(total) * 100
}

// LevelStats reports the counters of one level.
type LevelStats struct {
	Name        string
	Hits        uint64
	Misses      uint64
	HitRatioPct float64
}

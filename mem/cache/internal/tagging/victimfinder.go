package tagging

// A VictimFinder decides with block should be evicted
type VictimFinder interface {
	FindVictim(set *Set) Block
}

// FIFOVictimFinder evicts the block that was filled earliest.
type FIFOVictimFinder struct {
}

// NewFIFOVictimFinder returns a newly constructed fifo evictor
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return new(FIFOVictimFinder)
}

// FindVictim returns an empty block if there is one, otherwise the block with
// the smallest insertion order.
func (e *FIFOVictimFinder) FindVictim(set *Set) Block {
	return findVictim(set, func(b Block) uint64 { return b.InsertionOrder })
}

// LRUVictimFinder evicts the least recently used block to evict
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim returns an empty block if there is one, otherwise the least
// recently used block in a set.
func (e *LRUVictimFinder) FindVictim(set *Set) Block {
	return findVictim(set, func(b Block) uint64 { return b.LastUsedOrder })
}

// findVictim prefers the first invalid way. Among valid ways the smallest key
// wins and ties go to the lower way.
func findVictim(set *Set, key func(Block) uint64) Block {
	victim := -1

	for i, block := range set.Blocks {
		if !block.IsValid {
			return block
		}

		if victim < 0 || key(block) < key(set.Blocks[victim]) {
			victim = i
		}
	}

	return set.Blocks[victim]
}

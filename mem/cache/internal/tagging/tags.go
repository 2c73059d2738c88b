// Package tagging implements the tag array of a set-associative cache.
package tagging

// TagArray keeps the metadata of all the lines of a cache.
type TagArray interface {
	Lookup(reqAddr uint64) (Block, bool)
	Update(block Block)
	GetSet(reqAddr uint64) (set *Set, setID int)
	Decode(reqAddr uint64) (setID int, tag uint64)
	NumSets() int
	NumWays() int
	Reset()
}

// NewTagArray creates a tag array with all lines invalid.
func NewTagArray(
	numSets int,
	numWays int,
	blockSize int,
) TagArray {
	t := &tagArrayImpl{
		numSets:   numSets,
		numWays:   numWays,
		blockSize: blockSize,
		Sets:      []Set{},
	}

	t.Reset()

	return t
}

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag            uint64
	WayID          int
	SetID          int
	IsValid        bool
	InsertionOrder uint64
	LastUsedOrder  uint64
}

// A Set is a list of blocks where a certain piece memory can be stored at.
type Set struct {
	Blocks []Block
}

type tagArrayImpl struct {
	numSets   int
	numWays   int
	blockSize int
	Sets      []Set
}

func (d *tagArrayImpl) NumSets() int {
	return d.numSets
}

func (d *tagArrayImpl) NumWays() int {
	return d.numWays
}

// Decode splits an address into the set it maps to and the tag that
// identifies it within the set.
func (d *tagArrayImpl) Decode(reqAddr uint64) (setID int, tag uint64) {
	blockAddr := reqAddr / uint64(d.blockSize)
	setID = int(blockAddr % uint64(d.numSets))
	tag = blockAddr / uint64(d.numSets)

	return setID, tag
}

// Get the set that a certain address should store at
func (d *tagArrayImpl) GetSet(reqAddr uint64) (set *Set, setID int) {
	setID, _ = d.Decode(reqAddr)
	set = &d.Sets[setID]

	return
}

// Lookup finds the valid block that holds reqAddr.
func (d *tagArrayImpl) Lookup(reqAddr uint64) (Block, bool) {
	setID, tag := d.Decode(reqAddr)
	for _, block := range d.Sets[setID].Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// Update updates the block information
func (d *tagArrayImpl) Update(block Block) {
	d.Sets[block.SetID].Blocks[block.WayID] = block
}

// Reset will mark all the blocks in the directory invalid
func (d *tagArrayImpl) Reset() {
	d.Sets = make([]Set, d.numSets)
	for i := 0; i < d.numSets; i++ {
		for j := 0; j < d.numWays; j++ {
			block := Block{
				IsValid: false,
				SetID:   i,
				WayID:   j,
			}

			d.Sets[i].Blocks = append(d.Sets[i].Blocks, block)
		}
	}
}

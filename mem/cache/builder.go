package cache

// A Builder can build cache hierarchies.
type Builder struct {
	name      string
	blockSize int
	levels    []LevelConfig
}

// MakeBuilder returns a Builder with the default three-level hierarchy.
func MakeBuilder() Builder {
	return Builder{
		name:      "Cache",
		blockSize: 16,
		levels:    DefaultConfigs(),
	}
}

// WithName sets the name of the hierarchy.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithBlockSize sets the block size of every level.
func (b Builder) WithBlockSize(n int) Builder {
	b.blockSize = n
	return b
}

// WithLevels replaces all the levels. The block size of the given
// configurations is overwritten by the builder's block size.
func (b Builder) WithLevels(levels ...LevelConfig) Builder {
	b.levels = append([]LevelConfig(nil), levels...)
	return b
}

// WithLevel changes the size and associativity of the level with the given
// name, or appends a new level if no level has that name.
func (b Builder) WithLevel(name string, size, associativity int, policy Policy) Builder {
	levels := append([]LevelConfig(nil), b.levels...)

	for i := range levels {
		if levels[i].Name == name {
			levels[i].Size = size
			levels[i].Associativity = associativity
			levels[i].Policy = policy
			b.levels = levels

			return b
		}
	}

	b.levels = append(levels, LevelConfig{
		Name:          name,
		Size:          size,
		Associativity: associativity,
		Policy:        policy,
	})

	return b
}

// Configs returns the level configurations the builder would use.
func (b Builder) Configs() []LevelConfig {
	configs := make([]LevelConfig, len(b.levels))
	for i, c := range b.levels {
		c.BlockSize = b.blockSize
		configs[i] = c
	}

	return configs
}

// Build creates the hierarchy.
func (b Builder) Build() (*Hierarchy, error) {
	return NewHierarchy(b.name, b.Configs()...)
}

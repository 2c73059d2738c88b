package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a level cannot be built from the
// given parameters.
var ErrInvalidConfiguration = errors.New("invalid cache configuration")

// LevelConfig describes one level of the hierarchy.
type LevelConfig struct {
	Name          string
	Size          int
	BlockSize     int
	Associativity int
	Policy        Policy
}

// NumSets returns the number of sets the level is split into.
func (c LevelConfig) NumSets() int {
	return c.Size / (c.BlockSize * c.Associativity)
}

// Validate checks that the level geometry is consistent.
func (c LevelConfig) Validate() error {
	if c.Size <= 0 || c.BlockSize <= 0 || c.Associativity <= 0 {
		return fmt.Errorf("%w: %s size %d, block size %d and associativity %d "+
			"must be positive",
			ErrInvalidConfiguration, c.Name, c.Size, c.BlockSize, c.Associativity)
	}

	if c.Size%(c.BlockSize*c.Associativity) != 0 {
		return fmt.Errorf("%w: %s size %d is not a multiple of "+
			"block size %d x associativity %d",
			ErrInvalidConfiguration, c.Name, c.Size, c.BlockSize, c.Associativity)
	}

	if c.Policy != FIFO && c.Policy != LRU {
		return fmt.Errorf("%w: %s has unknown policy %s",
			ErrInvalidConfiguration, c.Name, c.Policy)
	}

	return nil
}

// DefaultConfigs returns the three-level hierarchy the simulator starts with.
func DefaultConfigs() []LevelConfig {
	return []LevelConfig{
		{Name: "L1", Size: 64, BlockSize: 16, Associativity: 1, Policy: LRU},
		{Name: "L2", Size: 256, BlockSize: 16, Associativity: 2, Policy: FIFO},
		{Name: "L3", Size: 1024, BlockSize: 16, Associativity: 4, Policy: FIFO},
	}
}

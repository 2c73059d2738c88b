package buddy

import "errors"

var (
	// ErrNoSpace is returned when no free block is large enough.
	ErrNoSpace = errors.New("buddy allocation failed: no space available")

	// ErrInvalidConfiguration is returned when the total size or the minimum
	// block size is not a power of two, or when they do not fit each other.
	ErrInvalidConfiguration = errors.New("invalid buddy configuration")

	// ErrInvalidAddress is returned when a block to free is out of range or
	// not aligned to its size.
	ErrInvalidAddress = errors.New("invalid buddy block address")
)

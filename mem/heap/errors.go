package heap

import "errors"

var (
	// ErrAllocationFailure is returned when no free block can hold the
	// requested size.
	ErrAllocationFailure = errors.New("allocation failed")

	// ErrInvalidSize is returned when a zero-byte allocation is requested.
	ErrInvalidSize = errors.New("invalid allocation size")

	// ErrUnknownBlockID is returned when freeing an ID that does not belong
	// to an allocated block.
	ErrUnknownBlockID = errors.New("no allocated block with this id")

	// ErrUnknownAddress is returned when no allocated block starts at the
	// given address.
	ErrUnknownAddress = errors.New("no allocated block starts at this address")

	// ErrUnknownStrategy is returned when parsing an unsupported fit strategy.
	ErrUnknownStrategy = errors.New("unknown fit strategy")
)

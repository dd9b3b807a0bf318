package clonebox

import "errors"

var (
	// ErrNilContainer is returned when New receives no container node.
	ErrNilContainer = errors.New("clonebox: container is required")
	// ErrNoRows signals a container without any row to clone from.
	ErrNoRows = errors.New("clonebox: container has no rows")
	// ErrInvalidLimit rejects a non-positive row limit.
	ErrInvalidLimit = errors.New("clonebox: limit must be a positive integer")
	// ErrEmptySelector rejects a blank role selector.
	ErrEmptySelector = errors.New("clonebox: selector is empty")
)

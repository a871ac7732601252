// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a caller error such as an element width
	// too small to hold the slot header or an out of range slot index.
	ErrInvalidArgument = errors.New("slotvec: invalid argument")

	// ErrNotOccupied indicates an attempt to release a slot that is already
	// free. It wraps ErrInvalidArgument.
	ErrNotOccupied = fmt.Errorf("%w: slot is not occupied", ErrInvalidArgument)

	// ErrFull indicates the vector is full, has no gaps and a resize
	// quantity of zero, so it cannot grow.
	ErrFull = errors.New("slotvec: vector is full and cannot grow")

	// ErrCapacityExceeded indicates that creation or growth would take the
	// vector past its capacity limit.
	ErrCapacityExceeded = errors.New("slotvec: capacity limit exceeded")

	// ErrDestroyed indicates use of a vector after Destroy.
	ErrDestroyed = errors.New("slotvec: vector has been destroyed")

	// ErrCorrupt indicates a serialized or in-memory image that violates the
	// vector's invariants.
	ErrCorrupt = errors.New("slotvec: corrupt image")

	// ErrVersion indicates a serialized image written by an incompatible version.
	ErrVersion = errors.New("slotvec: incompatible file format")
)

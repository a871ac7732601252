// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import "fmt"

// slabEntry is one slot of a Slab.  next is only meaningful while the
// entry is free.
type slabEntry[T any] struct {
	occupied bool
	next     int32
	value    T
}

// Slab is the typed counterpart of Vector: the same acquisition order and
// growth policy over a slice of T, with each slot's state kept apart from
// its value instead of overlaid on it.  Indexes returned by Put stay valid
// until removed; pointers returned by Ptr are invalidated by growth.
type Slab[T any] struct {
	entries  []slabEntry[T]
	claimed  int // high water mark; entries[claimed:] were never used
	free     int32
	count    int
	resize   int
	capLimit int
}

// NewSlab creates a slab of initialCapacity slots growing by
// resizeQuantity slots whenever it is full.
func NewSlab[T any](initialCapacity, resizeQuantity int) (*Slab[T], error) {
	if initialCapacity < 0 || resizeQuantity < 0 {
		return nil, fmt.Errorf("%w: capacity %d, resize quantity %d",
			ErrInvalidArgument, initialCapacity, resizeQuantity)
	}
	if initialCapacity > int(MaxCapacity) {
		return nil, fmt.Errorf("%w: initial capacity %d", ErrCapacityExceeded, initialCapacity)
	}
	return &Slab[T]{
		entries:  make([]slabEntry[T], initialCapacity),
		free:     NoGaps,
		resize:   resizeQuantity,
		capLimit: int(MaxCapacity),
	}, nil
}

func (s *Slab[T]) Len() int {
	return s.count
}

func (s *Slab[T]) Cap() int {
	return len(s.entries)
}

// Put stores v in a free slot and returns its index.
func (s *Slab[T]) Put(v T) (int, error) {
	var ix int
	switch {
	case s.free != NoGaps:
		ix = int(s.free)
		s.free = s.entries[ix].next
	case s.claimed < len(s.entries):
		ix = s.claimed
		s.claimed++
	default:
		if err := s.grow(); err != nil {
			return 0, err
		}
		ix = s.claimed
		s.claimed++
	}
	s.entries[ix] = slabEntry[T]{occupied: true, value: v}
	s.count++
	return ix, nil
}

func (s *Slab[T]) grow() error {
	if s.resize == 0 {
		return fmt.Errorf("%w: capacity %d, resize quantity 0", ErrFull, len(s.entries))
	}
	if len(s.entries)+s.resize > s.capLimit {
		return fmt.Errorf("%w: growing to %d slots, limit is %d",
			ErrCapacityExceeded, len(s.entries)+s.resize, s.capLimit)
	}
	entries := make([]slabEntry[T], len(s.entries)+s.resize)
	copy(entries, s.entries)
	s.entries = entries
	return nil
}

// Get returns the value at ix and whether ix is occupied.
func (s *Slab[T]) Get(ix int) (T, bool) {
	if ix < 0 || ix >= len(s.entries) || !s.entries[ix].occupied {
		var zero T
		return zero, false
	}
	return s.entries[ix].value, true
}

// Ptr returns a pointer to the value at ix, or nil if ix is not occupied.
// The pointer is invalidated by the next Put.
func (s *Slab[T]) Ptr(ix int) *T {
	if ix < 0 || ix >= len(s.entries) || !s.entries[ix].occupied {
		return nil
	}
	return &s.entries[ix].value
}

// Remove frees slot ix and returns the value it held.
func (s *Slab[T]) Remove(ix int) (T, error) {
	var zero T
	if ix < 0 || ix >= len(s.entries) {
		return zero, fmt.Errorf("%w: slot %d out of range (capacity %d)",
			ErrInvalidArgument, ix, len(s.entries))
	}
	if !s.entries[ix].occupied {
		return zero, fmt.Errorf("%w: slot %d", ErrNotOccupied, ix)
	}
	v := s.entries[ix].value
	s.entries[ix] = slabEntry[T]{next: s.free}
	s.free = int32(ix)
	s.count--
	return v, nil
}

// All calls f for each occupied slot in index order until f returns false.
func (s *Slab[T]) All(f func(ix int, v T) bool) {
	for i := 0; i < s.claimed; i++ {
		if !s.entries[i].occupied {
			continue
		}
		if !f(i, s.entries[i].value) {
			break
		}
	}
}

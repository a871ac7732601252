// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

// Package slotvec implements a growable vector of fixed width slots which
// supports:
//  1. O(1) slot acquisition and release without per-element allocation
//  2. a free list threaded through the headers of released slots
//  3. growth by a fixed number of zero filled slots when full
//  4. a single contiguous, byte comparable memory image
//
// A Vector is not safe for concurrent use.
package slotvec

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Vector is a slot vector.  All of its state, metadata included, lives in
// one contiguous image laid out as five little endian 32 bit fields
// (element width, capacity, resize quantity, free list head, occupancy)
// followed by capacity slots of element width bytes each.
//
// Slices returned by Slot, Payload and AcquireSlot alias the image and are
// only valid until the next call that may grow the vector (Acquire,
// AcquireSlot) or Destroy.  Slot indexes stay valid across growth.
type Vector struct {
	image       []byte
	maxCapacity uint32
	log         zerolog.Logger
}

// New creates a vector of initialCapacity zeroed slots of elementWidth
// bytes, header included, which grows by resizeQuantity slots whenever it
// is full.
func New(elementWidth, initialCapacity, resizeQuantity uint32, opts ...Option) (*Vector, error) {
	c := Config{
		ElementWidth:    elementWidth,
		InitialCapacity: initialCapacity,
		ResizeQuantity:  resizeQuantity,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return NewWithConfig(c)
}

// NewWithConfig creates a vector from c.
func NewWithConfig(c Config) (*Vector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	size, _ := imageSize(c.ElementWidth, c.InitialCapacity)
	v := &Vector{
		image:       make([]byte, size),
		maxCapacity: c.capacityLimit(),
		log:         zerolog.Nop(),
	}
	if c.Logger != nil {
		v.log = *c.Logger
	}
	putU32(v.image, offElementWidth, c.ElementWidth)
	putU32(v.image, offCapacity, c.InitialCapacity)
	putU32(v.image, offResizeQuantity, c.ResizeQuantity)
	putI32(v.image, offFreeHead, NoGaps)
	putU32(v.image, offOccupancy, 0)
	return v, nil
}

// ElementWidth reports the width in bytes of one slot, header included.
func (v *Vector) ElementWidth() uint32 {
	if v.image == nil {
		return 0
	}
	return getU32(v.image, offElementWidth)
}

// Cap reports the number of slots currently backed by storage.
func (v *Vector) Cap() uint32 {
	if v.image == nil {
		return 0
	}
	return getU32(v.image, offCapacity)
}

// ResizeQuantity reports how many slots each growth event adds.
func (v *Vector) ResizeQuantity() uint32 {
	if v.image == nil {
		return 0
	}
	return getU32(v.image, offResizeQuantity)
}

// FreeHead reports the index of the first slot in the free chain, or
// NoGaps.
func (v *Vector) FreeHead() int32 {
	if v.image == nil {
		return NoGaps
	}
	return getI32(v.image, offFreeHead)
}

// Len reports the number of occupied slots.
func (v *Vector) Len() uint32 {
	if v.image == nil {
		return 0
	}
	return getU32(v.image, offOccupancy)
}

// Bytes returns the memory image of the vector.  The slice aliases the
// vector and is invalidated by growth.
func (v *Vector) Bytes() []byte {
	return v.image
}

// Config reports the configuration the vector currently embodies.
func (v *Vector) Config() Config {
	return Config{
		ElementWidth:    v.ElementWidth(),
		InitialCapacity: v.Cap(),
		ResizeQuantity:  v.ResizeQuantity(),
		MaxCapacity:     v.maxCapacity,
	}
}

func (v *Vector) slotOffset(ix uint32) int {
	return MetaSize + int(ix)*int(v.ElementWidth())
}

func (v *Vector) headerWord(ix uint32) uint32 {
	return getU32(v.image, v.slotOffset(ix))
}

func (v *Vector) setHeader(ix uint32, h Header) {
	putU32(v.image, v.slotOffset(ix), encodeHeader(h))
}

func (v *Vector) setFreeHead(head int32) {
	putI32(v.image, offFreeHead, head)
}

func (v *Vector) setLen(n uint32) {
	putU32(v.image, offOccupancy, n)
}

func (v *Vector) checkIndex(ix uint32) error {
	if v.image == nil {
		return ErrDestroyed
	}
	if ix >= v.Cap() {
		return fmt.Errorf("%w: slot %d out of range (capacity %d)", ErrInvalidArgument, ix, v.Cap())
	}
	return nil
}

// Acquire claims a slot and returns its index.  A slot from the free chain
// is reused first; failing that, the first never used slot is claimed,
// growing the vector by ResizeQuantity slots if none remain.  The claimed
// slot is marked occupied and its payload is zero.
func (v *Vector) Acquire() (uint32, error) {
	if v.image == nil {
		return 0, ErrDestroyed
	}

	if head := v.FreeHead(); head != NoGaps {
		ix := uint32(head)
		if ix >= v.Cap() {
			return 0, fmt.Errorf("%w: free list head %d out of range (capacity %d)",
				ErrCorrupt, head, v.Cap())
		}
		h := decodeHeader(v.headerWord(ix))
		if h.Occupied {
			return 0, fmt.Errorf("%w: free list head %d is occupied", ErrCorrupt, ix)
		}
		v.setFreeHead(h.Next)
		v.setHeader(ix, Header{Occupied: true})
		v.setLen(v.Len() + 1)
		return ix, nil
	}

	// with no gaps, the occupied slots are exactly the prefix [0, Len)
	ix := v.Len()
	if ix >= v.Cap() {
		if err := v.grow(); err != nil {
			return 0, err
		}
	}
	if decodeHeader(v.headerWord(ix)).Occupied {
		return 0, fmt.Errorf("%w: unclaimed slot %d is occupied", ErrCorrupt, ix)
	}
	v.setHeader(ix, Header{Occupied: true})
	v.setLen(ix + 1)
	return ix, nil
}

// AcquireSlot claims a slot as Acquire does and returns all of its bytes,
// header included.  The slice is invalidated by the next Acquire,
// AcquireSlot or Destroy.
func (v *Vector) AcquireSlot() ([]byte, error) {
	ix, err := v.Acquire()
	if err != nil {
		return nil, err
	}
	return v.slot(ix), nil
}

// grow appends ResizeQuantity zero filled slots.  The new image is fully
// built before it replaces the old one, so a failed grow leaves the vector
// untouched.
func (v *Vector) grow() error {
	rq := v.ResizeQuantity()
	oldCap := v.Cap()
	if rq == 0 {
		return fmt.Errorf("%w: capacity %d, resize quantity 0", ErrFull, oldCap)
	}
	newCap := uint64(oldCap) + uint64(rq)
	if newCap > uint64(v.maxCapacity) {
		return fmt.Errorf("%w: growing to %d slots, limit is %d",
			ErrCapacityExceeded, newCap, v.maxCapacity)
	}
	size, ok := imageSize(v.ElementWidth(), uint32(newCap))
	if !ok {
		return fmt.Errorf("%w: %d slots of %d bytes", ErrCapacityExceeded, newCap, v.ElementWidth())
	}

	image := make([]byte, size)
	copy(image, v.image)
	putU32(image, offCapacity, uint32(newCap))
	v.image = image

	v.log.Debug().
		Uint32("from", oldCap).
		Uint64("to", newCap).
		Int("bytes", size).
		Msg("slot vector grown")
	return nil
}

// Release returns an occupied slot to the free chain.  Its payload is
// zeroed; other slots do not move.
func (v *Vector) Release(ix uint32) error {
	if err := v.checkIndex(ix); err != nil {
		return err
	}
	if !decodeHeader(v.headerWord(ix)).Occupied {
		return fmt.Errorf("%w: slot %d", ErrNotOccupied, ix)
	}
	zero(v.payload(ix))
	v.setHeader(ix, Header{Next: v.FreeHead()})
	v.setFreeHead(int32(ix))
	v.setLen(v.Len() - 1)

	v.log.Debug().Uint32("slot", ix).Uint32("occupancy", v.Len()).Msg("slot released")
	return nil
}

// Destroy releases the vector's storage.  Any later use of the vector
// fails with ErrDestroyed; destroying twice is harmless.
func (v *Vector) Destroy() {
	v.image = nil
}

func (v *Vector) slot(ix uint32) []byte {
	off := v.slotOffset(ix)
	end := off + int(v.ElementWidth())
	return v.image[off:end:end]
}

func (v *Vector) payload(ix uint32) []byte {
	return v.slot(ix)[HeaderSize:]
}

// Slot returns all bytes of slot ix, header included, aliasing the image.
func (v *Vector) Slot(ix uint32) ([]byte, error) {
	if err := v.checkIndex(ix); err != nil {
		return nil, err
	}
	return v.slot(ix), nil
}

// Payload returns the caller owned bytes of occupied slot ix, aliasing
// the image.
func (v *Vector) Payload(ix uint32) ([]byte, error) {
	if err := v.checkIndex(ix); err != nil {
		return nil, err
	}
	if !decodeHeader(v.headerWord(ix)).Occupied {
		return nil, fmt.Errorf("%w: slot %d", ErrNotOccupied, ix)
	}
	return v.payload(ix), nil
}

// ReadSlot returns a copy of the bytes of slot ix, header included.
func (v *Vector) ReadSlot(ix uint32) ([]byte, error) {
	s, err := v.Slot(ix)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), s...), nil
}

// Header decodes the header of slot ix.
func (v *Vector) Header(ix uint32) (Header, error) {
	if err := v.checkIndex(ix); err != nil {
		return Header{}, err
	}
	return decodeHeader(v.headerWord(ix)), nil
}

// Occupied reports whether slot ix holds a live element.
func (v *Vector) Occupied(ix uint32) (bool, error) {
	h, err := v.Header(ix)
	return h.Occupied, err
}

// Each calls cb with the index and payload of every occupied slot, in
// index order.  cb must not acquire or release slots.
func (v *Vector) Each(cb func(ix uint32, payload []byte)) {
	n := v.Cap()
	for i := uint32(0); i < n; i++ {
		if decodeHeader(v.headerWord(i)).Occupied {
			cb(i, v.payload(i))
		}
	}
}

// Gaps returns the indexes of the free chain in chain order.  It stops
// early rather than loop on a corrupt chain; CheckConsistency reports why.
func (v *Vector) Gaps() []uint32 {
	var gaps []uint32
	limit := v.Cap()
	for next := v.FreeHead(); next != NoGaps && uint32(len(gaps)) < limit; {
		ix := uint32(next)
		if next < 0 || ix >= limit {
			break
		}
		h := decodeHeader(v.headerWord(ix))
		if h.Occupied {
			break
		}
		gaps = append(gaps, ix)
		next = h.Next
	}
	return gaps
}

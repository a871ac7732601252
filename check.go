// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Meta is the decoded metadata at the head of a vector image
type Meta struct {
	ElementWidth   uint32
	Capacity       uint32
	ResizeQuantity uint32
	FreeHead       int32
	Occupancy      uint32
}

func readMeta(image []byte) Meta {
	return Meta{
		ElementWidth:   getU32(image, offElementWidth),
		Capacity:       getU32(image, offCapacity),
		ResizeQuantity: getU32(image, offResizeQuantity),
		FreeHead:       getI32(image, offFreeHead),
		Occupancy:      getU32(image, offOccupancy),
	}
}

// Meta reports the vector's metadata.
func (v *Vector) Meta() Meta {
	if v.image == nil {
		return Meta{FreeHead: NoGaps}
	}
	return readMeta(v.image)
}

// CheckConsistency verifies the invariants of the vector's image: the
// free chain visits only free slots, each once, and ends in NoGaps; the
// occupied headers agree with the occupancy count; and no slot beyond the
// claimed prefix has been touched.
func (v *Vector) CheckConsistency() error {
	if v.image == nil {
		return ErrDestroyed
	}
	m := v.Meta()
	if size, ok := imageSize(m.ElementWidth, m.Capacity); !ok || size != len(v.image) {
		return fmt.Errorf("%w: image is %d bytes, metadata describes %d slots of %d bytes",
			ErrCorrupt, len(v.image), m.Capacity, m.ElementWidth)
	}
	return checkConsistency(m, func(ix uint32) (uint32, error) {
		return v.headerWord(ix), nil
	})
}

// checkConsistency validates a vector described by m whose slot header
// words are produced by word.
func checkConsistency(m Meta, word func(ix uint32) (uint32, error)) error {
	if m.ElementWidth < HeaderSize {
		return fmt.Errorf("%w: element width %d is smaller than the slot header",
			ErrCorrupt, m.ElementWidth)
	}
	if m.Occupancy > m.Capacity {
		return fmt.Errorf("%w: occupancy %d exceeds capacity %d", ErrCorrupt, m.Occupancy, m.Capacity)
	}

	// walk the free chain
	inChain := bitset.New(uint(m.Capacity))
	maxGaps := m.Capacity - m.Occupancy
	gaps := uint32(0)
	for next := m.FreeHead; next != NoGaps; {
		if next < 0 || uint32(next) >= m.Capacity {
			return fmt.Errorf("%w: free chain link %d out of range (capacity %d)",
				ErrCorrupt, next, m.Capacity)
		}
		ix := uint32(next)
		if inChain.Test(uint(ix)) {
			return fmt.Errorf("%w: free chain revisits slot %d", ErrCorrupt, ix)
		}
		if gaps == maxGaps {
			return fmt.Errorf("%w: free chain longer than the %d free slots", ErrCorrupt, maxGaps)
		}
		w, err := word(ix)
		if err != nil {
			return err
		}
		h := decodeHeader(w)
		if h.Occupied {
			return fmt.Errorf("%w: free chain reaches occupied slot %d", ErrCorrupt, ix)
		}
		inChain.Set(uint(ix))
		gaps++
		next = h.Next
	}

	// slots below the high water mark were claimed at some point and are
	// now occupied or in the chain; slots above it are untouched
	highWater := m.Occupancy + gaps
	occupied := uint32(0)
	for i := uint32(0); i < m.Capacity; i++ {
		w, err := word(i)
		if err != nil {
			return err
		}
		switch {
		case decodeHeader(w).Occupied:
			if w != occupiedWord {
				return fmt.Errorf("%w: slot %d has header word %#x", ErrCorrupt, i, w)
			}
			if i >= highWater {
				return fmt.Errorf("%w: slot %d is occupied beyond the claimed prefix of %d",
					ErrCorrupt, i, highWater)
			}
			occupied++
		case inChain.Test(uint(i)):
			if i >= highWater {
				return fmt.Errorf("%w: free slot %d is chained beyond the claimed prefix of %d",
					ErrCorrupt, i, highWater)
			}
		default:
			if i < highWater {
				return fmt.Errorf("%w: free slot %d is missing from the free chain", ErrCorrupt, i)
			}
			if w != 0 {
				return fmt.Errorf("%w: unclaimed slot %d has header word %#x", ErrCorrupt, i, w)
			}
		}
	}
	if occupied != m.Occupancy {
		return fmt.Errorf("%w: %d slots occupied, occupancy records %d",
			ErrCorrupt, occupied, m.Occupancy)
	}
	return nil
}

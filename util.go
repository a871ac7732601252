// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"encoding/binary"
	"math"
)

// Image layout.  All fields are little endian regardless of host.
const (
	offElementWidth   = 0
	offCapacity       = 4
	offResizeQuantity = 8
	offFreeHead       = 12
	offOccupancy      = 16

	// MetaSize is the number of bytes of vector metadata preceding the slots.
	MetaSize = 20

	// HeaderSize is the number of bytes of per-slot header at the start of
	// every slot.  ElementWidth includes it.
	HeaderSize = 4
)

// NoGaps is the free list head value of a vector with no free slots in
// its chain.
const NoGaps = int32(-1)

// MaxCapacity is the largest capacity representable; slot indexes must fit
// in the signed free list head.
const MaxCapacity = uint32(math.MaxInt32)

// maxImageSize bounds the total image so that index arithmetic stays in int.
const maxImageSize = uint64(math.MaxInt) - MetaSize

func getU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func getI32(b []byte, off int) int32 {
	return int32(getU32(b, off))
}

func putI32(b []byte, off int, v int32) {
	putU32(b, off, uint32(v))
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// imageSize reports the number of bytes needed for a vector image with the
// given geometry, or false if it would not be addressable.
func imageSize(elementWidth, capacity uint32) (int, bool) {
	data := uint64(elementWidth) * uint64(capacity)
	if data > maxImageSize {
		return 0, false
	}
	return MetaSize + int(data), true
}

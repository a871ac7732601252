// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import "fmt"

// occupiedWord is the header word of an occupied slot.  In image bytes it
// reads 01 00 00 00.
const occupiedWord = uint32(1)

// Header is the decoded per-slot header.  A slot is either occupied, or
// free with Next naming the following slot in the free chain (NoGaps at the
// tail).  Next carries no meaning for an occupied slot.
type Header struct {
	Occupied bool
	Next     int32
}

// The free form of the header word stores Next+1 shifted past the occupied
// bit, so an all zero word is a free slot ending the chain.  This keeps
// freshly grown, zero filled storage valid without initialization.
func encodeHeader(h Header) uint32 {
	if h.Occupied {
		return occupiedWord
	}
	return uint32(h.Next+1) << 1
}

func decodeHeader(w uint32) Header {
	if w&1 == 1 {
		return Header{Occupied: true, Next: NoGaps}
	}
	return Header{Next: int32(w>>1) - 1}
}

func (h Header) String() string {
	if h.Occupied {
		return "occupied"
	}
	if h.Next == NoGaps {
		return "free"
	}
	return fmt.Sprintf("free->%d", h.Next)
}

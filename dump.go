// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"bytes"
	"fmt"
	"io"
)

// Dump writes a textual representation of r to w: its metadata, then one
// line per slot.  Runs of all zero slots are collapsed.
func Dump(w io.Writer, r Reader) error {
	m := r.Meta()
	fmt.Fprintf(w, "width %d, capacity %d, resize %d, occupancy %d, free head %d\n",
		m.ElementWidth, m.Capacity, m.ResizeQuantity, m.Occupancy, m.FreeHead)
	fmt.Fprintf(w, "\n    slot  state     payload->\n")
	skipped := 0
	for i := uint32(0); i < m.Capacity; i++ {
		s, err := r.ReadSlot(i)
		if err != nil {
			return err
		}
		if allZero(s) {
			skipped++
			continue
		}
		if skipped > 0 {
			fmt.Fprintf(w, "          ...\n")
			skipped = 0
		}
		h := decodeHeader(getU32(s, 0))
		fmt.Fprintf(w, "%8d  %-8s  %x\n", i, h, s[HeaderSize:])
	}
	if skipped > 0 {
		fmt.Fprintf(w, "          ...\n")
	}
	return nil
}

// DebugDump writes a textual representation of the vector to w
func (v *Vector) DebugDump(w io.Writer) {
	if v.image == nil {
		fmt.Fprintf(w, "destroyed\n")
		return
	}
	// reads from memory can't fail
	_ = Dump(w, v)
}

func allZero(b []byte) bool {
	return len(bytes.Trim(b, "\x00")) == 0
}

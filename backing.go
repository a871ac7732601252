// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"fmt"
	"io"
)

// backing is a function that gives random access to the bytes of a vector
// image: it fills p from image offset off.
type backing func(off int64, p []byte) error

// readerAtBacking serves an image stored at start within r
func readerAtBacking(r io.ReaderAt, start int64) backing {
	return func(off int64, p []byte) error {
		n, err := r.ReadAt(p, start+off)
		if n == len(p) {
			return nil
		}
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("failed to read %d bytes at image offset %d: %w", len(p), off, err)
	}
}

func (b backing) word(off int64) (uint32, error) {
	var val [4]byte
	if err := b(off, val[:]); err != nil {
		return 0, err
	}
	return getU32(val[:], 0), nil
}

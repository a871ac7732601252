// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"fmt"
	"io"
	"os"
)

// Disk is a read-only slot vector that reads slots from a serialized
// vector without loading the image into RAM
type Disk struct {
	header FileHeader
	meta   Meta
	read   backing
	f      *os.File
}

// OpenReadOnlyFromPath initializes a read only vector from the file at
// path.  The caller must Close it.
func OpenReadOnlyFromPath(path string) (*Disk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d, err := OpenReadOnly(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.f = f
	return d, nil
}

// OpenReadOnly initializes a read only vector from a serialized vector
// held in r.  Only the headers are read up front.
func OpenReadOnly(r io.ReaderAt) (*Disk, error) {
	h, err := readFileHeader(io.NewSectionReader(r, 0, fileHeaderSize))
	if err != nil {
		return nil, err
	}
	d := &Disk{header: h, read: readerAtBacking(r, fileHeaderSize)}

	var meta [MetaSize]byte
	if err := d.read(0, meta[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	d.meta = readMeta(meta[:])
	size, ok := imageSize(d.meta.ElementWidth, d.meta.Capacity)
	if !ok || uint64(size) != h.ImageLen || d.meta.ElementWidth < HeaderSize {
		return nil, fmt.Errorf("%w: image is %d bytes, metadata describes %d slots of %d bytes",
			ErrCorrupt, h.ImageLen, d.meta.Capacity, d.meta.ElementWidth)
	}
	return d, nil
}

// Close releases the underlying file, if any
func (d *Disk) Close() error {
	if d.f != nil {
		return d.f.Close()
	}
	return nil
}

// FileHeader reports the header the vector was serialized with.
func (d *Disk) FileHeader() FileHeader {
	return d.header
}

func (d *Disk) Meta() Meta {
	return d.meta
}

func (d *Disk) ElementWidth() uint32 {
	return d.meta.ElementWidth
}

func (d *Disk) Cap() uint32 {
	return d.meta.Capacity
}

func (d *Disk) Len() uint32 {
	return d.meta.Occupancy
}

func (d *Disk) slotOffset(ix uint32) int64 {
	return MetaSize + int64(ix)*int64(d.meta.ElementWidth)
}

func (d *Disk) checkIndex(ix uint32) error {
	if ix >= d.meta.Capacity {
		return fmt.Errorf("%w: slot %d out of range (capacity %d)", ErrInvalidArgument, ix, d.meta.Capacity)
	}
	return nil
}

// Header decodes the header of slot ix
func (d *Disk) Header(ix uint32) (Header, error) {
	if err := d.checkIndex(ix); err != nil {
		return Header{}, err
	}
	w, err := d.read.word(d.slotOffset(ix))
	if err != nil {
		return Header{}, err
	}
	return decodeHeader(w), nil
}

func (d *Disk) Occupied(ix uint32) (bool, error) {
	h, err := d.Header(ix)
	return h.Occupied, err
}

// ReadSlot returns the bytes of slot ix, header included
func (d *Disk) ReadSlot(ix uint32) ([]byte, error) {
	if err := d.checkIndex(ix); err != nil {
		return nil, err
	}
	p := make([]byte, d.meta.ElementWidth)
	if err := d.read(d.slotOffset(ix), p); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckConsistency verifies the invariants of the serialized vector,
// reading one slot header at a time.
func (d *Disk) CheckConsistency() error {
	return checkConsistency(d.meta, func(ix uint32) (uint32, error) {
		return d.read.word(d.slotOffset(ix))
	})
}

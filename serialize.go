// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
)

// fileVersion is a version number for the on disk representation format.
// Any time incompatible changes are made, it is bumped
const fileVersion = uint64(0x0001)

// FileHeader describes a serialized vector.  It is followed on disk by
// the vector image, byte for byte as returned by Vector.Bytes.
type FileHeader struct {
	// a version number which changes as the storage representation
	// changes
	Version uint64
	// the length in bytes of the image that follows
	ImageLen uint64
	// murmur hash of the image
	Checksum uint64
}

// fileHeaderSize is the encoded size of FileHeader
const fileHeaderSize = 24

// WriteTo allows the vector to be written to a stream
func (v *Vector) WriteTo(stream io.Writer) (i int64, err error) {
	if v.image == nil {
		return 0, ErrDestroyed
	}
	h := FileHeader{
		Version:  fileVersion,
		ImageLen: uint64(len(v.image)),
		Checksum: checksum(v.image),
	}
	if err = binary.Write(stream, binary.LittleEndian, h); err != nil {
		return
	}
	i += fileHeaderSize

	n, err := stream.Write(v.image)
	i += int64(n)
	return
}

// ReadFrom replaces the vector's contents with a vector read from a
// stream.  The image is verified against its checksum and the vector
// invariants before it is accepted; on error the vector is unchanged.
// A zero Vector may be used as the receiver.
func (v *Vector) ReadFrom(stream io.Reader) (i int64, err error) {
	h, err := readFileHeader(stream)
	if err != nil {
		return
	}
	i += fileHeaderSize

	// read incrementally so a corrupt length can't force a huge allocation
	image, err := io.ReadAll(io.LimitReader(stream, int64(h.ImageLen)))
	i += int64(len(image))
	if err != nil {
		return
	}
	if uint64(len(image)) != h.ImageLen {
		return i, fmt.Errorf("%w: short image, read %d of %d bytes", ErrCorrupt, len(image), h.ImageLen)
	}
	if sum := checksum(image); sum != h.Checksum {
		return i, fmt.Errorf("%w: checksum %#x, expected %#x", ErrCorrupt, sum, h.Checksum)
	}

	if v.maxCapacity == 0 {
		v.maxCapacity = MaxCapacity
		v.log = zerolog.Nop()
	}
	loaded := &Vector{image: image, maxCapacity: v.maxCapacity, log: v.log}
	if err = loaded.CheckConsistency(); err != nil {
		return
	}
	if loaded.Cap() > v.maxCapacity {
		return i, fmt.Errorf("%w: image holds %d slots, limit is %d",
			ErrCapacityExceeded, loaded.Cap(), v.maxCapacity)
	}
	v.image = image
	return
}

func readFileHeader(stream io.Reader) (h FileHeader, err error) {
	if err = binary.Read(stream, binary.LittleEndian, &h); err != nil {
		return
	}
	if h.Version != fileVersion {
		return h, fmt.Errorf("%w: version is %d, expected %d", ErrVersion, h.Version, fileVersion)
	}
	if h.ImageLen < MetaSize || h.ImageLen > maxImageSize+MetaSize {
		return h, fmt.Errorf("%w: image length %d", ErrCorrupt, h.ImageLen)
	}
	return h, nil
}

// Load reads a vector from a stream.
func Load(stream io.Reader, opts ...Option) (*Vector, error) {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	v := &Vector{maxCapacity: c.capacityLimit(), log: zerolog.Nop()}
	if c.Logger != nil {
		v.log = *c.Logger
	}
	if _, err := v.ReadFrom(stream); err != nil {
		return nil, err
	}
	return v, nil
}

// OpenFromPath loads a vector from the file at path.
func OpenFromPath(path string, opts ...Option) (*Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// WriteFile writes the vector to path, replacing any existing file
// atomically.
func (v *Vector) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := v.WriteTo(&buf); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

// ReadHeaderFromPath reads only the file header of a serialized vector.
func ReadHeaderFromPath(path string) (FileHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileHeader{}, err
	}
	defer f.Close()
	return readFileHeader(f)
}

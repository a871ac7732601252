// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// populated returns a grown vector with a gap in its free chain.
func populated(t testing.TB) *Vector {
	t.Helper()
	v, err := New(elemWidth, 2, 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		ix, err := v.Acquire()
		require.NoError(t, err)
		p, err := v.Payload(ix)
		require.NoError(t, err)
		putPair(p, float32(i), float32(i)*2)
	}
	require.NoError(t, v.Release(3))
	return v
}

func TestSerialization(t *testing.T) {
	v := populated(t)
	var buf bytes.Buffer
	n, err := v.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, fileHeaderSize+len(v.Bytes()), buf.Len())

	var cpy Vector
	m, err := cpy.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, v.Bytes(), cpy.Bytes())
	if diff := cmp.Diff(v.Meta(), cpy.Meta()); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}

	// the copy keeps working where the original left off
	ix, err := cpy.Acquire()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), ix)
}

func TestReadFromRejectsBadInput(t *testing.T) {
	v := populated(t)
	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)
	good := buf.Bytes()

	flip := func(off int) []byte {
		b := append([]byte(nil), good...)
		b[off] ^= 0xff
		return b
	}

	_, err = Load(bytes.NewReader(flip(0)))
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Load(bytes.NewReader(flip(fileHeaderSize + MetaSize + 1)))
	assert.ErrorIs(t, err, ErrCorrupt, "payload byte flipped")

	_, err = Load(bytes.NewReader(good[:len(good)-3]))
	assert.ErrorIs(t, err, ErrCorrupt, "truncated")

	// a consistent checksum over an inconsistent image is still refused
	bad := append([]byte(nil), good...)
	image := bad[fileHeaderSize:]
	putU32(image, offOccupancy, 9)
	binary.LittleEndian.PutUint64(bad[16:], checksum(image))
	_, err = Load(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReadFromLeavesVectorOnError(t *testing.T) {
	v := populated(t)
	before := append([]byte(nil), v.Bytes()...)
	_, err := v.ReadFrom(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
	assert.Equal(t, before, v.Bytes())
}

func TestLoadRespectsCapacityLimit(t *testing.T) {
	v := populated(t)
	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)
	_, err = Load(&buf, WithMaxCapacity(v.Cap()-1))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestFileRoundTrip(t *testing.T) {
	v := populated(t)
	path := filepath.Join(t.TempDir(), "vec.bin")
	require.NoError(t, v.WriteFile(path))

	h, err := ReadHeaderFromPath(path)
	require.NoError(t, err)
	want := FileHeader{Version: fileVersion, ImageLen: uint64(len(v.Bytes())), Checksum: checksum(v.Bytes())}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	cpy, err := OpenFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, v.Bytes(), cpy.Bytes())

	_, err = OpenFromPath(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestWriteDestroyed(t *testing.T) {
	v := populated(t)
	v.Destroy()
	_, err := v.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrDestroyed)
}

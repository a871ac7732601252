// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corruptible builds a vector with slots 0..3 claimed and 1, 2 released,
// leaving the chain 2 -> 1 and slots 4, 5 untouched.
func corruptible(t *testing.T) *Vector {
	t.Helper()
	v, err := New(8, 6, 2)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := v.Acquire()
		require.NoError(t, err)
	}
	require.NoError(t, v.Release(1))
	require.NoError(t, v.Release(2))
	require.NoError(t, v.CheckConsistency())
	return v
}

func TestCheckConsistencyDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(v *Vector)
	}{
		{"occupancy above capacity", func(v *Vector) { v.setLen(7) }},
		{"occupancy disagrees", func(v *Vector) { v.setLen(1) }},
		{"head out of range", func(v *Vector) { v.setFreeHead(6) }},
		{"head negative", func(v *Vector) { v.setFreeHead(-5) }},
		{"head occupied", func(v *Vector) { v.setFreeHead(0) }},
		{"cycle", func(v *Vector) { v.setHeader(1, Header{Next: 2}) }},
		{"chain skips a gap", func(v *Vector) { v.setFreeHead(1) }},
		{"occupied beyond prefix", func(v *Vector) { v.setHeader(5, Header{Occupied: true}) }},
		{"bad header word", func(v *Vector) { putU32(v.image, v.slotOffset(0), 3) }},
		{"unclaimed slot linked", func(v *Vector) { v.setHeader(4, Header{Next: 1}) }},
		{"truncated image", func(v *Vector) { v.image = v.image[:len(v.image)-1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := corruptible(t)
			tt.corrupt(v)
			assert.ErrorIs(t, v.CheckConsistency(), ErrCorrupt)
		})
	}
}

func TestAcquireRefusesCorruptChain(t *testing.T) {
	v := corruptible(t)
	v.setFreeHead(0)
	_, err := v.Acquire()
	assert.ErrorIs(t, err, ErrCorrupt)

	v = corruptible(t)
	v.setFreeHead(100)
	_, err = v.Acquire()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestGapsStopsOnCycle(t *testing.T) {
	v := corruptible(t)
	v.setHeader(1, Header{Next: 2})
	gaps := v.Gaps()
	assert.LessOrEqual(t, len(gaps), int(v.Cap()))
}

func TestHeaderEncoding(t *testing.T) {
	for _, h := range []Header{
		{Occupied: true, Next: NoGaps},
		{Next: NoGaps},
		{Next: 0},
		{Next: 7},
		{Next: int32(MaxCapacity - 1)},
	} {
		assert.Equal(t, h, decodeHeader(encodeHeader(h)), "%v", h)
	}
	assert.Equal(t, uint32(0), encodeHeader(Header{Next: NoGaps}), "chain tail reads as zero")
	assert.Equal(t, occupiedWord, encodeHeader(Header{Occupied: true, Next: 5}))
	assert.Equal(t, "free->3", Header{Next: 3}.String())
}

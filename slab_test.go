// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	a, b float32
}

func TestSlabPutGetRemove(t *testing.T) {
	s, err := NewSlab[point](2, 4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ix, err := s.Put(point{float32(i), float32(i)})
		require.NoError(t, err)
		assert.Equal(t, i, ix)
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 6, s.Cap(), "grew by the resize quantity")

	p, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, point{1, 1}, p)

	s.Ptr(2).a = 9
	p, _ = s.Get(2)
	assert.Equal(t, point{9, 2}, p)

	removed, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, point{1, 1}, removed)
	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Nil(t, s.Ptr(1))

	_, err = s.Remove(1)
	assert.ErrorIs(t, err, ErrNotOccupied)
	_, err = s.Remove(6)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	ix, err := s.Put(point{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, ix, "freed slot is reused first")
	assert.Equal(t, 6, s.Cap())
}

func TestSlabMatchesVectorOrder(t *testing.T) {
	s, err := NewSlab[uint32](1, 2)
	require.NoError(t, err)
	v, err := New(8, 1, 2)
	require.NoError(t, err)

	ops := []int{-1, -1, -1, 0, 2, -1, -1, 1, -1, -1, -1}
	for _, op := range ops {
		if op < 0 {
			want, err := v.Acquire()
			require.NoError(t, err)
			got, err := s.Put(want)
			require.NoError(t, err)
			assert.Equal(t, int(want), got)
		} else {
			require.NoError(t, v.Release(uint32(op)))
			_, err := s.Remove(op)
			require.NoError(t, err)
		}
		assert.Equal(t, int(v.Len()), s.Len())
		assert.Equal(t, int(v.Cap()), s.Cap())
	}
}

func TestSlabFixedCapacity(t *testing.T) {
	s, err := NewSlab[int](1, 0)
	require.NoError(t, err)
	_, err = s.Put(1)
	require.NoError(t, err)
	_, err = s.Put(2)
	assert.ErrorIs(t, err, ErrFull)

	_, err = NewSlab[int](-1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSlabAll(t *testing.T) {
	s, err := NewSlab[string](0, 2)
	require.NoError(t, err)
	for _, w := range []string{"a", "b", "c", "d"} {
		_, err := s.Put(w)
		require.NoError(t, err)
	}
	_, err = s.Remove(2)
	require.NoError(t, err)

	var got []string
	s.All(func(_ int, v string) bool {
		got = append(got, v)
		return len(got) < 2
	})
	assert.Equal(t, []string{"a", "b"}, got)

	got = nil
	s.All(func(_ int, v string) bool {
		got = append(got, v)
		return true
	})
	assert.Equal(t, []string{"a", "b", "d"}, got)
}

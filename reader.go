// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

// Reader is a readable slot vector.  It is implemented by both Vector
// (in memory, r/w) and Disk (file backed, ro)
type Reader interface {
	ElementWidth() uint32
	Cap() uint32
	Len() uint32
	Meta() Meta
	Occupied(ix uint32) (bool, error)
	ReadSlot(ix uint32) ([]byte, error)
}

var _ Reader = (*Disk)(nil)
var _ Reader = (*Vector)(nil)

// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	murmur "github.com/aviddiviner/go-murmur"
)

// checksumSeed seeds the image checksum.  Changing it invalidates every
// serialized vector, so it is tied to the file format version.
const checksumSeed = uint64(0x736c6f7476656301)

// checksum is the 64 bit murmur 2 hash of a vector image
func checksum(image []byte) uint64 {
	return murmur.MurmurHash64A(image, checksumSeed)
}

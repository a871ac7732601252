package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	slotvec "github.com/facebookincubator/go-slotvec"
)

func main() {
	// each slot holds the 4 byte slot header followed by two float32s.
	// size your vector when you know ahead of time how many elements it
	// will hold.  Otherwise, just pick a small capacity and let it grow
	config := slotvec.DetermineSize(4, 12)
	config.Explain()
	v, err := slotvec.NewWithConfig(config)
	if err != nil {
		panic(err)
	}

	points := [][2]float32{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}}
	var ids []uint32
	for _, pt := range points {
		ix, err := v.Acquire()
		if err != nil {
			panic(err)
		}
		// the payload must be looked up again after any Acquire, which
		// may have moved the image
		p, _ := v.Payload(ix)
		binary.LittleEndian.PutUint32(p[0:], math.Float32bits(pt[0]))
		binary.LittleEndian.PutUint32(p[4:], math.Float32bits(pt[1]))
		ids = append(ids, ix)
	}

	// release a point; its slot is the next one handed out
	if err := v.Release(ids[1]); err != nil {
		panic(err)
	}
	ix, _ := v.Acquire()
	fmt.Printf("reused slot %d, %d of %d slots occupied\n", ix, v.Len(), v.Cap())

	// Dump the whole vector in textual form
	v.DebugDump(os.Stdout)

	// Serialize the vector and report size
	buf := bytes.NewBuffer([]byte{})
	v.WriteTo(buf)
	fmt.Printf("vector serializes into %d bytes\n", buf.Len())
}

// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	slotvec "github.com/facebookincubator/go-slotvec"
)

// runScript applies one operation per line of r to v:
//
//	acquire              claim a slot and print its index
//	release IX           return slot IX to the free list
//	write IX HEX         copy HEX into the payload of occupied slot IX
//
// Blank lines and lines starting with # are ignored.
func runScript(v *slotvec.Vector, r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := runOp(v, fields, out); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

func runOp(v *slotvec.Vector, fields []string, out io.Writer) error {
	switch fields[0] {
	case "acquire":
		if len(fields) != 1 {
			return fmt.Errorf("acquire takes no arguments")
		}
		ix, err := v.Acquire()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", ix)
	case "release":
		if len(fields) != 2 {
			return fmt.Errorf("usage: release IX")
		}
		ix, err := parseIndex(fields[1])
		if err != nil {
			return err
		}
		return v.Release(ix)
	case "write":
		if len(fields) != 3 {
			return fmt.Errorf("usage: write IX HEX")
		}
		ix, err := parseIndex(fields[1])
		if err != nil {
			return err
		}
		data, err := hex.DecodeString(fields[2])
		if err != nil {
			return fmt.Errorf("bad payload: %w", err)
		}
		p, err := v.Payload(ix)
		if err != nil {
			return err
		}
		if len(data) > len(p) {
			return fmt.Errorf("%d bytes do not fit in a %d byte payload", len(data), len(p))
		}
		copy(p, data)
	default:
		return fmt.Errorf("unknown operation %q", fields[0])
	}
	return nil
}

func parseIndex(s string) (uint32, error) {
	ix, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad slot index %q: %w", s, err)
	}
	return uint32(ix), nil
}

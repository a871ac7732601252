// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slotvec "github.com/facebookincubator/go-slotvec"
)

func TestParseConfig(t *testing.T) {
	c, err := parseConfig([]byte(`{
		// a slot header plus two float32s
		"element_width": 12,
		"initial_capacity": 2,
		"resize_quantity": 4,
	}`))
	require.NoError(t, err)
	assert.Equal(t, slotvec.Config{ElementWidth: 12, InitialCapacity: 2, ResizeQuantity: 4}, c)

	_, err = parseConfig([]byte(`{"element_width": 2}`))
	assert.ErrorIs(t, err, slotvec.ErrInvalidArgument)

	_, err = parseConfig([]byte(`{"element_width": `))
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunScript(t *testing.T) {
	v, err := slotvec.New(12, 2, 4)
	require.NoError(t, err)

	script := `
# fill and grow
acquire
acquire
acquire
write 1 cdcc f642
write 1 cdccf642
release 0
acquire
`
	var out bytes.Buffer
	err = runScript(v, strings.NewReader(script), &out)
	require.Error(t, err, "write with a split payload has too many fields")
	assert.Contains(t, err.Error(), "line 6")

	v, err = slotvec.New(12, 2, 4)
	require.NoError(t, err)
	out.Reset()
	script = strings.Replace(script, "write 1 cdcc f642\n", "", 1)
	require.NoError(t, runScript(v, strings.NewReader(script), &out))
	assert.Equal(t, "0\n1\n2\n0\n", out.String())
	assert.Equal(t, uint32(6), v.Cap())
	assert.Equal(t, uint32(3), v.Len())

	p, err := v.Payload(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xcd, 0xcc, 0xf6, 0x42, 0, 0, 0, 0}, p)
	assert.NoError(t, v.CheckConsistency())
}

func TestRunScriptErrors(t *testing.T) {
	for _, script := range []string{
		"bogus",
		"acquire 1",
		"release",
		"release x",
		"release 0",
		"acquire\nwrite 0 zz",
		"acquire\nwrite 0 000000000000000000",
		"write 1 00",
	} {
		v, err := slotvec.New(8, 1, 1)
		require.NoError(t, err)
		assert.Error(t, runScript(v, strings.NewReader(script), &bytes.Buffer{}), "%q", script)
	}
}

func TestDescribe(t *testing.T) {
	v, err := slotvec.New(12, 2, 4)
	require.NoError(t, err)
	_, err = v.Acquire()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vec.bin")
	require.NoError(t, v.WriteFile(path))

	d, err := slotvec.OpenReadOnlyFromPath(path)
	require.NoError(t, err)
	defer d.Close()

	var out bytes.Buffer
	describe(&out, d)
	assert.Contains(t, out.String(), "Slot vector version 1, 44 byte image")
	assert.Contains(t, out.String(), "1 of 2 slots occupied, free list head -1")
	assert.Contains(t, out.String(), "12 bytes per slot (4 header, 8 payload)")
}

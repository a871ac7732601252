// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/tailscale/hujson"

	slotvec "github.com/facebookincubator/go-slotvec"
)

// fileConfig is the on disk form of a vector configuration.  Comments and
// trailing commas are allowed.
type fileConfig struct {
	ElementWidth    uint32 `json:"element_width"`
	InitialCapacity uint32 `json:"initial_capacity"`
	ResizeQuantity  uint32 `json:"resize_quantity"`
	MaxCapacity     uint32 `json:"max_capacity,omitempty"`
}

func loadConfig(path string) (slotvec.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return slotvec.Config{}, fmt.Errorf("cannot read config file: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (slotvec.Config, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return slotvec.Config{}, fmt.Errorf("invalid config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(std, &fc); err != nil {
		return slotvec.Config{}, fmt.Errorf("invalid config file: %w", err)
	}
	c := slotvec.Config{
		ElementWidth:    fc.ElementWidth,
		InitialCapacity: fc.InitialCapacity,
		ResizeQuantity:  fc.ResizeQuantity,
		MaxCapacity:     fc.MaxCapacity,
	}
	if err := c.Validate(); err != nil {
		return slotvec.Config{}, err
	}
	return c, nil
}

func toUint32(name string, v uint) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("--%s %d does not fit in 32 bits", name, v)
	}
	return uint32(v), nil
}

// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package slotvec

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// DefaultResizeQuantity is the growth increment used by DetermineSize for
// small vectors.
const DefaultResizeQuantity = 16

// DetermineSize generates a Config for a vector expected to hold
// numberOfElements elements of elementWidth bytes (slot header included),
// growing by a quarter of that once full.
func DetermineSize(numberOfElements uint32, elementWidth uint32) Config {
	resize := numberOfElements / 4
	if resize < DefaultResizeQuantity {
		resize = DefaultResizeQuantity
	}
	return Config{
		ElementWidth:    elementWidth,
		InitialCapacity: numberOfElements,
		ResizeQuantity:  resize,
	}
}

// Config controls the geometry and behavior of a vector
type Config struct {
	// The width in bytes of one slot, including the HeaderSize bytes of
	// slot header
	ElementWidth uint32
	// The number of slots allocated up front
	InitialCapacity uint32
	// The number of slots appended each time a full vector grows.  Zero
	// means the vector never grows.
	ResizeQuantity uint32
	// Upper bound on capacity.  Zero means MaxCapacity.
	MaxCapacity uint32
	// Receives growth and release events at debug level.  Nil disables
	// logging.
	Logger *zerolog.Logger
}

// Option adjusts a Config
type Option func(*Config)

// WithMaxCapacity bounds the capacity a vector may grow to.
func WithMaxCapacity(n uint32) Option {
	return func(c *Config) {
		c.MaxCapacity = n
	}
}

// WithLogger sets the logger that receives vector events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &l
	}
}

// Validate reports whether the configuration describes a vector that can
// be created.
func (c *Config) Validate() error {
	if c.ElementWidth < HeaderSize {
		return fmt.Errorf("%w: element width %d is smaller than the %d byte slot header",
			ErrInvalidArgument, c.ElementWidth, HeaderSize)
	}
	if c.InitialCapacity > c.capacityLimit() {
		return fmt.Errorf("%w: initial capacity %d exceeds limit %d",
			ErrCapacityExceeded, c.InitialCapacity, c.capacityLimit())
	}
	if _, ok := imageSize(c.ElementWidth, c.InitialCapacity); !ok {
		return fmt.Errorf("%w: %d slots of %d bytes", ErrCapacityExceeded,
			c.InitialCapacity, c.ElementWidth)
	}
	return nil
}

func (c *Config) capacityLimit() uint32 {
	if c.MaxCapacity == 0 || c.MaxCapacity > MaxCapacity {
		return MaxCapacity
	}
	return c.MaxCapacity
}

// PayloadWidth reports the bytes available to the caller in each slot.
func (c *Config) PayloadWidth() uint32 {
	if c.ElementWidth < HeaderSize {
		return 0
	}
	return c.ElementWidth - HeaderSize
}

// BytesRequired reports the size of the initial vector image.
func (c *Config) BytesRequired() uint64 {
	return MetaSize + uint64(c.ElementWidth)*uint64(c.InitialCapacity)
}

// BytesPerGrowth reports how many bytes each growth event appends.
func (c *Config) BytesPerGrowth() uint64 {
	return uint64(c.ElementWidth) * uint64(c.ResizeQuantity)
}

// ExplainIndent will print an indented summary of the configuration to w
func (c *Config) ExplainIndent(w io.Writer, indent string) {
	fmt.Fprintf(w, "%s%4d bytes per slot (%d header, %d payload)\n", indent,
		c.ElementWidth, HeaderSize, c.PayloadWidth())
	fmt.Fprintf(w, "%s%4d slots allocated initially\n", indent, c.InitialCapacity)
	if c.ResizeQuantity == 0 {
		fmt.Fprintf(w, "%s     fixed capacity, never grows\n", indent)
	} else {
		fmt.Fprintf(w, "%s%4d slots added per growth (%s)\n", indent,
			c.ResizeQuantity, humanBytes(c.BytesPerGrowth()))
	}
	fmt.Fprintf(w, "%s     %s storage size initially\n", indent, humanBytes(c.BytesRequired()))
}

// Explain will print a summary of the configuration to stdout
func (c *Config) Explain() {
	c.ExplainIndent(os.Stdout, "")
}

func humanBytes(bytes uint64) string {
	v := float64(bytes)
	suffix := "bytes"
	if v > 1024 {
		v /= 1024.
		suffix = "KB"
		if v > 1024. {
			suffix = "MB"
			v /= 1024.0
			if v > 1024. {
				suffix = "GB"
				v /= 1024.
			}
		}
	}
	if v < 10 {
		return fmt.Sprintf("%0.2f %s", v, suffix)
	} else if v < 100 {
		return fmt.Sprintf("%0.1f %s", v, suffix)
	} else {
		return fmt.Sprintf("%0.0f %s", v, suffix)
	}
}

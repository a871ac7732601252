// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	slotvec "github.com/facebookincubator/go-slotvec"
)

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"in", "i"},
		Usage:    "file containing a slot vector",
		Required: true,
	}
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app := &cli.App{
		Name:  "slotvec",
		Usage: "create, modify and inspect serialized slot vectors",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log vector growth and releases",
			},
		},
		Before: func(c *cli.Context) error {
			level := zerolog.InfoLevel
			if c.Bool("verbose") {
				level = zerolog.DebugLevel
			}
			log = log.Level(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create an empty slot vector",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"out", "o"},
						Value:   "slotvec.bin",
						Usage:   "name of the file to write the vector to",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "JSON (comments allowed) file holding the vector configuration",
					},
					&cli.UintFlag{
						Name:  "width",
						Value: 16,
						Usage: "slot width in bytes, including the 4 byte slot header",
					},
					&cli.UintFlag{
						Name:  "capacity",
						Value: 16,
						Usage: "initial number of slots",
					},
					&cli.UintFlag{
						Name:  "resize",
						Value: 16,
						Usage: "number of slots to add when the vector is full",
					},
				},
				Action: func(c *cli.Context) error {
					output := c.String("output")
					if _, err := os.Stat(output); !os.IsNotExist(err) {
						return fmt.Errorf("refusing to over-write existing file: %s", output)
					}
					if c.NArg() > 0 {
						return fmt.Errorf("unexpected command line arguments: %q", c.Args().Slice())
					}
					cfg, err := configFromFlags(c)
					if err != nil {
						return err
					}
					cfg.Logger = &log
					v, err := slotvec.NewWithConfig(cfg)
					if err != nil {
						return err
					}
					if err := v.WriteFile(output); err != nil {
						return fmt.Errorf("error writing slot vector: %w", err)
					}
					log.Info().Str("path", output).Int("bytes", len(v.Bytes())).Msg("created slot vector")
					cfg.Explain()
					return nil
				},
			},
			{
				Name:  "run",
				Usage: "apply acquire/release/write operations to a slot vector",
				Flags: []cli.Flag{
					inputFlag(),
					&cli.StringFlag{
						Name:  "script",
						Usage: "file to read operations from (default is stdin)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"out", "o"},
						Usage:   "file to write the result to (default is the input file)",
					},
				},
				Action: func(c *cli.Context) error {
					input := c.String("input")
					v, err := slotvec.OpenFromPath(input, slotvec.WithLogger(log))
					if err != nil {
						return fmt.Errorf("run: can't read input file: %w", err)
					}

					var script io.Reader = os.Stdin
					if c.IsSet("script") {
						f, err := os.Open(c.String("script"))
						if err != nil {
							return err
						}
						defer f.Close()
						script = f
					}

					start := time.Now()
					if err := runScript(v, script, os.Stdout); err != nil {
						return err
					}
					log.Debug().Dur("elapsed", time.Since(start)).Msg("script applied")

					output := input
					if c.IsSet("output") {
						output = c.String("output")
					}
					if err := v.WriteFile(output); err != nil {
						return fmt.Errorf("error writing slot vector: %w", err)
					}
					log.Info().Str("path", output).
						Uint32("occupancy", v.Len()).
						Uint32("capacity", v.Cap()).
						Msg("wrote slot vector")
					return nil
				},
			},
			{
				Name:  "describe",
				Usage: "read the headers of a slot vector and describe it",
				Flags: []cli.Flag{inputFlag()},
				Action: func(c *cli.Context) error {
					d, err := slotvec.OpenReadOnlyFromPath(c.String("input"))
					if err != nil {
						return fmt.Errorf("describe: can't read input file: %w", err)
					}
					defer d.Close()
					describe(os.Stdout, d)
					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "print every slot of a slot vector",
				Flags: []cli.Flag{inputFlag()},
				Action: func(c *cli.Context) error {
					d, err := slotvec.OpenReadOnlyFromPath(c.String("input"))
					if err != nil {
						return fmt.Errorf("dump: can't read input file: %w", err)
					}
					defer d.Close()
					return slotvec.Dump(os.Stdout, d)
				},
			},
			{
				Name:  "check",
				Usage: "verify the checksum and invariants of a slot vector",
				Flags: []cli.Flag{inputFlag()},
				Action: func(c *cli.Context) error {
					v, err := slotvec.OpenFromPath(c.String("input"))
					if err != nil {
						return err
					}
					log.Info().Uint32("occupancy", v.Len()).Uint32("capacity", v.Cap()).Msg("slot vector is consistent")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("slotvec failed")
	}
}

func configFromFlags(c *cli.Context) (slotvec.Config, error) {
	if c.IsSet("config") {
		return loadConfig(c.String("config"))
	}
	var cfg slotvec.Config
	var err error
	if cfg.ElementWidth, err = toUint32("width", c.Uint("width")); err != nil {
		return cfg, err
	}
	if cfg.InitialCapacity, err = toUint32("capacity", c.Uint("capacity")); err != nil {
		return cfg, err
	}
	if cfg.ResizeQuantity, err = toUint32("resize", c.Uint("resize")); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func describe(w io.Writer, d *slotvec.Disk) {
	h := d.FileHeader()
	m := d.Meta()
	fmt.Fprintf(w, "Slot vector version %d, %d byte image, checksum %#016x\n", h.Version, h.ImageLen, h.Checksum)
	fmt.Fprintf(w, "%d of %d slots occupied, free list head %d\n", m.Occupancy, m.Capacity, m.FreeHead)
	cfg := slotvec.Config{ElementWidth: m.ElementWidth, InitialCapacity: m.Capacity, ResizeQuantity: m.ResizeQuantity}
	cfg.ExplainIndent(w, "  ")
}

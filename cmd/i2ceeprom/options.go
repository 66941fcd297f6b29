package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/moffa90/go-i2ceeprom/i2cdev"
	"github.com/moffa90/go-i2ceeprom/memimage"
	"github.com/moffa90/go-i2ceeprom/parts"
	"github.com/moffa90/go-i2ceeprom/protocol"
)

// options is a validated invocation.
type options struct {
	bus     string
	addr    uint16
	geom    protocol.Geometry
	driver  string
	retries int

	fill    bool
	pattern memimage.Pattern
	dump    bool
	write   bool
	read    bool
	verify  bool
	file    string

	failOnMismatch bool
	logLevel       string
}

// needsFile reports whether the file must be named: read and write always
// use it, and verify compares against it unless a fill provides the reference.
func (o *options) needsFile() bool {
	if o.fill {
		return o.read || o.write
	}
	return o.read || o.write || o.verify
}

// parseNumber accepts decimal or 0x-prefixed hexadecimal.
func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	var (
		v   int64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseInt(s[2:], 16, 32)
	} else {
		v, err = strconv.ParseInt(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int(v), nil
}

// parseOptions validates flags and arguments before any bus activity.
func parseOptions(c *cli.Context, fs afero.Fs) (*options, error) {
	if c.NArg() != 2 {
		return nil, errors.New("expected <i2c-bus> <i2c-addr>, see --help")
	}

	opts := &options{
		bus:            c.Args().Get(0),
		driver:         c.String(flagDriver),
		retries:        c.Int(flagRetries),
		dump:           c.Bool(flagDump),
		write:          c.Bool(flagWrite),
		read:           c.Bool(flagRead),
		verify:         c.Bool(flagVerify),
		file:           c.Path(flagFile),
		failOnMismatch: c.Bool(flagFailOnMismatch),
		logLevel:       c.String(flagLogLevel),
	}
	if c.Bool(flagDebug) {
		opts.logLevel = "debug"
	}

	addr, err := parseNumber(c.Args().Get(1))
	if err != nil {
		return nil, fmt.Errorf("device address: %w", err)
	}
	if addr < 0 || addr > i2cdev.MaxAddress {
		return nil, fmt.Errorf("device address 0x%02X is not a 7-bit address", addr)
	}
	opts.addr = uint16(addr)

	if opts.retries <= 0 {
		return nil, fmt.Errorf("retries must be positive, got %d", opts.retries)
	}

	if c.IsSet(flagFill) {
		if opts.pattern, err = memimage.ParsePattern(c.String(flagFill)); err != nil {
			return nil, err
		}
		opts.fill = true
	}

	if opts.geom, err = resolveGeometry(c, fs); err != nil {
		return nil, err
	}

	if !(opts.fill || opts.dump || opts.write || opts.read || opts.verify) {
		return nil, errors.New("nothing to do: use --fill, --write, --read, --verify or --dump")
	}
	if opts.needsFile() && opts.file == "" {
		return nil, errors.New("filename not specified: use --file")
	}

	return opts, nil
}

// resolveGeometry starts from the default or named part and applies explicit
// --size and --page-size overrides.
func resolveGeometry(c *cli.Context, fs afero.Fs) (protocol.Geometry, error) {
	geom := protocol.DefaultGeometry()

	if name := c.String(flagPart); name != "" {
		catalog := parts.Builtin()
		if path := c.Path(flagPartsFile); path != "" {
			var err error
			if catalog, err = parts.Load(fs, path); err != nil {
				return protocol.Geometry{}, err
			}
		}

		part, err := catalog.Lookup(name)
		if err != nil {
			return protocol.Geometry{}, err
		}
		if geom, err = part.Geometry(); err != nil {
			return protocol.Geometry{}, err
		}
	}

	sizeKB := geom.Size / 1024
	pageSize := geom.PageSize

	if c.IsSet(flagSize) {
		v, err := parseNumber(c.String(flagSize))
		if err != nil {
			return protocol.Geometry{}, fmt.Errorf("device size: %w", err)
		}
		sizeKB = v
	}
	if c.IsSet(flagPageSize) {
		v, err := parseNumber(c.String(flagPageSize))
		if err != nil {
			return protocol.Geometry{}, fmt.Errorf("page size: %w", err)
		}
		pageSize = v
	}

	return protocol.GeometryFromKB(sizeKB, pageSize)
}

package main

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/moffa90/go-i2ceeprom/eeprom"
	"github.com/moffa90/go-i2ceeprom/i2cdev"
	"github.com/moffa90/go-i2ceeprom/protocol"
	"github.com/moffa90/go-i2ceeprom/simulator"
)

const (
	// Flags.
	flagPageSize       = "page-size"
	flagSize           = "size"
	flagFill           = "fill"
	flagDump           = "dump"
	flagWrite          = "write"
	flagRead           = "read"
	flagVerify         = "verify"
	flagFile           = "file"
	flagPart           = "part"
	flagPartsFile      = "parts-file"
	flagDriver         = "driver"
	flagRetries        = "retries"
	flagFailOnMismatch = "fail-on-mismatch"
	flagLogLevel       = "log-level"
	flagDebug          = "debug"

	driverSim = "sim"

	// Exit codes.
	exitFailure   = 1
	exitHardWrite = 2
)

// deviceOpener opens the bus handle for the device at addr.
type deviceOpener func(driver, bus string, addr uint16, geom protocol.Geometry) (io.ReadWriteCloser, error)

func openDevice(driver, bus string, addr uint16, geom protocol.Geometry) (io.ReadWriteCloser, error) {
	if driver == driverSim {
		return simulator.New(geom), nil
	}
	return i2cdev.Open(driver, bus, addr)
}

// runner holds what an invocation needs from its environment.
type runner struct {
	fs   afero.Fs
	open deviceOpener
}

func newApp(r *runner) *cli.App {
	return &cli.App{
		Name:            "i2ceeprom",
		Usage:           "manipulate I2C EEPROM devices",
		UsageText:       "i2ceeprom <i2c-bus> <i2c-addr> [options]",
		HideHelpCommand: true,
		Description: "Whilst processing, real-time output is produced:\n" +
			"  . means progress without error (one dot per page)\n" +
			"  E means a transient bus error (one E per error),\n" +
			"    for example another device is mastering the I2C bus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagPageSize,
				Aliases: []string{"p"},
				Usage:   "page size of the device in bytes (default 32)",
			},
			&cli.StringFlag{
				Name:    flagSize,
				Aliases: []string{"s"},
				Usage:   "device size in KB, 1-64 (default 4)",
			},
			&cli.StringFlag{
				Name:    flagFill,
				Aliases: []string{"f"},
				Usage: "fill the device with `PATTERN`: 0 all zeros (0x00), 1 all ones (0xFF), " +
					"3 incremental with +3 offset per 0x100, 5 (0x55), a (0xAA)",
			},
			&cli.BoolFlag{
				Name:    flagDump,
				Aliases: []string{"d"},
				Usage:   "read the device and hex dump it to stdout",
			},
			&cli.BoolFlag{
				Name:    flagWrite,
				Aliases: []string{"w"},
				Usage:   "write the file contents into the EEPROM",
			},
			&cli.BoolFlag{
				Name:    flagRead,
				Aliases: []string{"r"},
				Usage:   "read the EEPROM contents into the file",
			},
			&cli.BoolFlag{
				Name:    flagVerify,
				Aliases: []string{"v"},
				Usage:   "verify after the operation (includes fill)",
			},
			&cli.PathFlag{
				Name:    flagFile,
				Aliases: []string{"n"},
				Usage:   "`FILE` used for the operation",
			},
			&cli.StringFlag{
				Name:    flagPart,
				EnvVars: []string{"I2CEEPROM_PART"},
				Usage:   "take size and page size from a named part such as 24C256",
			},
			&cli.PathFlag{
				Name:    flagPartsFile,
				EnvVars: []string{"I2CEEPROM_PARTS_FILE"},
				Usage:   "YAML `FILE` with additional part definitions",
			},
			&cli.StringFlag{
				Name:    flagDriver,
				EnvVars: []string{"I2CEEPROM_DRIVER"},
				Value:   i2cdev.DriverDevfs,
				Usage:   "bus driver: devfs, periph or sim",
			},
			&cli.IntFlag{
				Name:  flagRetries,
				Value: protocol.DefaultRetries,
				Usage: "attempts per transfer before giving up",
			},
			&cli.BoolFlag{
				Name:  flagFailOnMismatch,
				Usage: "exit with an error when verify finds differences",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: "warn",
				Usage: "log level: debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Action: r.action,
	}
}

func (r *runner) action(c *cli.Context) error {
	opts, err := parseOptions(c, r.fs)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	logger, err := newLogger(c.App.ErrWriter, opts.logLevel)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer func() { _ = logger.Sync() }()

	if err := r.run(c.Context, c.App.Writer, opts, zapLogger{logger}); err != nil {
		return cli.Exit(err.Error(), exitCode(err))
	}
	return nil
}

// exitCode maps a run failure to the process exit status. A write that never
// got through is reported apart from every other failure.
func exitCode(err error) int {
	var exhausted *protocol.RetriesExhaustedError
	if errors.As(err, &exhausted) && exhausted.Operation == eeprom.OpWritePage {
		return exitHardWrite
	}
	return exitFailure
}

// errVerifyFailed is returned when verify finds differences and the caller asked to fail on them.
var errVerifyFailed = errors.New("verify failed")

// flagsFirst moves options that follow the positional arguments in front of
// them, so both "i2ceeprom 1 0x50 -d" and "i2ceeprom -d 1 0x50" parse.
// Everything after "--" stays positional.
func flagsFirst(flags []cli.Flag, args []string) []string {
	if len(args) == 0 {
		return args
	}

	boolFlags := map[string]bool{"help": true, "h": true}
	for _, f := range flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			for _, name := range f.Names() {
				boolFlags[name] = true
			}
		}
	}

	var opts, positional []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positional = append(positional, rest[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}

		opts = append(opts, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") || boolFlags[name] {
			continue
		}
		if i+1 < len(rest) {
			i++
			opts = append(opts, rest[i])
		}
	}

	out := append([]string{args[0]}, opts...)
	if len(positional) > 0 {
		out = append(out, "--")
		out = append(out, positional...)
	}
	return out
}

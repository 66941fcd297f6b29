package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/moffa90/go-i2ceeprom/eeprom"
	"github.com/moffa90/go-i2ceeprom/memimage"
	"github.com/moffa90/go-i2ceeprom/protocol"
)

// run performs the requested operations in a fixed order: fill, write, read,
// verify, dump. The buffer left by the last of fill, write and read is the
// verify reference; verify alone compares against the file.
func (r *runner) run(ctx context.Context, out io.Writer, opts *options, logger eeprom.Logger) (err error) {
	printf(out, "Opening device 0x%02x on bus %s...", opts.addr, opts.bus)
	printf(out, "Device is %s", opts.geom)
	printf(out, "")

	dev, err := r.open(opts.driver, opts.bus, opts.addr, opts.geom)
	if err != nil {
		return fmt.Errorf("failed to open the bus: %w", err)
	}
	defer func() {
		err = multierr.Combine(err, dev.Close())
	}()

	m := markers{w: out}
	prog, err := eeprom.New(dev, opts.geom,
		eeprom.WithRetries(opts.retries),
		eeprom.WithLogger(logger),
		eeprom.WithProgressCallback(m.progress),
		eeprom.WithRetryCallback(m.retry),
	)
	if err != nil {
		return err
	}

	var img []byte

	if opts.fill {
		printf(out, "Preparing pattern (%s)", opts.pattern)
		printf(out, "Writing device.")
		if img, err = prog.Fill(ctx, opts.pattern); err != nil {
			return hardError(out, err)
		}
		printf(out, "\nDone")
	}

	if opts.write {
		if img, err = r.loadImage(out, opts); err != nil {
			return err
		}
		printf(out, "Writing device.")
		if err := prog.Program(ctx, img); err != nil {
			return hardError(out, err)
		}
		printf(out, "\nDone")
		checksums(out, img)
	}

	if opts.read {
		printf(out, "Reading device")
		if img, err = prog.ReadAll(ctx); err != nil {
			return hardError(out, err)
		}
		printf(out, "\nDone")
		printf(out, "Writing %s", opts.file)
		if err := memimage.Save(r.fs, opts.file, img); err != nil {
			return err
		}
		checksums(out, img)
	}

	if opts.verify {
		if img == nil {
			if img, err = r.loadImage(out, opts); err != nil {
				return err
			}
		}
		printf(out, "Verifying.")
		result, err := prog.Verify(ctx, img)
		if err != nil {
			return hardError(out, err)
		}
		verifyReport(out, result)
		if !result.OK() && opts.failOnMismatch {
			return fmt.Errorf("%w: %d bytes differ", errVerifyFailed, result.Total)
		}
	}

	if opts.dump {
		printf(out, "EEPROM contents")
		printf(out, "")
		printf(out, "Reading device")
		dump, err := prog.ReadAll(ctx)
		if err != nil {
			return hardError(out, err)
		}
		printf(out, "\nDone")
		if err := memimage.HexDump(out, dump); err != nil {
			return err
		}
	}

	return nil
}

func (r *runner) loadImage(out io.Writer, opts *options) ([]byte, error) {
	printf(out, "Reading %s", opts.file)
	img, n, err := memimage.Load(r.fs, opts.file, opts.geom)
	if err != nil {
		return nil, err
	}
	if n < opts.geom.Size {
		warningf(out, "file smaller than EEPROM (%d of %d bytes, remainder filled with 0x00)", n, opts.geom.Size)
	}
	return img, nil
}

// hardError ends the marker line before a transfer failure is reported.
func hardError(out io.Writer, err error) error {
	if protocol.IsRetriesExhausted(err) {
		printf(out, "")
	}
	return err
}

func checksums(out io.Writer, img []byte) {
	printf(out, "Image sum16 0x%04X crc16 0x%04X", protocol.Sum16(img), protocol.CRC16(img))
}

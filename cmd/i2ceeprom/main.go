// Command i2ceeprom reads, writes, fills, verifies and dumps serial I2C EEPROMs
// with two-byte addressing (24C32 to 24C512 and compatible parts).
//
// Usage:
//
//	i2ceeprom <i2c-bus> <i2c-addr> [options]
//
// Options may also precede the bus and address.
//
// While processing, one "." is printed per page and one "E" per transient
// bus error, for example when another master is using the bus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &runner{
		fs:   afero.NewOsFs(),
		open: openDevice,
	}
	app := newApp(r)

	if err := app.RunContext(ctx, flagsFirst(app.Flags, os.Args)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

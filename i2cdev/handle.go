package i2cdev

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/moffa90/go-i2ceeprom/protocol"
)

// Driver names accepted by Open.
const (
	DriverPeriph = "periph"
	DriverDevfs  = "devfs"
)

// DefaultAddress is the 7-bit address of a 24Cxx part with its address pins tied low.
const DefaultAddress = 0x50

// MaxAddress is the highest 7-bit device address.
const MaxAddress = 0x7F

// Handle is an open bus handle bound to one device address.
type Handle interface {
	io.ReadWriteCloser
}

type opener func(bus string, addr uint16) (Handle, error)

var drivers = map[string]opener{
	DriverPeriph: openPeriph,
	DriverDevfs:  openDevfs,
}

// Drivers returns the names of the available drivers.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the device at addr on bus using the named driver.
func Open(driver, bus string, addr uint16) (Handle, error) {
	open, ok := drivers[driver]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (available: %s)", driver, strings.Join(Drivers(), ", "))
	}
	if addr > MaxAddress {
		return nil, fmt.Errorf("device address 0x%02X is not a 7-bit address", addr)
	}

	h, err := open(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("unable to open bus %q device 0x%02X: %w", bus, addr, err)
	}
	return h, nil
}

// devfsPath maps a bus number to its i2c-dev character device. Absolute
// paths are used as given.
func devfsPath(bus string) string {
	if strings.HasPrefix(bus, "/") {
		return bus
	}
	return "/dev/i2c-" + strings.TrimPrefix(bus, "i2c-")
}

// checkTransfer turns a short count into a TransferError so callers that only
// look at err still see the failure.
func checkTransfer(op string, want, got int, err error) (int, error) {
	if err == nil && got != want {
		err = &protocol.TransferError{Operation: op, Want: want, Got: got}
	}
	return got, err
}

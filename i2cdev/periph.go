package i2cdev

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var hostInit struct {
	once sync.Once
	err  error
}

func initHost() error {
	hostInit.once.Do(func() {
		_, hostInit.err = host.Init()
	})
	return hostInit.err
}

func openPeriph(bus string, addr uint16) (Handle, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, err
	}
	return newPeriphHandle(b, addr), nil
}

// periphHandle adapts a periph.io bus to the raw read/write handle. Each call
// is a single one-direction transaction.
type periphHandle struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

func newPeriphHandle(bus i2c.BusCloser, addr uint16) *periphHandle {
	return &periphHandle{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}
}

// Write sends p as one write transaction. A NACK anywhere fails the whole transfer.
func (h *periphHandle) Write(p []byte) (int, error) {
	if err := h.dev.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read fills p with one read transaction.
func (h *periphHandle) Read(p []byte) (int, error) {
	if err := h.dev.Tx(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (h *periphHandle) Close() error {
	return h.bus.Close()
}

func (h *periphHandle) String() string {
	return h.dev.String()
}

//go:build linux

package i2cdev

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// i2cSlave is the i2c-dev ioctl that binds a file descriptor to a device address.
const i2cSlave = 0x0703

// devfsHandle is an i2c-dev file bound to one device address.
type devfsHandle struct {
	file *os.File
}

func openDevfs(bus string, addr uint16) (Handle, error) {
	f, err := os.OpenFile(devfsPath(bus), os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, int(addr)); err != nil {
		return nil, multierr.Combine(fmt.Errorf("set device address: %w", err), f.Close())
	}
	return &devfsHandle{file: f}, nil
}

func (h *devfsHandle) Write(p []byte) (int, error) {
	n, err := h.file.Write(p)
	return checkTransfer("write", len(p), n, err)
}

func (h *devfsHandle) Read(p []byte) (int, error) {
	n, err := h.file.Read(p)
	return checkTransfer("read", len(p), n, err)
}

func (h *devfsHandle) Close() error {
	return h.file.Close()
}

func (h *devfsHandle) String() string {
	return h.file.Name()
}

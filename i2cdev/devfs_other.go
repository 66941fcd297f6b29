//go:build !linux

package i2cdev

import (
	"errors"
	"runtime"
)

func openDevfs(bus string, addr uint16) (Handle, error) {
	return nil, errors.New("the devfs driver needs Linux i2c-dev, not available on " + runtime.GOOS)
}

package eeprom

import "fmt"

// ImageSizeError indicates an image whose length does not match the device.
type ImageSizeError struct {
	Expected int
	Actual   int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("image size mismatch: device holds %d bytes, image has %d", e.Expected, e.Actual)
}

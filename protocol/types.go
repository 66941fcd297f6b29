package protocol

import (
	"fmt"
	"math/bits"
)

// Geometry describes the page and total size of one EEPROM device.
// It is fixed for the lifetime of a session and passed to every
// component that does address arithmetic.
type Geometry struct {
	// PageSize is the largest write the device accepts in one transaction
	PageSize int

	// Size is the total device size in bytes
	Size int
}

// DefaultGeometry returns a 4K device with 32-byte pages, the 24C32 layout.
func DefaultGeometry() Geometry {
	return Geometry{
		PageSize: DefaultPageSize,
		Size:     DefaultDeviceSize,
	}
}

// GeometryFromKB builds a geometry from a device size in kilobytes.
func GeometryFromKB(sizeKB, pageSize int) (Geometry, error) {
	if !IsPowerOfTwo(sizeKB) || sizeKB > MaxDeviceSize/1024 {
		return Geometry{}, fmt.Errorf("device size must be a power of two in the 1-%dK range, got %dK",
			MaxDeviceSize/1024, sizeKB)
	}

	g := Geometry{PageSize: pageSize, Size: sizeKB * 1024}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate checks that the geometry can be driven with two-byte addressing.
func (g Geometry) Validate() error {
	if !IsPowerOfTwo(g.PageSize) || g.PageSize > MaxPageSize {
		return fmt.Errorf("page size should be a power of two such as 32, 64 or %d bytes, got %d",
			MaxPageSize, g.PageSize)
	}
	if !IsPowerOfTwo(g.Size) || g.Size > MaxDeviceSize {
		return fmt.Errorf("device size must be a power of two no larger than %d bytes, got %d",
			MaxDeviceSize, g.Size)
	}
	return nil
}

// Pages returns the number of page-sized strides covering the device.
// The last stride is short when the page size does not divide the size.
func (g Geometry) Pages() int {
	if g.PageSize <= 0 {
		return 0
	}
	return (g.Size + g.PageSize - 1) / g.PageSize
}

// Contains reports whether [address, address+length) lies within the device.
func (g Geometry) Contains(address, length int) bool {
	return address >= 0 && length >= 0 && address+length <= g.Size
}

func (g Geometry) String() string {
	if g.Size%1024 == 0 {
		return fmt.Sprintf("%dK with page size of %d bytes", g.Size/1024, g.PageSize)
	}
	return fmt.Sprintf("%d bytes with page size of %d bytes", g.Size, g.PageSize)
}

// IsPowerOfTwo reports whether n is 1, 2, 4, 8 and so on.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

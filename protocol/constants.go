package protocol

import "time"

// Frame structure constants for two-byte addressed serial EEPROMs (24C32 and larger).
const (
	// AddressSize is the number of address bytes leading every write frame,
	// most-significant byte first.
	AddressSize = 2

	// MaxAddress is the highest byte offset a two-byte address can express.
	MaxAddress = 0xFFFF

	// PollSize is the length of the raw read used to probe for write-cycle completion.
	PollSize = 1
)

// Device limits.
const (
	// MaxPageSize is the largest page write supported by any part this library drives.
	MaxPageSize = 128

	// MaxDeviceSize is the largest device, 64K, addressable with two address bytes.
	MaxDeviceSize = 64 * 1024

	// MaxReadLength is the largest single raw read. Linux i2c-dev and many
	// adapters refuse or truncate transfers above 1K.
	MaxReadLength = 1024

	// DefaultPageSize is the page size assumed when none is configured.
	DefaultPageSize = 32

	// DefaultDeviceSize is the device size assumed when none is configured (4K).
	DefaultDeviceSize = 4 * 1024
)

// Retry policy. The attempt ceilings bound worst-case latency of a
// transaction and are not wall-clock deadlines.
const (
	// DefaultRetries is the number of attempts for one write frame or read chunk.
	DefaultRetries = 100

	// DefaultRetryDelay separates attempts of a data transaction.
	DefaultRetryDelay = 10 * time.Microsecond

	// DefaultPollAttempts is the number of 1-byte probes before a device is reported not ready.
	DefaultPollAttempts = 100

	// DefaultPollDelay separates readiness probes.
	DefaultPollDelay = 1 * time.Microsecond
)

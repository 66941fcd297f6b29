package eeprom

import (
	"time"

	"github.com/moffa90/go-i2ceeprom/protocol"
)

// DefaultMismatchLimit is the number of verify mismatches recorded in detail.
const DefaultMismatchLimit = 10

// Config holds the programmer configuration.
type Config struct {
	// ProgressCallback is called once per transferred page (optional)
	ProgressCallback ProgressCallback

	// RetryCallback is called for every transient bus failure (optional)
	RetryCallback RetryCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Retries is the number of attempts for one write frame or read chunk
	Retries int

	// RetryDelay separates attempts of a data transaction
	RetryDelay time.Duration

	// PollAttempts is the number of readiness probes before giving up
	PollAttempts int

	// PollDelay separates readiness probes
	PollDelay time.Duration

	// MismatchLimit caps the mismatches recorded by Verify
	MismatchLimit int

	// Sleep implements the inter-attempt delays
	Sleep func(time.Duration)
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Retries:       protocol.DefaultRetries,
		RetryDelay:    protocol.DefaultRetryDelay,
		PollAttempts:  protocol.DefaultPollAttempts,
		PollDelay:     protocol.DefaultPollDelay,
		MismatchLimit: DefaultMismatchLimit,
		Sleep:         time.Sleep,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track transfer progress.
//
// Example:
//
//	prog, _ := eeprom.New(handle, geom,
//	    eeprom.WithProgressCallback(func(p eeprom.Progress) {
//	        fmt.Print(".")
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithRetryCallback sets a callback invoked on every transient bus failure.
func WithRetryCallback(callback RetryCallback) Option {
	return func(c *Config) {
		c.RetryCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithRetries sets the number of attempts for each write frame and read chunk.
// Values below 1 are ignored.
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries > 0 {
			c.Retries = retries
		}
	}
}

// WithRetryDelay sets the pause between attempts of a data transaction.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.RetryDelay = delay
		}
	}
}

// WithPollAttempts sets the number of readiness probes. Values below 1 are ignored.
func WithPollAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.PollAttempts = attempts
		}
	}
}

// WithPollDelay sets the pause between readiness probes.
func WithPollDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.PollDelay = delay
		}
	}
}

// WithMismatchLimit sets how many verify mismatches are recorded in detail.
// Counting continues past the limit.
func WithMismatchLimit(limit int) Option {
	return func(c *Config) {
		if limit >= 0 {
			c.MismatchLimit = limit
		}
	}
}

// WithSleep replaces the delay primitive, for example with a no-op in tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}

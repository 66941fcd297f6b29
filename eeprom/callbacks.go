package eeprom

import "time"

// Transfer phases reported in Progress.
const (
	PhaseWriting   = "writing"
	PhaseReading   = "reading"
	PhaseVerifying = "verifying"
	PhaseComplete  = "complete"
)

// Transaction names used in retry events and errors.
const (
	OpSetAddress = "set address"
	OpWritePage  = "write page"
	OpReadChunk  = "read chunk"
)

// Progress contains information about a whole-device transfer.
// Passed to ProgressCallback once per page.
type Progress struct {
	// Phase describes the current operation phase:
	//   "writing"   - Programming pages
	//   "reading"   - Reading pages
	//   "verifying" - Reading pages and comparing them
	//   "complete"  - Operation completed successfully
	Phase string

	// Page is the number of pages transferred so far
	Page int

	// TotalPages is the total number of pages in the transfer
	TotalPages int

	// Address is the device offset of the page just transferred
	Address int

	// Bytes is the total number of bytes transferred so far
	Bytes int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the operation started
	ElapsedTime time.Duration
}

// ProgressCallback is called once per page to report progress.
// Implementations should return quickly to avoid stalling the bus.
type ProgressCallback func(Progress)

// RetryEvent describes one failed attempt of a transaction that will be retried.
type RetryEvent struct {
	// Operation is the transaction that failed (OpWritePage, OpReadChunk, ...)
	Operation string

	// Address is the device offset the transaction targeted
	Address int

	// Attempt is the 1-based number of the failed attempt
	Attempt int

	// Err is the failure of this attempt
	Err error
}

// RetryCallback is called for every transient failure, typically to render
// a liveness marker while another master holds the bus.
type RetryCallback func(RetryEvent)

// Logger is an optional logging interface that can be provided to the programmer.
// This allows integration with any logging framework.
//
// Example with zap:
//
//	type zapLogger struct{ s *zap.SugaredLogger }
//	func (l zapLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
//	func (l zapLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
//	func (l zapLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
//
//	prog, _ := eeprom.New(handle, geom, eeprom.WithLogger(zapLogger{logger.Sugar()}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

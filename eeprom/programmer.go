package eeprom

import (
	"context"
	"fmt"
	"io"

	"github.com/moffa90/go-i2ceeprom/protocol"
)

// Programmer sequences EEPROM transactions over a bus handle: readiness
// polling, address positioning, page writes and bounded reads, each with
// bounded retries.
//
// A Programmer issues one transaction at a time and never assumes the device
// address pointer survived between calls. It is not safe for concurrent use.
type Programmer struct {
	device io.ReadWriter
	geom   protocol.Geometry
	config Config
}

// New creates a Programmer for a device of geometry geom reached through device.
// The device must implement io.ReadWriter bound to the EEPROM's bus address.
//
// Example:
//
//	prog, err := eeprom.New(handle, protocol.DefaultGeometry(),
//	    eeprom.WithProgressCallback(progressFunc),
//	)
func New(device io.ReadWriter, geom protocol.Geometry, opts ...Option) (*Programmer, error) {
	if device == nil {
		panic("device cannot be nil")
	}
	if err := geom.Validate(); err != nil {
		return nil, fmt.Errorf("invalid geometry: %w", err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		device: device,
		geom:   geom,
		config: cfg,
	}, nil
}

// Geometry returns the device geometry the programmer was built with.
func (p *Programmer) Geometry() protocol.Geometry {
	return p.geom
}

// PollReady probes the device with one-byte reads until it acknowledges.
// A refused probe means the device is still committing a write, not an I/O
// error. Returns false once the probe budget is spent or ctx is done; callers
// may proceed anyway since the next transaction retries on its own.
func (p *Programmer) PollReady(ctx context.Context) bool {
	probe := make([]byte, protocol.PollSize)

	for attempt := 0; attempt < p.config.PollAttempts; attempt++ {
		if ctx.Err() != nil {
			return false
		}
		if n, err := p.device.Read(probe); err == nil && n == protocol.PollSize {
			return true
		}
		p.config.Sleep(p.config.PollDelay)
	}

	p.logDebug("device not ready", "attempts", p.config.PollAttempts)
	return false
}

// GotoAddress positions the device address pointer at address with a single
// two-byte write. A short or failed write is returned as a
// *protocol.TransferError; the caller decides whether to retry.
func (p *Programmer) GotoAddress(ctx context.Context, address int) error {
	frame, err := protocol.BuildAddressFrame(address)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.PollReady(ctx)

	n, err := p.device.Write(frame)
	if err != nil || n != len(frame) {
		return &protocol.TransferError{
			Operation: OpSetAddress,
			Address:   address,
			Want:      len(frame),
			Got:       n,
			Err:       err,
		}
	}

	return nil
}

// WritePage commits data at address in one frame. The data must not cross a
// page boundary. The frame is resent whole until the device acknowledges
// every byte or the retry budget is spent, which returns a
// *protocol.RetriesExhaustedError.
func (p *Programmer) WritePage(ctx context.Context, address int, data []byte) error {
	if !p.geom.Contains(address, len(data)) {
		return p.rangeError(address, len(data))
	}

	frame, err := protocol.BuildWriteFrame(address, data, p.geom.PageSize)
	if err != nil {
		return err
	}

	p.PollReady(ctx)

	return p.retry(ctx, OpWritePage, address, func() error {
		n, err := p.device.Write(frame)
		if err != nil || n != len(frame) {
			return &protocol.TransferError{
				Operation: OpWritePage,
				Address:   address,
				Want:      len(frame),
				Got:       n,
				Err:       err,
			}
		}
		return nil
	})
}

// WriteSpan writes data starting at address, split into page-bounded frames.
// The address advances by each frame's length, so a short first or last
// frame is handled. Waits for the final write cycle before returning.
func (p *Programmer) WriteSpan(ctx context.Context, address int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if !p.geom.Contains(address, len(data)) {
		return p.rangeError(address, len(data))
	}

	for _, chunk := range protocol.PageChunks(address, len(data), p.geom.PageSize) {
		if err := p.WritePage(ctx, chunk.Address, data[chunk.Offset:chunk.Offset+chunk.Length]); err != nil {
			return err
		}
	}

	p.PollReady(ctx)
	return nil
}

// ReadChunk fills buf from the device starting at address. Requests of more
// than protocol.MaxReadLength bytes are rejected before any bus traffic.
//
// Each attempt re-establishes the address pointer and then reads; a failure
// in either step restarts from the addressing step.
func (p *Programmer) ReadChunk(ctx context.Context, address int, buf []byte) error {
	if len(buf) == 0 || len(buf) > protocol.MaxReadLength {
		return &protocol.ReadLengthError{Requested: len(buf), Max: protocol.MaxReadLength}
	}
	if !p.geom.Contains(address, len(buf)) {
		return p.rangeError(address, len(buf))
	}

	p.PollReady(ctx)

	return p.retry(ctx, OpReadChunk, address, func() error {
		if err := p.GotoAddress(ctx, address); err != nil {
			return err
		}

		n, err := p.device.Read(buf)
		if err != nil || n != len(buf) {
			return &protocol.TransferError{
				Operation: OpReadChunk,
				Address:   address,
				Want:      len(buf),
				Got:       n,
				Err:       err,
			}
		}
		return nil
	})
}

// retry runs attempt until it succeeds or the retry budget is spent.
func (p *Programmer) retry(ctx context.Context, op string, address int, attempt func() error) error {
	var last error

	for n := 1; n <= p.config.Retries; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := attempt()
		if err == nil {
			return nil
		}
		last = err

		p.reportRetry(RetryEvent{
			Operation: op,
			Address:   address,
			Attempt:   n,
			Err:       err,
		})
		p.logDebug("transient bus error",
			"operation", op,
			"address", fmt.Sprintf("0x%04X", address),
			"attempt", n,
			"error", err,
		)

		p.config.Sleep(p.config.RetryDelay)
	}

	p.logError("retries exhausted",
		"operation", op,
		"address", fmt.Sprintf("0x%04X", address),
		"attempts", p.config.Retries,
	)

	return &protocol.RetriesExhaustedError{
		Operation: op,
		Address:   address,
		Attempts:  p.config.Retries,
		Err:       last,
	}
}

func (p *Programmer) rangeError(address, length int) error {
	return &protocol.AddressError{
		Address: address,
		Length:  length,
		Max:     p.geom.Size - 1,
	}
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// reportRetry calls the retry callback if configured.
func (p *Programmer) reportRetry(event RetryEvent) {
	if p.config.RetryCallback != nil {
		p.config.RetryCallback(event)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}

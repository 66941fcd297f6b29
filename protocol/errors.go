package protocol

import (
	"errors"
	"fmt"
)

// AddressError indicates a byte offset outside the range of the device or of
// two-byte addressing.
type AddressError struct {
	Address int
	Length  int
	Max     int
}

func (e *AddressError) Error() string {
	if e.Length > 0 {
		return fmt.Sprintf("address range 0x%04X+%d is out of range: valid range is 0x0000-0x%04X",
			e.Address, e.Length, e.Max)
	}
	return fmt.Sprintf("address 0x%04X is out of range: valid range is 0x0000-0x%04X", e.Address, e.Max)
}

// PageBoundaryError indicates a write frame whose data would run past the end
// of its page and wrap on the device.
type PageBoundaryError struct {
	Address  int
	Length   int
	PageSize int
}

func (e *PageBoundaryError) Error() string {
	return fmt.Sprintf("write of %d bytes at 0x%04X crosses a %d-byte page boundary",
		e.Length, e.Address, e.PageSize)
}

// ReadLengthError indicates a read request outside 1..MaxReadLength.
// No bus traffic happens when it is returned.
type ReadLengthError struct {
	Requested int
	Max       int
}

func (e *ReadLengthError) Error() string {
	if e.Requested > e.Max {
		return fmt.Sprintf("maximum IO length is %d bytes, got %d: use a smaller read", e.Max, e.Requested)
	}
	return fmt.Sprintf("read length must be 1-%d bytes, got %d", e.Max, e.Requested)
}

// TransferError is a failed or short raw transfer. It is transient: the
// caller retries the whole transaction.
type TransferError struct {
	// Operation is the transaction that failed ("set address", "write page", "read chunk")
	Operation string

	// Address is the device offset the transaction targeted
	Address int

	// Want is the number of bytes the transaction should have moved
	Want int

	// Got is the number of bytes the bus reported
	Got int

	// Err is the underlying bus error, if any
	Err error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at 0x%04X: transferred %d of %d bytes: %v",
			e.Operation, e.Address, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("%s at 0x%04X: transferred %d of %d bytes", e.Operation, e.Address, e.Got, e.Want)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is the unrecoverable failure of a write frame or read
// chunk after every attempt failed. The transfer it belongs to must be abandoned.
type RetriesExhaustedError struct {
	Operation string
	Address   int
	Attempts  int

	// Err is the failure of the last attempt
	Err error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("hard %s error at 0x%04X after %d attempts: %v",
		e.Operation, e.Address, e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

// IsRetriesExhausted returns true if err is or wraps a RetriesExhaustedError.
func IsRetriesExhausted(err error) bool {
	var target *RetriesExhaustedError
	return errors.As(err, &target)
}

// IsReadLengthError returns true if err is or wraps a ReadLengthError.
func IsReadLengthError(err error) bool {
	var target *ReadLengthError
	return errors.As(err, &target)
}

// Package protocol implements the framing used to talk to I2C serial EEPROMs.
//
// This package provides the frame builders, page arithmetic, device geometry
// and error types shared by the transfer engine and the bus drivers.
//
// # Access Pattern
//
// Serial EEPROMs with two address bytes expose a single internal address
// pointer. Every transaction is either a write or a read:
//
//	Set address:  [ADDR_H][ADDR_L]
//	Page write:   [ADDR_H][ADDR_L][DATA...]      (DATA never crosses a page boundary)
//	Read:         [DATA...]                      (from the current pointer)
//
// A page write that runs past the end of its page wraps to the start of the
// same page on the device and silently overwrites data, so writes are always
// split on page boundaries (see PageChunks).
//
// While the device commits a page internally it does not acknowledge any
// transaction. A failed one-byte read is therefore the busy signal, not an
// I/O error.
//
// # Shared Buses
//
// Other bus masters may move the address pointer between our transactions.
// Reads always re-establish the pointer explicitly before fetching data.
package protocol

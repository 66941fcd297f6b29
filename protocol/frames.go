package protocol

import (
	"encoding/binary"
	"fmt"
)

// Chunk is one page-bounded piece of a larger transfer.
type Chunk struct {
	// Address is the device byte offset of the first byte of the chunk
	Address int

	// Offset is the position of the chunk within the caller's buffer
	Offset int

	// Length is the number of data bytes in the chunk
	Length int
}

// BuildAddressFrame constructs the frame that positions the device address pointer.
//
// Frame structure:
//
//	[ADDR_H][ADDR_L]
func BuildAddressFrame(address int) ([]byte, error) {
	if err := checkAddress(address); err != nil {
		return nil, err
	}

	frame := make([]byte, AddressSize)
	binary.BigEndian.PutUint16(frame, uint16(address))
	return frame, nil
}

// BuildWriteFrame constructs a page write frame for data starting at address.
// The data must fit within the page containing address.
//
// Frame structure:
//
//	[ADDR_H][ADDR_L][DATA...]
//
// Returns the complete frame ready to send, or an error if validation fails.
func BuildWriteFrame(address int, data []byte, pageSize int) ([]byte, error) {
	if err := checkAddress(address); err != nil {
		return nil, err
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		return nil, fmt.Errorf("page size must be 1-%d bytes, got %d", MaxPageSize, pageSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("write frame needs at least one data byte")
	}

	room := pageSize - address%pageSize
	if len(data) > room {
		return nil, &PageBoundaryError{
			Address:  address,
			Length:   len(data),
			PageSize: pageSize,
		}
	}

	frame := make([]byte, AddressSize, AddressSize+len(data))
	binary.BigEndian.PutUint16(frame, uint16(address))
	frame = append(frame, data...)

	return frame, nil
}

// PageChunks splits a transfer of length bytes starting at address into
// chunks that never cross a page boundary. The first chunk is shortened to
// reach the next boundary and the last chunk carries the remainder.
//
// Example with a 32-byte page:
//
//	PageChunks(30, 40, 32) // {30,0,2} {32,2,32} {64,34,6}
func PageChunks(address, length, pageSize int) []Chunk {
	if length <= 0 || pageSize <= 0 {
		return nil
	}

	chunks := make([]Chunk, 0, length/pageSize+2)
	offset := 0
	for offset < length {
		n := pageSize - address%pageSize
		if n > length-offset {
			n = length - offset
		}
		chunks = append(chunks, Chunk{Address: address, Offset: offset, Length: n})
		address += n
		offset += n
	}

	return chunks
}

// checkAddress rejects offsets a two-byte address cannot express.
func checkAddress(address int) error {
	if address < 0 || address > MaxAddress {
		return &AddressError{Address: address, Max: MaxAddress}
	}
	return nil
}

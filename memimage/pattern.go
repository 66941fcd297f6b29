package memimage

import (
	"fmt"
	"strings"
)

// Pattern selects the contents used to fill an image.
type Pattern int

// Fill patterns.
const (
	// PatternZeros fills with 0x00
	PatternZeros Pattern = iota

	// PatternOnes fills with 0xFF
	PatternOnes

	// PatternIncrement fills each 256-byte chunk with an increasing value,
	// offset by +3 per chunk so that a dead or aliased page shows up on verify
	PatternIncrement

	// Pattern55 fills with 0x55 (b01010101)
	Pattern55

	// PatternAA fills with 0xAA (b10101010)
	PatternAA
)

// Increment pattern layout.
const (
	IncrementChunkSize = 256
	IncrementStep      = 3
)

// ParsePattern maps a pattern selector to a Pattern. The single-character
// selectors are 0, 1, 3, 5 and a; the names zeros, ones, increment, 55 and aa
// are accepted as well.
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(s) {
	case "0", "zeros", "0x00":
		return PatternZeros, nil
	case "1", "ones", "0xff":
		return PatternOnes, nil
	case "3", "increment", "inc":
		return PatternIncrement, nil
	case "5", "55", "0x55":
		return Pattern55, nil
	case "a", "aa", "0xaa":
		return PatternAA, nil
	default:
		return 0, fmt.Errorf("invalid fill pattern %q: use 0, 1, 3, 5 or a", s)
	}
}

// Value returns the constant fill byte and true, or false for PatternIncrement.
func (p Pattern) Value() (byte, bool) {
	switch p {
	case PatternZeros:
		return 0x00, true
	case PatternOnes:
		return 0xFF, true
	case Pattern55:
		return 0x55, true
	case PatternAA:
		return 0xAA, true
	default:
		return 0, false
	}
}

func (p Pattern) String() string {
	if p == PatternIncrement {
		return "Increment"
	}
	if v, ok := p.Value(); ok {
		return fmt.Sprintf("0x%02x", v)
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// Fill writes pattern p into img.
//
// For PatternIncrement the byte at offset o of chunk c is (o + 3*c) mod 256.
func Fill(img []byte, p Pattern) {
	if v, ok := p.Value(); ok {
		for i := range img {
			img[i] = v
		}
		return
	}

	for i := range img {
		chunk := i / IncrementChunkSize
		offset := i % IncrementChunkSize
		img[i] = byte(offset + chunk*IncrementStep)
	}
}

package memimage

import (
	"bufio"
	"fmt"
	"io"
)

// RowLength is the number of bytes per hex dump row.
const RowLength = 16

const hexHeader = "      00 01 02 03 04 05 06 07   08 09 0A 0B 0C 0D 0E 0F\n\n"

// HexDump renders img to w as rows of address, hex bytes and printable ASCII,
// the same layout as hexdump -C with a column header:
//
//	      00 01 02 03 04 05 06 07   08 09 0A 0B 0C 0D 0E 0F
//
//	0000  48 65 6C 6C 6F 00 FF 21   41 42 43 44 45 46 47 48  |Hello..! ABCDEFGH|
func HexDump(w io.Writer, img []byte) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(hexHeader); err != nil {
		return err
	}

	ascii := make([]byte, 0, RowLength+1)
	for address := 0; address < len(img); address += RowLength {
		fmt.Fprintf(bw, "%04X  ", address)

		ascii = ascii[:0]
		for lp := 0; lp < RowLength; lp++ {
			if lp == RowLength/2 {
				bw.WriteString("  ")
				ascii = append(ascii, ' ')
			}
			if address+lp >= len(img) {
				bw.WriteString("   ")
				continue
			}

			b := img[address+lp]
			fmt.Fprintf(bw, "%02X ", b)
			ascii = append(ascii, printable(b))
		}

		bw.WriteString(" |")
		bw.Write(ascii)
		bw.WriteString("|\n")
	}

	return bw.Flush()
}

func printable(b byte) byte {
	if b >= 0x20 && b < 0x7F {
		return b
	}
	return '.'
}

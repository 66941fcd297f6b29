// Package memimage handles in-memory EEPROM images: allocation, fill
// patterns, raw image files and hex dumps.
//
// # Image File Format
//
// An image file is a raw flat copy of the device contents, exactly one byte
// per device address, with no header or metadata. A file shorter than the
// device loads with the remainder zero-filled.
//
// # Usage
//
// Load an image for a 32K device:
//
//	geom, _ := protocol.GeometryFromKB(32, 64)
//	img, n, err := memimage.Load(afero.NewOsFs(), "dump.bin", geom)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if n < geom.Size {
//	    log.Printf("file smaller than EEPROM, remainder filled with 0x00")
//	}
//
// Prepare a test pattern and print it:
//
//	img := memimage.New(geom)
//	memimage.Fill(img, memimage.PatternIncrement)
//	_ = memimage.HexDump(os.Stdout, img)
package memimage

// Package eeprom provides a high-level API for programming I2C serial EEPROMs.
//
// # Overview
//
// This package drives the complete transfer sequence over a shared bus:
//   - Polling the device until its internal write cycle completes
//   - Positioning the device address pointer before every read
//   - Writing data in page-bounded frames with bounded retries
//   - Reading data in bounded chunks with bounded retries
//   - Filling, programming, reading and verifying whole devices
//
// # Basic Usage
//
// The simplest way to program a device:
//
//	// User provides the bus handle (io.ReadWriter bound to the device address)
//	handle, err := i2cdev.Open(i2cdev.DriverDevfs, "1", 0x51)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer handle.Close()
//
//	geom, _ := protocol.GeometryFromKB(32, 64)
//	prog, err := eeprom.New(handle, geom)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	img, _, err := memimage.Load(afero.NewOsFs(), "image.bin", geom)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := prog.Program(context.Background(), img); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
// Track transfer progress with a callback, invoked once per page:
//
//	prog, _ := eeprom.New(handle, geom,
//	    eeprom.WithProgressCallback(func(p eeprom.Progress) {
//	        fmt.Printf("[%s] %.1f%% - Page %d/%d\n",
//	            p.Phase, p.Percentage, p.Page, p.TotalPages)
//	    }),
//	)
//
// Transient bus failures are recovered locally and reported through
// WithRetryCallback; they never fail an operation on their own.
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	prog, _ := eeprom.New(handle, geom,
//	    eeprom.WithProgressCallback(progressFunc),
//	    eeprom.WithRetryCallback(retryFunc),
//	    eeprom.WithLogger(myLogger),
//	    eeprom.WithRetries(100),
//	    eeprom.WithRetryDelay(10*time.Microsecond),
//	    eeprom.WithPollAttempts(100),
//	    eeprom.WithMismatchLimit(10),
//	)
//
// # Context Support
//
// Operations take a context. It is checked between bus transactions; a
// transaction already on the wire always completes first.
//
// # Error Handling
//
// The package returns structured errors:
//   - protocol.ReadLengthError: read request above the 1K ceiling, no bus traffic
//   - protocol.AddressError: request outside the device
//   - protocol.TransferError: one failed raw transfer (wrapped by the next)
//   - protocol.RetriesExhaustedError: every attempt failed, the transfer is abandoned
//   - ImageSizeError: image length does not match the device
//
// Verify mismatches are data, not errors: see VerifyResult.
//
// # Hardware Independence
//
// This package does NOT open buses. Any io.ReadWriter bound to one device
// address works: the i2cdev drivers, the simulator, or a test double.
// Write must report the number of bytes acknowledged and Read the number of
// bytes received; short counts are treated as failed transfers.
package eeprom

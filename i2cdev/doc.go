// Package i2cdev opens bus handles for a single I2C device address.
//
// A handle is an io.ReadWriteCloser: Write issues one raw write transaction
// and Read issues one raw read transaction of len(p) bytes. Neither combines
// a write and a read into a repeated-start transfer, so the device's address
// pointer is set by a separate write, the way serial EEPROMs expect.
//
// Two drivers are available:
//
//   - DriverPeriph uses the periph.io host drivers and bus registry. The bus
//     is named the way periph names it ("1", "I2C1", or "" for the first bus).
//   - DriverDevfs uses the Linux i2c-dev character device /dev/i2c-<bus>
//     directly. It reports short transfers exactly as the kernel returns them.
//
// Example:
//
//	h, err := i2cdev.Open(i2cdev.DriverDevfs, "1", 0x50)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	prog, err := eeprom.New(h, protocol.DefaultGeometry())
package i2cdev

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/moffa90/go-i2ceeprom/eeprom"
)

var (
	errorMark = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow, color.Bold)
)

// printf writes one line to w.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf writes one highlighted warning line to w.
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	warnColor.Fprint(w, "Warning: ")
	printf(w, format, a...)
}

// markers prints the real-time progress markers: one dot per page and one E
// per transient bus error.
type markers struct {
	w io.Writer
}

func (m markers) progress(p eeprom.Progress) {
	if p.Phase == eeprom.PhaseComplete {
		return
	}
	//nolint:errcheck
	fmt.Fprint(m.w, ".")
}

func (m markers) retry(eeprom.RetryEvent) {
	//nolint:errcheck
	errorMark.Fprint(m.w, "E")
}

// verifyReport prints the verify outcome the way operators expect to read it.
func verifyReport(w io.Writer, result *eeprom.VerifyResult) {
	printf(w, "")
	for _, m := range result.Mismatches {
		printf(w, "Verify error at 0x%04x read 0x%02x, expect 0x%02x", m.Address, m.Actual, m.Expected)
	}
	if result.Truncated() {
		printf(w, "Ignoring other verify errors (%d in total)", result.Total)
	}

	if result.OK() {
		//nolint:errcheck
		okColor.Fprintln(w, "Verify OK")
		return
	}
	//nolint:errcheck
	errorMark.Fprintln(w, "Verify failed")
}

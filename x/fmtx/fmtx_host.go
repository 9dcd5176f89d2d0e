//go:build !(rp2040 || rp2350)

// Package fmtx is the firmware's printing shim: fmt-compatible signatures
// backed by a tiny formatter on MCU builds and by fmt itself on the host.
package fmtx

import (
	"fmt"
	"io"
	"os"
)

// DefaultOutput receives Print/Printf output.
var DefaultOutput io.Writer = os.Stdout

func Sprintf(format string, a ...any) string { return fmt.Sprintf(format, a...) }

func Printf(format string, a ...any) (int, error) {
	return fmt.Fprintf(DefaultOutput, format, a...)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return fmt.Fprintf(w, format, a...)
}

func Errorf(format string, a ...any) error { return fmt.Errorf(format, a...) }

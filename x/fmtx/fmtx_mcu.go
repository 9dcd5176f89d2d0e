//go:build rp2040 || rp2350

// Package fmtx is the firmware's printing shim: fmt-compatible signatures
// backed by a tiny formatter on MCU builds and by fmt itself on the host.
package fmtx

import "io"

// DefaultOutput receives Print/Printf output. Platform bootstrap points this
// at a console UART; until then output is discarded.
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func Sprintf(format string, a ...any) string { return sprintf(format, a...) }

func Printf(format string, a ...any) (int, error) {
	return io.WriteString(DefaultOutput, sprintf(format, a...))
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return io.WriteString(w, sprintf(format, a...))
}

func Errorf(format string, a ...any) error {
	return &stringError{sprintf(format, a...)}
}

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

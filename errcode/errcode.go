package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Sensor protocol outcomes.
	Timeout          Code = "timeout"
	ChecksumMismatch Code = "checksum_mismatch"
	// NoResponse is declared for taxonomy completeness; the single-wire
	// protocol cannot currently distinguish it from Timeout, so nothing
	// publishes it yet.
	NoResponse Code = "no_response"

	// Peripheral plumbing.
	BusFault  Code = "bus_fault"  // I2C/SPI transaction failed
	NotFitted Code = "not_fitted" // peripheral absent on this board

	Error Code = "error" // generic fallback
)

// E wraps a cause with its code and the operation that hit it. Services wrap
// driver errors in an E at the bus boundary; sinks resolve the code with Of.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

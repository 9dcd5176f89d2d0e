// Package dht11 provides a driver for the DHT11 single-wire temperature/
// humidity sensor.
//
// The DHT11 shares one line for both directions. The host requests a
// measurement by holding the line low for 20 ms, releases it, and the sensor
// answers with an 80 µs low / 80 µs high acknowledge followed by 40 data bits.
// Each bit starts with a ~50 µs low period; the length of the following high
// period encodes the value (~26-28 µs for 0, ~70 µs for 1). There is no
// hardware peripheral involved: the driver decodes the stream by polling the
// line with microsecond busy-waits and switching the pin between output and
// input at the protocol boundaries.
//
//	dev := dht11.New(line, delay)
//	r, err := dev.Read()
//
// Read blocks for the whole transaction (~25 ms worst case) and must not be
// preempted on its goroutine; see MinReadInterval for the pacing the sensor
// requires between transactions.
package dht11

import (
	"errors"
	"time"
)

// Line is the one bidirectional GPIO line the sensor hangs off. Mode switches
// are explicit: Set is only meaningful after ConfigureOutput, Get only after
// ConfigureInput. The line is expected to idle high when floating (an external
// pull-up or the pin's own).
type Line interface {
	// ConfigureOutput switches the line to push-pull output at the given level.
	ConfigureOutput(initial bool)
	// ConfigureInput releases the line so the sensor can drive it.
	ConfigureInput()
	Set(level bool)
	Get() bool
}

// DelayFunc busy-waits for at least us microseconds without yielding to the
// scheduler. The protocol windows are far below any scheduler's dispatch
// latency, so a sleeping implementation will corrupt the sampling.
type DelayFunc func(us uint32)

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("dht11: timeout waiting for signal")
	ErrChecksum = errors.New("dht11: checksum mismatch")
	// ErrNoResponse names the "sensor absent or unpowered" condition. The
	// protocol offers no signal that separates an absent sensor from a glitched
	// one: both surface as a failed bounded wait, i.e. ErrTimeout. The value is
	// kept so callers can reference the full taxonomy, but it is never returned.
	ErrNoResponse = errors.New("dht11: no response from sensor")
)

// MinReadInterval is the shortest spacing the sensor tolerates between the
// starts of two transactions. Back-to-back requests give unreliable answers;
// callers must pace Read at this interval or slower.
const MinReadInterval = 2 * time.Second

// Protocol timing, in microseconds. Fixed by the DHT11 datasheet; sensor
// variants with other timings are out of scope.
const (
	settleHighUS  = 10000 // idle-high before the request, stabilises the bus
	requestLowUS  = 20000 // host request pulse
	releaseHighUS = 30    // driven high before handing the line to the sensor
	inputWaitUS   = 40    // sensor reaction time after the release

	sampleDelayUS = 40 // strictly between the "0" high (~26-28 µs) and the "1" high (~70 µs)

	ackRetries = 200 // bound for each 80 µs acknowledge phase
	bitRetries = 100 // bound for each edge inside a bit period
	endRetries = 100 // bound for the end-of-frame low
)

// Reading is one decoded measurement. The sensor reports fixed-point values:
// an integral and a decimal (tenths) byte per channel. A Reading is only ever
// constructed from a frame whose checksum validated.
type Reading struct {
	HumidityIntegral    uint8 // %RH
	HumidityDecimal     uint8 // tenths of %RH
	TemperatureIntegral uint8 // °C
	TemperatureDecimal  uint8 // tenths of °C
}

// Humidity returns the relative humidity in %RH.
func (r Reading) Humidity() float32 {
	return float32(r.HumidityIntegral) + float32(r.HumidityDecimal)/10
}

// Temperature returns the temperature in °C.
func (r Reading) Temperature() float32 {
	return float32(r.TemperatureIntegral) + float32(r.TemperatureDecimal)/10
}

// DeciRelHumidity returns tenths of %RH.
func (r Reading) DeciRelHumidity() int32 {
	return int32(r.HumidityIntegral)*10 + int32(r.HumidityDecimal)
}

// DeciCelsius returns tenths of °C.
func (r Reading) DeciCelsius() int32 {
	return int32(r.TemperatureIntegral)*10 + int32(r.TemperatureDecimal)
}

// Device drives one DHT11. It owns the line for its lifetime; nothing else may
// touch the pin while a Device exists. Device has no internal locking: the
// single-owner rule is structural, one goroutine calls Read.
type Device struct {
	line  Line
	delay DelayFunc
}

// New wires a Device to its line and busy-wait source. It does not touch the
// hardware; the line is first driven on the first Read.
func New(line Line, delay DelayFunc) Device {
	return Device{line: line, delay: delay}
}

// Read performs exactly one transaction: request, acknowledge, 40-bit frame,
// checksum. There is no retry inside Read; a failed wait aborts the whole
// transaction. Whatever the outcome, the line is returned to driven idle-high
// so the next transaction starts from a known state.
func (d *Device) Read() (Reading, error) {
	frame, err := d.transfer()

	// Idle restoration happens on every path, including timeouts that left the
	// line floating mid-frame.
	d.line.ConfigureOutput(true)

	if err != nil {
		return Reading{}, err
	}
	return decodeFrame(frame)
}

// transfer runs the wire protocol and captures the raw 5-byte frame. The frame
// never leaves the package.
func (d *Device) transfer() ([5]byte, error) {
	var frame [5]byte

	// Idle: drive high to stabilise the bus.
	d.line.ConfigureOutput(true)
	d.delay(settleHighUS)

	// Host request: hold the line low for 20 ms.
	d.line.Set(false)
	d.delay(requestLowUS)

	// Release: a brief driven high, then the sensor owns the line.
	d.line.Set(true)
	d.delay(releaseHighUS)
	d.line.ConfigureInput()
	d.delay(inputWaitUS)

	// Acknowledge: ~80 µs low, then ~80 µs high announcing the data phase.
	if err := d.waitForLevel(false, ackRetries); err != nil {
		return frame, err
	}
	if err := d.waitForLevel(true, ackRetries); err != nil {
		return frame, err
	}

	// Data phase: humidity integral, humidity decimal, temperature integral,
	// temperature decimal, checksum.
	for i := range frame {
		b, err := d.readByte()
		if err != nil {
			return frame, err
		}
		frame[i] = b
	}

	// End of frame: the sensor pulls low once more before releasing the bus.
	if err := d.waitForLevel(false, endRetries); err != nil {
		return frame, err
	}
	return frame, nil
}

// readByte assembles eight bits MSB-first.
func (d *Device) readByte() (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := d.readBit()
		if err != nil {
			return 0, err
		}
		if bit {
			b |= 1 << (7 - i)
		}
	}
	return b, nil
}

// readBit waits out the ~50 µs low that starts every bit period, waits for the
// high phase, then samples after a delay that lands between the two possible
// high durations: still high means 1, already low means 0.
func (d *Device) readBit() (bool, error) {
	if err := d.waitForLevel(false, bitRetries); err != nil {
		return false, err
	}
	if err := d.waitForLevel(true, bitRetries); err != nil {
		return false, err
	}
	d.delay(sampleDelayUS)
	return d.line.Get(), nil
}

// waitForLevel polls the line until it reads target, pausing 1 µs between
// attempts. The first poll counts as an attempt: a line already at target
// succeeds without consuming a delay cycle. After maxRetries polls without a
// match the wait fails with ErrTimeout, bounding every protocol step to a
// known worst case.
func (d *Device) waitForLevel(target bool, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		if d.line.Get() == target {
			return nil
		}
		d.delay(1)
	}
	return ErrTimeout
}

// decodeFrame validates the checksum (8-bit wrapping sum of the four payload
// bytes) and constructs the Reading. No partial result escapes a bad frame.
func decodeFrame(f [5]byte) (Reading, error) {
	if f[0]+f[1]+f[2]+f[3] != f[4] {
		return Reading{}, ErrChecksum
	}
	return Reading{
		HumidityIntegral:    f[0],
		HumidityDecimal:     f[1],
		TemperatureIntegral: f[2],
		TemperatureDecimal:  f[3],
	}, nil
}

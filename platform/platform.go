// Package platform binds the firmware to the board it runs on. Each build
// target contributes a NewBoard implementation behind build tags: rp2040
// boards use the machine package, linux/arm64 single-board computers go
// through periph.io, and everything else gets a simulated board so the
// firmware can be exercised on a workstation.
package platform

import (
	"io"
	"time"

	"tinygo.org/x/drivers"

	"sensorboard-go/drivers/dht11"
)

// Pull selects the resistor wired to an input pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is one GPIO with a fixed direction for its lifetime. The sensor line is
// deliberately not a Pin: its runtime mode switching goes through dht11.Line.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Network is one access point seen during a scan.
type Network struct {
	SSID    string
	RSSI    int8
	Channel uint8
}

// WifiScanner is the board's radio, reduced to the one operation the firmware
// uses. Boards without a radio leave Board.Wifi nil.
type WifiScanner interface {
	Scan(max int) ([]Network, error)
}

// Board is the full set of peripherals the firmware wires at boot.
type Board struct {
	LED        Pin
	BootButton Pin

	// SensorLine is the DHT11 data line. Owned exclusively by the sensor
	// service once handed over.
	SensorLine dht11.Line

	// DisplayDC is the ST7789 data/command select. Reset and backlight run
	// through the I2C expander instead.
	DisplayDC Pin

	I2C drivers.I2C
	SPI drivers.SPI

	Wifi WifiScanner // nil when no radio is fitted

	// Console mirrors log output to a board UART when non-nil.
	Console io.Writer
}

// DelayMicroseconds busy-waits for at least us microseconds. The DHT11 timing
// windows (tens of µs) are far below scheduler dispatch latency, so this must
// never yield; it spins on the monotonic clock instead.
func DelayMicroseconds(us uint32) {
	deadline := time.Now().Add(time.Duration(us) * time.Microsecond)
	for time.Now().Before(deadline) {
	}
}

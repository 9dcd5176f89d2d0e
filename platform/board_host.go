//go:build !rp2040 && !(linux && arm64)

package platform

import (
	"time"

	"sensorboard-go/drivers/dht11"
)

// NewBoard assembles a fully simulated board: memory-backed pins, a synthetic
// DHT11 answering on the wall clock, an expander that reports idle keys and a
// canned Wi-Fi neighbourhood. It exists so the complete firmware, including
// the bit-banged sensor path, runs on a workstation.
func NewBoard() (*Board, error) {
	return &Board{
		LED:        &memPin{},
		BootButton: &memPin{level: true}, // active low, idle released
		SensorLine: &hostLine{},
		DisplayDC:  &memPin{},
		I2C:        hostI2C{},
		SPI:        hostSPI{},
		Wifi: cannedScanner{
			{SSID: "workbench", RSSI: -41, Channel: 6},
			{SSID: "lab-guest", RSSI: -67, Channel: 11},
		},
		Console: nil,
	}, nil
}

type memPin struct {
	level bool
	n     int
}

func (m *memPin) ConfigureInput(Pull) error       { return nil }
func (m *memPin) ConfigureOutput(init bool) error { m.level = init; return nil }
func (m *memPin) Set(level bool)                  { m.level = level }
func (m *memPin) Get() bool                       { return m.level }
func (m *memPin) Toggle()                         { m.level = !m.level }
func (m *memPin) Number() int                     { return m.n }

// hostLine replays a DHT11 waveform against the wall clock from the moment the
// host releases the line. The driver's busy-waits are real here, so timing
// jitter on a loaded machine occasionally produces a timeout or checksum
// failure, which is true to life.
type hostLine struct {
	output   bool
	driven   bool
	released time.Time
	script   []hostSegment
}

var _ dht11.Line = (*hostLine)(nil)

type hostSegment struct {
	level bool
	us    int64
}

func (l *hostLine) ConfigureOutput(initial bool) {
	l.output = true
	l.driven = initial
}

func (l *hostLine) ConfigureInput() {
	l.output = false
	l.released = time.Now()
	l.script = hostWaveform(syntheticFrame())
}

func (l *hostLine) Set(level bool) { l.driven = level }

func (l *hostLine) Get() bool {
	if l.output {
		return l.driven
	}
	t := time.Since(l.released).Microseconds()
	for _, seg := range l.script {
		if t < seg.us {
			return seg.level
		}
		t -= seg.us
	}
	return true
}

// syntheticFrame fabricates a plausible measurement that drifts over time.
func syntheticFrame() [5]byte {
	now := time.Now().Unix()
	hum := uint8(45 + now%10)
	tmp := uint8(20 + (now/60)%4)
	dec := uint8(now % 10)
	return [5]byte{hum, dec, tmp, dec, hum + dec + tmp + dec}
}

func hostWaveform(frame [5]byte) []hostSegment {
	segs := []hostSegment{{false, 80}, {true, 80}}
	for _, b := range frame {
		for i := 7; i >= 0; i-- {
			segs = append(segs, hostSegment{false, 50})
			if b>>uint(i)&1 == 1 {
				segs = append(segs, hostSegment{true, 70})
			} else {
				segs = append(segs, hostSegment{true, 27})
			}
		}
	}
	return append(segs, hostSegment{false, 50})
}

// hostI2C answers like an idle XL9555: all inputs high (keys released),
// writes accepted and forgotten.
type hostI2C struct{}

func (hostI2C) Tx(addr uint16, w, r []byte) error {
	for i := range r {
		r[i] = 0xFF
	}
	return nil
}

// hostSPI swallows display traffic.
type hostSPI struct{}

func (hostSPI) Tx(w, r []byte) error {
	for i := range r {
		r[i] = 0
	}
	return nil
}

func (hostSPI) Transfer(b byte) (byte, error) { return 0, nil }

type cannedScanner []Network

func (c cannedScanner) Scan(max int) ([]Network, error) {
	if max > 0 && len(c) > max {
		c = c[:max]
	}
	return []Network(c), nil
}

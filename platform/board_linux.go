//go:build linux && arm64 && !rp2040

package platform

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"sensorboard-go/drivers/dht11"
)

// GPIO names for the Raspberry Pi header wiring.
const (
	lineSensor = "GPIO4"
	lineButton = "GPIO22"
	lineLED    = "GPIO17"
	lineLCDDC  = "GPIO25"
)

// NewBoard initialises periph.io and opens the default I2C and SPI buses.
// Timing caveat: a busy-waited single-wire read on a non-realtime kernel is
// best effort; a preemption inside the 40-bit frame surfaces as a timeout and
// is retried on the next cycle.
func NewBoard() (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	i2cBus, err := i2creg.Open("")
	if err != nil {
		return nil, err
	}
	spiPort, err := spireg.Open("")
	if err != nil {
		return nil, err
	}
	spiConn, err := spiPort.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	led, err := pinByName(lineLED)
	if err != nil {
		return nil, err
	}
	button, err := pinByName(lineButton)
	if err != nil {
		return nil, err
	}
	dc, err := pinByName(lineLCDDC)
	if err != nil {
		return nil, err
	}
	sensor := gpioreg.ByName(lineSensor)
	if sensor == nil {
		return nil, errors.New("platform: " + lineSensor + " not found")
	}

	return &Board{
		LED:        led,
		BootButton: button,
		SensorLine: &periphLine{p: sensor},
		DisplayDC:  dc,
		I2C:        i2cBus,
		SPI:        &periphSPI{c: spiConn},
		Wifi:       nil, // scanning the host radio is not wired up
		Console:    nil, // stdout is the console on linux
	}, nil
}

func pinByName(name string) (*periphPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.New("platform: " + name + " not found")
	}
	return &periphPin{p: p}, nil
}

type periphPin struct {
	p gpio.PinIO
}

func (g *periphPin) ConfigureInput(pull Pull) error {
	pp := gpio.Float
	switch pull {
	case PullUp:
		pp = gpio.PullUp
	case PullDown:
		pp = gpio.PullDown
	}
	return g.p.In(pp, gpio.NoEdge)
}

func (g *periphPin) ConfigureOutput(initial bool) error {
	return g.p.Out(gpio.Level(initial))
}

func (g *periphPin) Set(level bool) { _ = g.p.Out(gpio.Level(level)) }
func (g *periphPin) Get() bool      { return g.p.Read() == gpio.High }
func (g *periphPin) Toggle()        { g.Set(!g.Get()) }
func (g *periphPin) Number() int    { return g.p.Number() }

type periphLine struct {
	p gpio.PinIO
}

var _ dht11.Line = (*periphLine)(nil)

func (l *periphLine) ConfigureOutput(initial bool) {
	_ = l.p.Out(gpio.Level(initial))
}

func (l *periphLine) ConfigureInput() {
	_ = l.p.In(gpio.PullUp, gpio.NoEdge)
}

func (l *periphLine) Set(level bool) { _ = l.p.Out(gpio.Level(level)) }
func (l *periphLine) Get() bool      { return l.p.Read() == gpio.High }

// periphSPI adapts a periph spi.Conn to the tinygo drivers.SPI shape.
type periphSPI struct {
	c spi.Conn
}

func (s *periphSPI) Tx(w, r []byte) error {
	if r == nil {
		r = make([]byte, len(w))
	}
	if w == nil {
		w = make([]byte, len(r))
	}
	return s.c.Tx(w, r)
}

func (s *periphSPI) Transfer(b byte) (byte, error) {
	var out [1]byte
	if err := s.c.Tx([]byte{b}, out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}

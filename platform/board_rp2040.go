//go:build rp2040

package platform

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"sensorboard-go/drivers/dht11"
)

// Pin assignment for the Pico carrier board.
const (
	pinSensor  = machine.GP16 // DHT11 data line
	pinButton  = machine.GP22 // user button, active low
	pinLCDDC   = machine.GP20 // ST7789 data/command
	pinI2CSDA  = machine.GP4
	pinI2CSCL  = machine.GP5
	pinSPISCK  = machine.GP2
	pinSPISDO  = machine.GP3
	consoleBPS = 115200
)

// NewBoard configures the Pico peripherals: I2C0 for the XL9555 expander,
// SPI0 for the display, UART1 as the console mirror.
func NewBoard() (*Board, error) {
	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: pinI2CSDA,
		SCL: pinI2CSCL,
	}); err != nil {
		return nil, err
	}

	if err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 10_000_000,
		Mode:      0,
		SCK:       pinSPISCK,
		SDO:       pinSPISDO,
	}); err != nil {
		return nil, err
	}

	console := uartx.UART1
	if err := console.Configure(uartx.UARTConfig{
		BaudRate: consoleBPS,
		TX:       uartx.UART1_TX_PIN,
		RX:       uartx.UART1_RX_PIN,
	}); err != nil {
		return nil, err
	}

	return &Board{
		LED:        &rp2Pin{p: machine.LED, n: int(machine.LED)},
		BootButton: &rp2Pin{p: pinButton, n: int(pinButton)},
		SensorLine: &rp2Line{p: pinSensor},
		DisplayDC:  &rp2Pin{p: pinLCDDC, n: int(pinLCDDC)},
		I2C:        machine.I2C0,
		SPI:        machine.SPI0,
		Wifi:       nil, // no radio on this carrier
		Console:    console,
	}, nil
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	mode := machine.PinInput
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Toggle() {
	r.p.Set(!r.p.Get())
}
func (r *rp2Pin) Number() int { return r.n }

// rp2Line is the DHT11 data line: one pin switched between push-pull output
// and pulled-up input at protocol boundaries.
type rp2Line struct {
	p machine.Pin
}

var _ dht11.Line = (*rp2Line)(nil)

func (l *rp2Line) ConfigureOutput(initial bool) {
	l.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	l.p.Set(initial)
}

func (l *rp2Line) ConfigureInput() {
	// Internal pull-up keeps the released line at idle-high between the
	// sensor's driven phases.
	l.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (l *rp2Line) Set(level bool) { l.p.Set(level) }
func (l *rp2Line) Get() bool      { return l.p.Get() }

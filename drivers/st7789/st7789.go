// Package st7789 provides a driver for the ST7789 SPI display controller.
// It covers what this firmware draws: panel bring-up and rectangle fills in
// RGB565. On this board only the data/command select is a direct GPIO; reset
// and backlight arrive through the I2C expander, so the driver takes plain
// pin functions rather than pin objects.
package st7789

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Command set (the subset this driver issues).
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVON   = 0x21
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

var ErrOutOfBounds = errors.New("st7789: rectangle out of bounds")

// Color is one RGB565 pixel.
type Color uint16

// RGB565 packs 8-bit channels into a Color.
func RGB565(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

const (
	Black = Color(0x0000)
	White = Color(0xFFFF)
)

// PinFunc drives one control line.
type PinFunc func(level bool)

// Config carries the panel geometry. Zero values select 240x320.
type Config struct {
	Width  int16
	Height int16
}

// Device wraps an SPI connection to an ST7789 panel.
type Device struct {
	spi drivers.SPI
	dc  PinFunc // low = command, high = data
	rst PinFunc // low = in reset
	bl  PinFunc // backlight switch

	width  int16
	height int16
	row    []byte // one scanline of pixel bytes for fills
}

// New creates a driver over a configured SPI bus. Nothing is sent to the
// panel until Configure.
func New(spi drivers.SPI, dc, rst, bl PinFunc) Device {
	return Device{spi: spi, dc: dc, rst: rst, bl: bl}
}

// Configure resets the panel and runs the init sequence: sleep-out, 16bpp,
// inversion on (these panels ship inverted), normal mode, display on,
// backlight up.
func (d *Device) Configure(cfgs ...Config) error {
	cfg := Config{}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Width == 0 {
		cfg.Width = 240
	}
	if cfg.Height == 0 {
		cfg.Height = 320
	}
	d.width, d.height = cfg.Width, cfg.Height
	d.row = make([]byte, int(d.width)*2)

	// Hardware reset through the expander, then a software reset for good
	// measure on panels with the reset line strapped.
	d.rst(false)
	time.Sleep(10 * time.Millisecond)
	d.rst(true)
	time.Sleep(120 * time.Millisecond)

	if err := d.command(cmdSWRESET); err != nil {
		return err
	}
	time.Sleep(150 * time.Millisecond)

	if err := d.command(cmdSLPOUT); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)

	if err := d.command(cmdMADCTL, 0x00); err != nil {
		return err
	}
	if err := d.command(cmdCOLMOD, 0x55); err != nil { // 16 bits per pixel
		return err
	}
	if err := d.command(cmdINVON); err != nil {
		return err
	}
	if err := d.command(cmdNORON); err != nil {
		return err
	}
	if err := d.command(cmdDISPON); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)

	d.bl(true)
	return nil
}

// Size returns the panel geometry.
func (d *Device) Size() (w, h int16) { return d.width, d.height }

// SetBacklight switches the backlight without touching the panel state.
func (d *Device) SetBacklight(on bool) { d.bl(on) }

// FillScreen paints the whole panel.
func (d *Device) FillScreen(c Color) error {
	return d.FillRectangle(0, 0, d.width, d.height, c)
}

// FillRectangle paints a solid w x h block at (x, y).
func (d *Device) FillRectangle(x, y, w, h int16, c Color) error {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > d.width || y+h > d.height {
		return ErrOutOfBounds
	}
	if err := d.setWindow(x, y, w, h); err != nil {
		return err
	}

	line := d.row[:int(w)*2]
	for i := 0; i < len(line); i += 2 {
		line[i] = byte(c >> 8)
		line[i+1] = byte(c)
	}
	d.dc(true)
	for i := int16(0); i < h; i++ {
		if err := d.spi.Tx(line, nil); err != nil {
			return err
		}
	}
	return nil
}

// setWindow selects the drawing region and opens a RAM write.
func (d *Device) setWindow(x, y, w, h int16) error {
	x1 := x + w - 1
	y1 := y + h - 1
	if err := d.command(cmdCASET, byte(uint16(x)>>8), byte(x), byte(uint16(x1)>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.command(cmdRASET, byte(uint16(y)>>8), byte(y), byte(uint16(y1)>>8), byte(y1)); err != nil {
		return err
	}
	return d.command(cmdRAMWR)
}

// command sends one command byte and its arguments with the DC line tracking
// the command/data phases.
func (d *Device) command(cmd byte, args ...byte) error {
	d.dc(false)
	if err := d.spi.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	d.dc(true)
	return d.spi.Tx(args, nil)
}

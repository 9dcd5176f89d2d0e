// Package xl9555 provides a driver for the XL9555 16-bit I2C GPIO expander,
// which carries this board's keypad, the display reset/backlight lines and a
// handful of power switches. Pins are addressed as a 16-bit mask: P0.0-P0.7
// in the low byte, P1.0-P1.7 in the high byte.
//
// The output latch is shadowed in the Device so single-pin updates don't need
// a read-modify-write over the bus.
package xl9555

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the expander's 7-bit I2C address with A0..A2 strapped low.
const Address = 0x20

// Register map.
const (
	regInputPort0  = 0x00
	regInputPort1  = 0x01
	regOutputPort0 = 0x02
	regOutputPort1 = 0x03
	regConfigPort0 = 0x06
	regConfigPort1 = 0x07
)

// Board wiring of the expander pins.
const (
	PinSpeakerEnable uint16 = 1 << 2  // P0.2
	PinBeep          uint16 = 1 << 3  // P0.3
	PinLCDBacklight  uint16 = 1 << 8  // P1.0
	PinTouchReset    uint16 = 1 << 9  // P1.1
	PinLCDReset      uint16 = 1 << 10 // P1.2
	PinLCDPower      uint16 = 1 << 11 // P1.3
	PinKey3          uint16 = 1 << 12 // P1.4
	PinKey2          uint16 = 1 << 13 // P1.5
	PinKey1          uint16 = 1 << 14 // P1.6
	PinKey0          uint16 = 1 << 15 // P1.7
)

// KeyMask covers the four keypad inputs, active low.
const KeyMask = PinKey0 | PinKey1 | PinKey2 | PinKey3

// DefaultDirections marks the keypad and the two interrupt inputs (P0.0,
// P0.1) as inputs, everything else as outputs. A set bit means input.
const DefaultDirections uint16 = KeyMask | 0x0003

var ErrShortRead = errors.New("xl9555: short read")

// Device wraps an I2C connection to an XL9555.
type Device struct {
	bus     drivers.I2C
	Address uint16

	shadow uint16 // output latch, kept in sync with the part
	buf    [3]byte
}

// New creates a connection to an expander. The I2C bus must already be
// configured; the device itself is untouched until Configure.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure programs the direction registers and raises every output,
// matching the part's power-on latch state.
func (d *Device) Configure(directions uint16) error {
	d.buf[0] = regConfigPort0
	d.buf[1] = byte(directions)
	d.buf[2] = byte(directions >> 8)
	if err := d.bus.Tx(d.Address, d.buf[:3], nil); err != nil {
		return err
	}
	d.shadow = 0xFFFF
	return d.writeOutputs()
}

// ReadInputs samples all 16 pins. Input-configured pins report the line
// level; output pins read back the latch.
func (d *Device) ReadInputs() (uint16, error) {
	var p0, p1 [1]byte
	if err := d.bus.Tx(d.Address, []byte{regInputPort0}, p0[:]); err != nil {
		return 0, err
	}
	if err := d.bus.Tx(d.Address, []byte{regInputPort1}, p1[:]); err != nil {
		return 0, err
	}
	return uint16(p1[0])<<8 | uint16(p0[0]), nil
}

// SetPins updates the masked output pins to high or low and writes the new
// latch to the part.
func (d *Device) SetPins(mask uint16, high bool) error {
	if high {
		d.shadow |= mask
	} else {
		d.shadow &^= mask
	}
	return d.writeOutputs()
}

// Outputs returns the shadowed latch value.
func (d *Device) Outputs() uint16 { return d.shadow }

func (d *Device) writeOutputs() error {
	d.buf[0] = regOutputPort0
	d.buf[1] = byte(d.shadow)
	d.buf[2] = byte(d.shadow >> 8)
	return d.bus.Tx(d.Address, d.buf[:3], nil)
}

// SetBacklight drives the display backlight switch.
func (d *Device) SetBacklight(on bool) error {
	return d.SetPins(PinLCDBacklight, on)
}

// SetLCDReset drives the display reset line (low = in reset).
func (d *Device) SetLCDReset(high bool) error {
	return d.SetPins(PinLCDReset, high)
}

// SetLCDPower switches the display supply.
func (d *Device) SetLCDPower(on bool) error {
	return d.SetPins(PinLCDPower, on)
}

// Keys decodes the keypad bits from a ReadInputs value. Keys are wired
// active low; index 0 is KEY0.
func Keys(inputs uint16) [4]bool {
	return [4]bool{
		inputs&PinKey0 == 0,
		inputs&PinKey1 == 0,
		inputs&PinKey2 == 0,
		inputs&PinKey3 == 0,
	}
}

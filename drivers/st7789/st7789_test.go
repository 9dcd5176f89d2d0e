package st7789

import (
	"testing"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.SPI = (*recordingSPI)(nil)

// recordingSPI captures the byte stream split into command/data records by
// tracking the DC line.
type recordingSPI struct {
	dc      bool
	rst     []bool
	bl      []bool
	records []record
}

type record struct {
	cmd  bool
	data []byte
}

func (r *recordingSPI) Tx(w, ro []byte) error {
	r.records = append(r.records, record{cmd: !r.dc, data: append([]byte(nil), w...)})
	return nil
}

func (r *recordingSPI) Transfer(b byte) (byte, error) {
	_ = r.Tx([]byte{b}, nil)
	return 0, nil
}

func (r *recordingSPI) device() Device {
	return New(r,
		func(l bool) { r.dc = l },
		func(l bool) { r.rst = append(r.rst, l) },
		func(l bool) { r.bl = append(r.bl, l) },
	)
}

// commands lists the command bytes sent, in order.
func (r *recordingSPI) commands() []byte {
	var out []byte
	for _, rec := range r.records {
		if rec.cmd && len(rec.data) == 1 {
			out = append(out, rec.data[0])
		}
	}
	return out
}

func TestConfigureInitSequence(t *testing.T) {
	spi := &recordingSPI{}
	dev := spi.device()

	if err := dev.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}

	want := []byte{cmdSWRESET, cmdSLPOUT, cmdMADCTL, cmdCOLMOD, cmdINVON, cmdNORON, cmdDISPON}
	got := spi.commands()
	if len(got) != len(want) {
		t.Fatalf("commands = %x (want %x)", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("command[%d] = %#x (want %#x)", i, got[i], want[i])
		}
	}

	// Reset pulsed low then high, backlight ended on.
	if len(spi.rst) != 2 || spi.rst[0] || !spi.rst[1] {
		t.Errorf("reset sequence = %v", spi.rst)
	}
	if len(spi.bl) != 1 || !spi.bl[0] {
		t.Errorf("backlight sequence = %v", spi.bl)
	}

	if w, h := dev.Size(); w != 240 || h != 320 {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestFillRectangleWindowAndPayload(t *testing.T) {
	spi := &recordingSPI{}
	dev := spi.device()
	if err := dev.Configure(Config{Width: 240, Height: 320}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	spi.records = nil

	const x, y, w, h = 10, 20, 16, 4
	if err := dev.FillRectangle(x, y, w, h, RGB565(0xFF, 0x00, 0x00)); err != nil {
		t.Fatalf("fill: %v", err)
	}

	// CASET x..x+w-1, RASET y..y+h-1, RAMWR, then h data lines of w pixels.
	var caset, raset []byte
	var lines int
	for i, rec := range spi.records {
		switch {
		case rec.cmd && len(rec.data) == 1 && rec.data[0] == cmdCASET && i+1 < len(spi.records):
			caset = spi.records[i+1].data
		case rec.cmd && len(rec.data) == 1 && rec.data[0] == cmdRASET && i+1 < len(spi.records):
			raset = spi.records[i+1].data
		case !rec.cmd && len(rec.data) == w*2:
			lines++
		}
	}
	wantCaset := []byte{0, x, 0, x + w - 1}
	wantRaset := []byte{0, y, 0, y + h - 1}
	if string(caset) != string(wantCaset) {
		t.Errorf("CASET args = %v (want %v)", caset, wantCaset)
	}
	if string(raset) != string(wantRaset) {
		t.Errorf("RASET args = %v (want %v)", raset, wantRaset)
	}
	if lines != h {
		t.Errorf("data lines = %d (want %d)", lines, h)
	}
}

func TestFillRectangleBounds(t *testing.T) {
	spi := &recordingSPI{}
	dev := spi.device()
	if err := dev.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}

	for _, c := range [][4]int16{
		{-1, 0, 10, 10},
		{0, 0, 241, 1},
		{230, 0, 20, 10},
		{0, 315, 1, 10},
		{0, 0, 0, 10},
	} {
		if err := dev.FillRectangle(c[0], c[1], c[2], c[3], Black); err != ErrOutOfBounds {
			t.Errorf("FillRectangle(%v) err = %v (want ErrOutOfBounds)", c, err)
		}
	}
}

func TestRGB565Packing(t *testing.T) {
	if c := RGB565(0xFF, 0xFF, 0xFF); c != White {
		t.Errorf("white = %#x", uint16(c))
	}
	if c := RGB565(0, 0, 0); c != Black {
		t.Errorf("black = %#x", uint16(c))
	}
	if c := RGB565(0xFF, 0, 0); c != 0xF800 {
		t.Errorf("red = %#x", uint16(c))
	}
	if c := RGB565(0, 0xFF, 0); c != 0x07E0 {
		t.Errorf("green = %#x", uint16(c))
	}
	if c := RGB565(0, 0, 0xFF); c != 0x001F {
		t.Errorf("blue = %#x", uint16(c))
	}
}

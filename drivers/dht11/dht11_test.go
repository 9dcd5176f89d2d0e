package dht11

import (
	"errors"
	"testing"
)

// Compile-time check.
var _ Line = (*simLine)(nil)

// segment is one stretch of the sensor's scripted waveform.
type segment struct {
	level bool
	us    uint64
}

// simLine replays a scripted sensor waveform against a virtual microsecond
// clock. The clock only advances through the injected delay func, so the
// driver's own busy-waits are what move time forward, exactly as on hardware.
type simLine struct {
	nowUS uint64

	output bool // current mode: true = driven by host
	driven bool // level while output

	script    []segment // sensor waveform, relative to the release instant
	released  bool
	releaseUS uint64

	polls int // Get calls while in input mode
}

func (s *simLine) delay(us uint32) { s.nowUS += uint64(us) }

func (s *simLine) ConfigureOutput(initial bool) {
	s.output = true
	s.driven = initial
	s.released = false
}

func (s *simLine) ConfigureInput() {
	s.output = false
	s.released = true
	s.releaseUS = s.nowUS
}

func (s *simLine) Set(level bool) { s.driven = level }

func (s *simLine) Get() bool {
	if s.output {
		return s.driven
	}
	s.polls++
	t := s.nowUS - s.releaseUS
	for _, seg := range s.script {
		if t < seg.us {
			return seg.level
		}
		t -= seg.us
	}
	return true // script exhausted: pull-up idles the line high
}

// waveform builds the full sensor response for a frame: acknowledge, 40 bits,
// end-of-frame low.
func waveform(frame [5]byte) []segment {
	segs := []segment{{false, 80}, {true, 80}}
	for _, b := range frame {
		for i := 7; i >= 0; i-- {
			segs = append(segs, segment{false, 50})
			if b>>uint(i)&1 == 1 {
				segs = append(segs, segment{true, 70})
			} else {
				segs = append(segs, segment{true, 27})
			}
		}
	}
	return append(segs, segment{false, 50})
}

func checksum(p [4]byte) byte { return p[0] + p[1] + p[2] + p[3] }

func TestReadDecodesFrame(t *testing.T) {
	// 50.0 %RH, 21.0 °C; 0x32+0x00+0x15+0x00 = 0x47.
	line := &simLine{script: waveform([5]byte{0x32, 0x00, 0x15, 0x00, 0x47})}
	dev := New(line, line.delay)

	r, err := dev.Read()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if r.HumidityIntegral != 0x32 || r.HumidityDecimal != 0 ||
		r.TemperatureIntegral != 0x15 || r.TemperatureDecimal != 0 {
		t.Fatalf("reading fields = %+v", r)
	}
	if r.Humidity() != 50.0 {
		t.Errorf("humidity = %v (want 50.0)", r.Humidity())
	}
	if r.Temperature() != 21.0 {
		t.Errorf("temperature = %v (want 21.0)", r.Temperature())
	}
	assertIdleHigh(t, line)
}

func TestReadChecksumMismatch(t *testing.T) {
	// Same payload, checksum off by one.
	line := &simLine{script: waveform([5]byte{0x32, 0x00, 0x15, 0x00, 0x48})}
	dev := New(line, line.delay)

	if _, err := dev.Read(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v (want ErrChecksum)", err)
	}
	assertIdleHigh(t, line)
}

func TestReadBitPatterns(t *testing.T) {
	// Exercise all-ones, all-zeros and alternating bytes through the bit
	// decoder, including a wrapping checksum.
	payloads := [][4]byte{
		{0x00, 0x00, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF, 0xFF}, // checksum wraps to 0xFC
		{0xAA, 0x55, 0xA5, 0x5A},
		{0x01, 0x80, 0x7F, 0xFE},
	}
	for _, p := range payloads {
		frame := [5]byte{p[0], p[1], p[2], p[3], checksum(p)}
		line := &simLine{script: waveform(frame)}
		dev := New(line, line.delay)

		r, err := dev.Read()
		if err != nil {
			t.Fatalf("payload %x: read error: %v", p, err)
		}
		got := [4]byte{r.HumidityIntegral, r.HumidityDecimal, r.TemperatureIntegral, r.TemperatureDecimal}
		if got != p {
			t.Errorf("payload %x: decoded %x", p, got)
		}
	}
}

func TestDecodeFrameRejectsBadChecksum(t *testing.T) {
	for _, p := range [][4]byte{{1, 2, 3, 4}, {0xFF, 0, 0xFF, 0}, {9, 9, 9, 9}} {
		good := checksum(p)
		if _, err := decodeFrame([5]byte{p[0], p[1], p[2], p[3], good}); err != nil {
			t.Errorf("payload %x: valid frame rejected: %v", p, err)
		}
		if _, err := decodeFrame([5]byte{p[0], p[1], p[2], p[3], good + 1}); !errors.Is(err, ErrChecksum) {
			t.Errorf("payload %x: corrupt frame accepted", p)
		}
	}
}

func TestNoAcknowledgeTimesOut(t *testing.T) {
	// Empty script: the line just idles high after release, as with no sensor
	// fitted. The ack wait must fail after its bounded retries, not hang.
	line := &simLine{}
	dev := New(line, line.delay)

	if _, err := dev.Read(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v (want ErrTimeout)", err)
	}
	assertIdleHigh(t, line)
}

func TestTimeoutMidFrame(t *testing.T) {
	// Acknowledge plus three bits, then silence. The byte read must abort with
	// ErrTimeout and no partial reading may escape.
	script := []segment{{false, 80}, {true, 80}}
	for i := 0; i < 3; i++ {
		script = append(script, segment{false, 50}, segment{true, 70})
	}
	line := &simLine{script: script}
	dev := New(line, line.delay)

	r, err := dev.Read()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v (want ErrTimeout)", err)
	}
	if r != (Reading{}) {
		t.Errorf("partial reading returned: %+v", r)
	}
	assertIdleHigh(t, line)
}

func TestWaitForLevelBoundedPolls(t *testing.T) {
	// A line stuck at the wrong level: the wait must poll exactly maxRetries
	// times and then fail.
	line := &simLine{} // input script empty -> always high
	line.ConfigureInput()
	dev := New(line, line.delay)

	const retries = 37
	if err := dev.waitForLevel(false, retries); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v (want ErrTimeout)", err)
	}
	if line.polls != retries {
		t.Errorf("polls = %d (want %d)", line.polls, retries)
	}

	// A line already at target succeeds on the first poll with no delay spent.
	line.polls = 0
	before := line.nowUS
	if err := dev.waitForLevel(true, retries); err != nil {
		t.Fatalf("immediate match failed: %v", err)
	}
	if line.polls != 1 || line.nowUS != before {
		t.Errorf("immediate match: polls = %d, elapsed = %dus", line.polls, line.nowUS-before)
	}
}

func TestPhysicalValueConversion(t *testing.T) {
	for integral := 0; integral <= 99; integral++ {
		for decimal := 0; decimal <= 9; decimal++ {
			r := Reading{
				HumidityIntegral:    uint8(integral),
				HumidityDecimal:     uint8(decimal),
				TemperatureIntegral: uint8(integral),
				TemperatureDecimal:  uint8(decimal),
			}
			want := float32(integral) + float32(decimal)/10
			if r.Humidity() != want {
				t.Fatalf("humidity(%d.%d) = %v", integral, decimal, r.Humidity())
			}
			if r.Temperature() != want {
				t.Fatalf("temperature(%d.%d) = %v", integral, decimal, r.Temperature())
			}
			wantDeci := int32(integral)*10 + int32(decimal)
			if r.DeciRelHumidity() != wantDeci || r.DeciCelsius() != wantDeci {
				t.Fatalf("deci(%d.%d) = %d/%d", integral, decimal, r.DeciRelHumidity(), r.DeciCelsius())
			}
		}
	}
}

func assertIdleHigh(t *testing.T, line *simLine) {
	t.Helper()
	if !line.output || !line.driven {
		t.Errorf("line not restored to driven idle-high: output=%v level=%v", line.output, line.driven)
	}
}

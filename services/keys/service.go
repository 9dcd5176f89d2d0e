// Package keys polls the board's push buttons: the four keypad keys behind
// the XL9555 expander and the boot button on a direct GPIO. Presses are
// edge-detected, a held key fires once. KEY1 doubles as the display
// backlight toggle, matching the board's silkscreen.
package keys

import (
	"context"
	"time"

	"sensorboard-go/bus"
	"sensorboard-go/drivers/xl9555"
	"sensorboard-go/errcode"
	"sensorboard-go/platform"
	"sensorboard-go/types"
	"sensorboard-go/x/fmtx"
)

var keyNames = [4]string{"key0", "key1", "key2", "key3"}

var topicBacklight = bus.T("display", string(types.KindBacklight), "value")

func topicKey(name string) bus.Topic {
	return bus.T("input", name, "event")
}

// Config tunes the poll cadence. Zero selects 50 ms.
type Config struct {
	Poll time.Duration
}

type Service struct {
	cfg  Config
	exp  *xl9555.Device
	boot platform.Pin

	prev      [4]bool
	prevBoot  bool
	backlight bool
}

// New wires the service to the expander and the boot button pin. The button
// pin must already be configured as a pulled-up input.
func New(exp *xl9555.Device, boot platform.Pin, cfg Config) *Service {
	if cfg.Poll <= 0 {
		cfg.Poll = 50 * time.Millisecond
	}
	return &Service{cfg: cfg, exp: exp, boot: boot, backlight: true}
}

func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.loop(ctx, conn)
	return nil
}

func (s *Service) loop(ctx context.Context, conn *bus.Connection) {
	tick := time.NewTicker(s.cfg.Poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: keys stopping\n")
			return
		case <-tick.C:
			s.scanOnce(conn)
		}
	}
}

// scanOnce samples every button and publishes press/release transitions.
func (s *Service) scanOnce(conn *bus.Connection) {
	inputs, err := s.exp.ReadInputs()
	if err != nil {
		fmtx.Printf("Warn: %v\n", &errcode.E{C: errcode.BusFault, Op: "keys.scan", Err: err})
		return
	}

	current := xl9555.Keys(inputs)
	for i, pressed := range current {
		if pressed == s.prev[i] {
			continue
		}
		conn.Publish(&bus.Message{
			Topic:   topicKey(keyNames[i]),
			Payload: types.ButtonValue{Pressed: pressed},
		})
		if pressed {
			fmtx.Printf("Info: %s pressed\n", keyNames[i])
		}
		if i == 1 && pressed {
			s.toggleBacklight(conn)
		}
	}
	s.prev = current

	if s.boot != nil {
		// Boot button is active low.
		pressed := !s.boot.Get()
		if pressed != s.prevBoot {
			conn.Publish(&bus.Message{
				Topic:   topicKey("boot"),
				Payload: types.ButtonValue{Pressed: pressed},
			})
			if pressed {
				fmtx.Printf("Info: boot pressed\n")
			}
			s.prevBoot = pressed
		}
	}
}

func (s *Service) toggleBacklight(conn *bus.Connection) {
	s.backlight = !s.backlight
	if err := s.exp.SetBacklight(s.backlight); err != nil {
		fmtx.Printf("Warn: %v\n", &errcode.E{C: errcode.BusFault, Op: "keys.backlight", Err: err})
		s.backlight = !s.backlight
		return
	}
	conn.Publish(&bus.Message{
		Topic:    topicBacklight,
		Payload:  types.BacklightValue{On: s.backlight},
		Retained: true,
	})
	fmtx.Printf("Info: backlight %v\n", types.BacklightValue{On: s.backlight})
}

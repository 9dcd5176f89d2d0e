// Package display drives the ST7789 status panel. It has no data of its own:
// it subscribes to the environment topics and renders the latest reading as
// horizontal bars, plus a corner marker while the sensor is failing. Bus
// retention means a late panel start still shows the current values.
package display

import (
	"context"

	"sensorboard-go/bus"
	"sensorboard-go/drivers/st7789"
	"sensorboard-go/types"
	"sensorboard-go/x/fmtx"
	"sensorboard-go/x/mathx"
)

// Bar geometry and full-scale values (tenths): 50.0 °C and 100.0 %RH.
const (
	barHeight       = 24
	tempY           = 40
	humidityY       = 100
	fullScaleTemp   = 500
	fullScaleHum    = 1000
	faultMarkerSize = 12
)

var (
	colorTemp  = st7789.RGB565(0xE0, 0x40, 0x20)
	colorHum   = st7789.RGB565(0x20, 0x60, 0xE0)
	colorFault = st7789.RGB565(0xE0, 0xC0, 0x00)
)

type Service struct {
	panel *st7789.Device
}

func New(panel *st7789.Device) *Service {
	return &Service{panel: panel}
}

// Start initialises the panel and launches the render loop. A panel that
// fails to initialise disables the service; the rest of the firmware is not
// affected.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if err := s.panel.Configure(); err != nil {
		fmtx.Printf("Warn: display init failed: %v\n", err)
		return err
	}
	if err := s.panel.FillScreen(st7789.Black); err != nil {
		return err
	}
	values := conn.Subscribe(bus.T("env", bus.Wildcard, "value"))
	faults := conn.Subscribe(bus.T("env", "sensor", "fault"))
	go s.loop(ctx, values, faults)
	return nil
}

func (s *Service) loop(ctx context.Context, values, faults *bus.Subscription) {
	for {
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: display stopping\n")
			return
		case msg := <-values.Channel():
			if msg == nil {
				return
			}
			v, ok := msg.Payload.(types.EnvValue)
			if !ok || len(msg.Topic) < 2 {
				continue
			}
			s.clearFault()
			switch msg.Topic[1] {
			case string(types.KindTemperature):
				s.drawBar(tempY, v.Deci, fullScaleTemp, colorTemp)
			case string(types.KindHumidity):
				s.drawBar(humidityY, v.Deci, fullScaleHum, colorHum)
			}
		case msg := <-faults.Channel():
			if msg == nil {
				return
			}
			s.markFault()
		}
	}
}

// drawBar paints value/fullScale of the panel width, clearing the remainder.
func (s *Service) drawBar(y int16, deci, fullScale int32, c st7789.Color) {
	w, _ := s.panel.Size()
	deci = mathx.Clamp(deci, 0, fullScale)
	filled := int16(int32(w) * deci / fullScale)
	if filled > 0 {
		if err := s.panel.FillRectangle(0, y, filled, barHeight, c); err != nil {
			fmtx.Printf("Warn: display draw failed: %v\n", err)
			return
		}
	}
	if filled < w {
		_ = s.panel.FillRectangle(filled, y, w-filled, barHeight, st7789.Black)
	}
}

func (s *Service) markFault() {
	w, _ := s.panel.Size()
	_ = s.panel.FillRectangle(w-faultMarkerSize, 0, faultMarkerSize, faultMarkerSize, colorFault)
}

func (s *Service) clearFault() {
	w, _ := s.panel.Size()
	_ = s.panel.FillRectangle(w-faultMarkerSize, 0, faultMarkerSize, faultMarkerSize, st7789.Black)
}

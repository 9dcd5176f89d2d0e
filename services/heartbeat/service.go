// Package heartbeat blinks the board LED and publishes a liveness counter.
// The blink interval can be changed at runtime over the bus.
package heartbeat

import (
	"context"
	"time"

	"sensorboard-go/bus"
	"sensorboard-go/platform"
	"sensorboard-go/types"
	"sensorboard-go/x/fmtx"
)

const defaultInterval = time.Second

var (
	topicBeat     = bus.T("system", "heartbeat", "value")
	topicInterval = bus.T("config", "heartbeat", "interval")
)

type Service struct {
	led platform.Pin
}

func New(led platform.Pin) *Service {
	return &Service{led: led}
}

// Start configures the LED and launches the blink loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if err := s.led.ConfigureOutput(false); err != nil {
		return err
	}
	cfg := conn.Subscribe(topicInterval)
	go s.loop(ctx, conn, cfg)
	return nil
}

func (s *Service) loop(ctx context.Context, conn *bus.Connection, cfg *bus.Subscription) {
	defer cfg.Unsubscribe()

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	var seq uint32
	for {
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: heartbeat stopping\n")
			s.led.Set(false)
			return
		case <-tick.C:
			s.led.Toggle()
			seq++
			conn.Publish(conn.NewMessage(topicBeat, types.HeartbeatValue{Seq: seq}, true))
		case msg := <-cfg.Channel():
			if msg == nil {
				return
			}
			// Interval arrives as whole seconds.
			secs, ok := msg.Payload.(int)
			if !ok || secs <= 0 {
				fmtx.Printf("Warn: heartbeat: bad interval %v\n", msg.Payload)
				continue
			}
			tick.Reset(time.Duration(secs) * time.Second)
			fmtx.Printf("Info: heartbeat interval set to %ds\n", secs)
		}
	}
}

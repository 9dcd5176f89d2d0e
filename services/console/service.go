// Package console mirrors bus traffic onto the serial console as one line per
// message, the format the host-side monitor parses. Sensor faults are logged
// at warning level so they stand out on a scrolling terminal.
package console

import (
	"context"

	"sensorboard-go/bus"
	"sensorboard-go/types"
	"sensorboard-go/x/fmtx"
)

// Topics are three levels deep by convention, so one pattern sees everything.
var topicAll = bus.T(bus.Wildcard, bus.Wildcard, bus.Wildcard)

type Service struct{}

func New() *Service { return &Service{} }

func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(topicAll)
	go s.loop(ctx, sub)
	return nil
}

func (s *Service) loop(ctx context.Context, sub *bus.Subscription) {
	for {
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: console stopping\n")
			return
		case msg := <-sub.Channel():
			// A closed subscription channel yields nil forever.
			if msg == nil {
				return
			}
			logLine(msg)
		}
	}
}

func logLine(msg *bus.Message) {
	level := "Info"
	if _, fault := msg.Payload.(types.EnvFault); fault {
		level = "Warn"
	}
	fmtx.Printf("%s: %s %v\n", level, msg.Topic.String(), msg.Payload)
}

// Package config seeds the bus with the firmware's boot defaults. Everything
// is published retained, so services that tune themselves over the bus pick
// up their settings whenever they start, in any order.
package config

import (
	"context"

	"sensorboard-go/bus"
	"sensorboard-go/types"
)

// Entry is one retained default.
type Entry struct {
	Topic   bus.Topic
	Payload any
}

// Defaults is the boot configuration for this board.
func Defaults() []Entry {
	return []Entry{
		{bus.T("config", "heartbeat", "interval"), 1},
		{bus.T("display", "backlight", "value"), types.BacklightValue{On: true}},
	}
}

type Service struct {
	entries []Entry
}

// New builds the service. A nil entries slice selects Defaults.
func New(entries []Entry) *Service {
	if entries == nil {
		entries = Defaults()
	}
	return &Service{entries: entries}
}

// Start publishes every entry and returns; the service holds no goroutine.
func (s *Service) Start(_ context.Context, conn *bus.Connection) error {
	for _, e := range s.entries {
		conn.Publish(conn.NewMessage(e.Topic, e.Payload, true))
	}
	return nil
}

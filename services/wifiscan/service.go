// Package wifiscan periodically sweeps for nearby access points and publishes
// what it finds. Boards without a radio pass a nil scanner and the service
// stays dormant.
package wifiscan

import (
	"context"
	"time"

	"sensorboard-go/bus"
	"sensorboard-go/errcode"
	"sensorboard-go/platform"
	"sensorboard-go/types"
	"sensorboard-go/x/fmtx"
)

const (
	defaultInterval = time.Minute
	maxNetworks     = 10
)

var (
	topicNetwork = bus.T("wifi", "scan", "network")
	topicCount   = bus.T("wifi", "scan", "count")
)

type Config struct {
	// Interval between sweeps. Zero selects the default.
	Interval time.Duration
}

type Service struct {
	scanner  platform.WifiScanner
	interval time.Duration
}

func New(scanner platform.WifiScanner, cfg Config) *Service {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{scanner: scanner, interval: interval}
}

func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.scanner == nil {
		fmtx.Printf("Info: wifiscan: %v, staying dormant\n", errcode.NotFitted)
		return nil
	}
	go s.loop(ctx, conn)
	return nil
}

func (s *Service) loop(ctx context.Context, conn *bus.Connection) {
	s.scanOnce(conn)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: wifiscan stopping\n")
			return
		case <-ticker.C:
			s.scanOnce(conn)
		}
	}
}

func (s *Service) scanOnce(conn *bus.Connection) {
	nets, err := s.scanner.Scan(maxNetworks)
	if err != nil {
		fmtx.Printf("Warn: wifi scan failed: %v\n", err)
		return
	}
	for _, n := range nets {
		conn.Publish(conn.NewMessage(topicNetwork, types.NetworkValue{
			SSID:    n.SSID,
			RSSI:    n.RSSI,
			Channel: n.Channel,
		}, false))
	}
	// Retained so a late subscriber knows the size of the last sweep.
	conn.Publish(conn.NewMessage(topicCount, len(nets), true))
}

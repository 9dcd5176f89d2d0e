// Package envsense owns the DHT11 and publishes its readings.
//
// The service is the sole owner of the sensor line for the firmware's
// lifetime; exclusivity is structural (one service, one goroutine), not a
// lock. Each cycle is one driver transaction followed by a yielding sleep of
// at least the sensor's minimum re-trigger interval. The transaction itself
// never yields: its microsecond windows would not survive scheduler latency,
// so the goroutine blocks for the ~25 ms a read takes.
package envsense

import (
	"context"
	"errors"
	"time"

	"sensorboard-go/bus"
	"sensorboard-go/drivers/dht11"
	"sensorboard-go/errcode"
	"sensorboard-go/types"
	"sensorboard-go/x/fmtx"
	"sensorboard-go/x/mathx"
	"sensorboard-go/x/timex"
)

var (
	topicTemperature = bus.T("env", string(types.KindTemperature), "value")
	topicHumidity    = bus.T("env", string(types.KindHumidity), "value")
	topicFault       = bus.T("env", "sensor", "fault")
)

// reader is the driver surface the service needs; the concrete dht11.Device
// in production, a scripted fake in tests.
type reader interface {
	Read() (dht11.Reading, error)
}

// Config tunes the cycle. Interval below the sensor's minimum is raised to
// the minimum: the 2 s floor is a protocol requirement, not a preference,
// and it holds after failures too.
type Config struct {
	Interval time.Duration
}

type Service struct {
	cfg Config
	dev reader
}

// New wires the service to its sensor. The device hand-off is permanent;
// nothing else may touch the line afterwards.
func New(dev reader, cfg Config) *Service {
	cfg.Interval = mathx.Max(cfg.Interval, dht11.MinReadInterval)
	return &Service{cfg: cfg, dev: dev}
}

// Interval reports the effective cycle spacing after clamping.
func (s *Service) Interval() time.Duration { return s.cfg.Interval }

// Start launches the measurement loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.loop(ctx, conn)
	return nil
}

func (s *Service) loop(ctx context.Context, conn *bus.Connection) {
	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		s.readOnce(conn)

		// The inter-read wait is the loop's only suspension point. It runs
		// unconditionally: a failed read must not shorten the spacing.
		resetTimer(timer, s.cfg.Interval)
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: envsense stopping\n")
			return
		case <-timer.C:
		}
	}
}

func (s *Service) readOnce(conn *bus.Connection) {
	r, err := s.dev.Read()
	ts := timex.NowMs()
	if err != nil {
		fault := &errcode.E{C: classify(err), Op: "envsense.read", Err: err}
		fmtx.Printf("Warn: sensor read failed: %v\n", fault)
		conn.Publish(&bus.Message{
			Topic:   topicFault,
			Payload: types.EnvFault{Code: errcode.Of(fault), TsMs: ts},
		})
		return
	}

	fmtx.Printf("Info: temperature %v C, humidity %v %%RH\n",
		types.EnvValue{Deci: r.DeciCelsius()}, types.EnvValue{Deci: r.DeciRelHumidity()})
	conn.Publish(&bus.Message{
		Topic:    topicTemperature,
		Payload:  types.EnvValue{Deci: r.DeciCelsius(), TsMs: ts},
		Retained: true,
	})
	conn.Publish(&bus.Message{
		Topic:    topicHumidity,
		Payload:  types.EnvValue{Deci: r.DeciRelHumidity(), TsMs: ts},
		Retained: true,
	})
}

// classify maps driver errors to bus-facing codes.
func classify(err error) errcode.Code {
	switch {
	case errors.Is(err, dht11.ErrChecksum):
		return errcode.ChecksumMismatch
	case errors.Is(err, dht11.ErrTimeout):
		return errcode.Timeout
	case errors.Is(err, dht11.ErrNoResponse):
		return errcode.NoResponse
	default:
		return errcode.Error
	}
}

// resetTimer safely stops, drains, and resets a timer.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

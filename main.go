package main

import (
	"context"
	"time"

	"sensorboard-go/bus"
	"sensorboard-go/drivers/dht11"
	"sensorboard-go/drivers/st7789"
	"sensorboard-go/drivers/xl9555"
	"sensorboard-go/platform"
	"sensorboard-go/services/config"
	"sensorboard-go/services/console"
	"sensorboard-go/services/display"
	"sensorboard-go/services/envsense"
	"sensorboard-go/services/heartbeat"
	"sensorboard-go/services/keys"
	"sensorboard-go/services/wifiscan"
	"sensorboard-go/x/fmtx"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	board, err := platform.NewBoard()
	if err != nil {
		println("Error: board init:", err.Error())
		return
	}
	if board.Console != nil {
		fmtx.DefaultOutput = board.Console
	}

	ctx := context.Background()
	b := bus.NewBus(16)

	// Expander first: it gates display power and reset.
	exp := xl9555.New(board.I2C)
	if err := exp.Configure(xl9555.DefaultDirections); err != nil {
		fmtx.Printf("Error: expander init: %v\n", err)
		return
	}
	if err := exp.SetLCDPower(true); err != nil {
		fmtx.Printf("Error: display power: %v\n", err)
		return
	}

	if err := board.DisplayDC.ConfigureOutput(false); err != nil {
		fmtx.Printf("Error: display dc pin: %v\n", err)
		return
	}
	panel := st7789.New(board.SPI,
		board.DisplayDC.Set,
		func(high bool) { _ = exp.SetLCDReset(high) },
		func(on bool) { _ = exp.SetBacklight(on) },
	)

	sensor := dht11.New(board.SensorLine, platform.DelayMicroseconds)

	start(ctx, b, "config", config.New(nil))
	start(ctx, b, "envsense", envsense.New(&sensor, envsense.Config{}))
	start(ctx, b, "keys", keys.New(&exp, board.BootButton, keys.Config{}))
	start(ctx, b, "display", display.New(&panel))
	start(ctx, b, "wifiscan", wifiscan.New(board.Wifi, wifiscan.Config{}))
	start(ctx, b, "heartbeat", heartbeat.New(board.LED))
	start(ctx, b, "console", console.New())

	select {}
}

type service interface {
	Start(ctx context.Context, conn *bus.Connection) error
}

// start launches one service on its own bus connection. A service that fails
// to start is logged and skipped; the others keep running.
func start(ctx context.Context, b *bus.Bus, name string, svc service) {
	if err := svc.Start(ctx, b.NewConnection(name)); err != nil {
		fmtx.Printf("Warn: %s failed to start: %v\n", name, err)
	}
}

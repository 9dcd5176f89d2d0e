// Command boardtest brings up each peripheral once and reports what it finds.
// It is the bench bring-up tool: flash it (or run it on the host against the
// simulated board) before trusting the full firmware.
package main

import (
	"time"

	"sensorboard-go/drivers/dht11"
	"sensorboard-go/drivers/st7789"
	"sensorboard-go/drivers/xl9555"
	"sensorboard-go/platform"
	"sensorboard-go/x/fmtx"
)

func main() {
	time.Sleep(2 * time.Second)
	println("boardtest")

	board, err := platform.NewBoard()
	if err != nil {
		println("Error: board init:", err.Error())
		return
	}
	if board.Console != nil {
		fmtx.DefaultOutput = board.Console
	}

	exp := xl9555.New(board.I2C)
	testExpander(&exp)
	testDisplay(board, &exp)
	testSensor(board)
	testWifi(board)
	fmtx.Printf("Info: boardtest done\n")
}

func testExpander(exp *xl9555.Device) {
	if err := exp.Configure(xl9555.DefaultDirections); err != nil {
		fmtx.Printf("Error: expander: %v\n", err)
		return
	}
	inputs, err := exp.ReadInputs()
	if err != nil {
		fmtx.Printf("Error: expander inputs: %v\n", err)
		return
	}
	fmtx.Printf("Info: expander inputs %x\n", inputs)
	for i, pressed := range xl9555.Keys(inputs) {
		if pressed {
			fmtx.Printf("Info: key%d held at boot\n", i)
		}
	}
}

func testDisplay(board *platform.Board, exp *xl9555.Device) {
	if err := exp.SetLCDPower(true); err != nil {
		fmtx.Printf("Error: display power: %v\n", err)
		return
	}
	if err := board.DisplayDC.ConfigureOutput(false); err != nil {
		fmtx.Printf("Error: display dc: %v\n", err)
		return
	}
	panel := st7789.New(board.SPI,
		board.DisplayDC.Set,
		func(high bool) { _ = exp.SetLCDReset(high) },
		func(on bool) { _ = exp.SetBacklight(on) },
	)
	if err := panel.Configure(); err != nil {
		fmtx.Printf("Error: display init: %v\n", err)
		return
	}
	// Three bands make wiring faults (swapped colours, mirrored axes) obvious.
	w, h := panel.Size()
	band := h / 3
	_ = panel.FillRectangle(0, 0, w, band, st7789.RGB565(0xFF, 0, 0))
	_ = panel.FillRectangle(0, band, w, band, st7789.RGB565(0, 0xFF, 0))
	_ = panel.FillRectangle(0, 2*band, w, h-2*band, st7789.RGB565(0, 0, 0xFF))
	fmtx.Printf("Info: display %dx%d filled\n", w, h)
}

func testSensor(board *platform.Board) {
	sensor := dht11.New(board.SensorLine, platform.DelayMicroseconds)
	// The first read after power-up tends to fail while the sensor settles.
	for attempt := 1; attempt <= 3; attempt++ {
		r, err := sensor.Read()
		if err == nil {
			fmtx.Printf("Info: sensor %d dC %d dRH\n", r.DeciCelsius(), r.DeciRelHumidity())
			return
		}
		fmtx.Printf("Warn: sensor attempt %d: %v\n", attempt, err)
		time.Sleep(dht11.MinReadInterval)
	}
	fmtx.Printf("Error: sensor not responding\n")
}

func testWifi(board *platform.Board) {
	if board.Wifi == nil {
		fmtx.Printf("Info: no radio fitted\n")
		return
	}
	nets, err := board.Wifi.Scan(5)
	if err != nil {
		fmtx.Printf("Error: wifi scan: %v\n", err)
		return
	}
	for _, n := range nets {
		fmtx.Printf("Info: ap %s rssi=%d ch=%d\n", n.SSID, n.RSSI, n.Channel)
	}
}

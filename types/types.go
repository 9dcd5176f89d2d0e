// Package types holds the payload structs services publish on the bus.
// Every payload implements String so the console sink can render it without
// reflection-heavy formatting on MCU builds.
package types

import (
	"sensorboard-go/errcode"
	"sensorboard-go/x/conv"
)

// Kind names a capability the firmware reports on.
type Kind string

const (
	KindTemperature Kind = "temperature"
	KindHumidity    Kind = "humidity"
	KindButton      Kind = "button"
	KindBacklight   Kind = "backlight"
	KindNetwork     Kind = "network"
	KindHeartbeat   Kind = "heartbeat"
)

// EnvValue is one environmental reading in the sensor's native fixed point,
// tenths of a unit (deci-°C or deci-%RH).
type EnvValue struct {
	Deci int32
	TsMs int64
}

func (v EnvValue) String() string {
	return string(conv.AppendDeci(make([]byte, 0, 8), v.Deci))
}

// EnvFault reports one failed read attempt.
type EnvFault struct {
	Code errcode.Code
	TsMs int64
}

func (v EnvFault) String() string { return string(v.Code) }

// ButtonValue is the logical state of one key.
type ButtonValue struct {
	Pressed bool
}

func (v ButtonValue) String() string {
	if v.Pressed {
		return "pressed"
	}
	return "released"
}

// BacklightValue mirrors the display backlight switch.
type BacklightValue struct {
	On bool
}

func (v BacklightValue) String() string {
	if v.On {
		return "on"
	}
	return "off"
}

// NetworkValue is one access point from a Wi-Fi scan.
type NetworkValue struct {
	SSID    string
	RSSI    int8
	Channel uint8
}

func (v NetworkValue) String() string {
	b := make([]byte, 0, 48)
	b = append(b, v.SSID...)
	b = append(b, " rssi="...)
	b = conv.AppendInt(b, int64(v.RSSI))
	b = append(b, " ch="...)
	b = conv.AppendUint(b, uint64(v.Channel))
	return string(b)
}

// HeartbeatValue counts liveness ticks.
type HeartbeatValue struct {
	Seq uint32
}

func (v HeartbeatValue) String() string {
	return string(conv.AppendUint(make([]byte, 0, 10), uint64(v.Seq)))
}

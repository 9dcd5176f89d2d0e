// Command selftest exercises the message bus on the target itself: retained
// hand-off, wildcard matching and overflow behaviour can differ under a
// TinyGo scheduler, so this runs the same checks the host tests do and
// reports PASS/FAIL over the console.
package main

import (
	"time"

	"sensorboard-go/bus"
	"sensorboard-go/x/fmtx"
)

const timeout = 250 * time.Millisecond

func main() {
	time.Sleep(2 * time.Second)
	println("bus selftest")

	failed := 0
	for _, tc := range []struct {
		name string
		fn   func() bool
	}{
		{"basic pubsub", testBasicPubSub},
		{"retained handover", testRetained},
		{"wildcard", testWildcard},
		{"drop oldest", testDropOldest},
	} {
		if tc.fn() {
			fmtx.Printf("Info: PASS %s\n", tc.name)
		} else {
			fmtx.Printf("Error: FAIL %s\n", tc.name)
			failed++
		}
	}
	if failed == 0 {
		fmtx.Printf("Info: selftest ok\n")
	} else {
		fmtx.Printf("Error: selftest %d failures\n", failed)
	}
}

func expectPayload(sub *bus.Subscription, want string) bool {
	select {
	case msg := <-sub.Channel():
		s, ok := msg.Payload.(string)
		return ok && s == want
	case <-time.After(timeout):
		return false
	}
}

func testBasicPubSub() bool {
	b := bus.NewBus(4)
	sub := b.NewConnection("a").Subscribe(bus.T("env", "temperature", "value"))
	pub := b.NewConnection("b")
	pub.Publish(pub.NewMessage(bus.T("env", "temperature", "value"), "21.3", false))
	return expectPayload(sub, "21.3")
}

func testRetained() bool {
	b := bus.NewBus(4)
	pub := b.NewConnection("a")
	pub.Publish(pub.NewMessage(bus.T("env", "humidity", "value"), "50.0", true))
	sub := b.NewConnection("b").Subscribe(bus.T("env", "humidity", "value"))
	return expectPayload(sub, "50.0")
}

func testWildcard() bool {
	b := bus.NewBus(4)
	sub := b.NewConnection("a").Subscribe(bus.T("env", bus.Wildcard, "value"))
	pub := b.NewConnection("b")
	pub.Publish(pub.NewMessage(bus.T("env", "temperature", "value"), "t", false))
	pub.Publish(pub.NewMessage(bus.T("env", "humidity", "value"), "h", false))
	return expectPayload(sub, "t") && expectPayload(sub, "h")
}

func testDropOldest() bool {
	b := bus.NewBus(2)
	sub := b.NewConnection("a").Subscribe(bus.T("x", "y", "z"))
	pub := b.NewConnection("b")
	for _, p := range []string{"1", "2", "3", "4"} {
		pub.Publish(pub.NewMessage(bus.T("x", "y", "z"), p, false))
	}
	// Queue depth 2: the two oldest must have been shed.
	return expectPayload(sub, "3") && expectPayload(sub, "4")
}

package bus

import (
	"testing"
	"time"
)

func expectOne(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Errorf("payload = %v (want %v)", got.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v on %v", want, sub.Topic())
	}
}

func expectNone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message %v on %v", got.Payload, sub.Topic())
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("env", "temperature", "value"))
	conn.Publish(conn.NewMessage(T("env", "temperature", "value"), "hello", false))

	expectOne(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("env", "humidity", "value"), "persist", true))

	// Late subscriber still sees the value.
	sub := conn.Subscribe(T("env", "humidity", "value"))
	expectOne(t, sub, "persist")
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("env", Wildcard, "value"))
	s2 := c.Subscribe(T("env", Wildcard, Wildcard))
	s3 := c.Subscribe(T("env", "temperature", Wildcard))
	sNo := c.Subscribe(T("env", Wildcard, "event"))

	c.Publish(b.NewMessage(T("env", "temperature", "value"), "m1", false))

	expectOne(t, s1, "m1")
	expectOne(t, s2, "m1")
	expectOne(t, s3, "m1")
	expectNone(t, sNo)

	c.Publish(b.NewMessage(T("env", "humidity", "fault"), "m2", false))

	expectOne(t, s2, "m2")
	expectNone(t, s1)
	expectNone(t, s3)
	expectNone(t, sNo)
}

func TestWildcardSeesRetained(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("env", "temperature", "value"), "t", true))
	c.Publish(b.NewMessage(T("env", "humidity", "value"), "h", true))

	sub := c.Subscribe(T("env", Wildcard, "value"))

	got := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-sub.Channel():
			got[m.Payload] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout collecting retained messages")
		}
	}
	if !got["t"] || !got["h"] {
		t.Errorf("retained via wildcard = %v", got)
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("input", "key0", "event"))
	for i := 0; i < 5; i++ {
		c.Publish(b.NewMessage(T("input", "key0", "event"), i, false))
	}

	// Queue holds the newest two; older ones were dropped, publisher never
	// blocked.
	expectOne(t, sub, 3)
	expectOne(t, sub, 4)
	expectNone(t, sub)
}

func TestUnsubscribePrunes(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("a", "b", "c"))
	sub.Unsubscribe()

	if len(b.root.children) != 0 {
		t.Errorf("trie not pruned after unsubscribe: %v", b.root.children)
	}

	// Publishing after unsubscribe must not panic or deliver.
	c.Publish(b.NewMessage(T("a", "b", "c"), "x", false))
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("svc")

	s1 := c.Subscribe(T("a", "b"))
	s2 := c.Subscribe(T("c", "d"))
	c.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Error("channel still open after disconnect")
		}
	}
}

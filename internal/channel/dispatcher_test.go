package channel_test

import (
	"testing"

	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/test"
)

func TestRegisterRemove(t *testing.T) {
	d := channel.NewDispatcher(channel.Video, 4)
	c := d.Register()
	test.ExpectEquality(t, d.Count(), 1)
	d.Remove(c)
	test.ExpectEquality(t, d.Count(), 0)
}

func TestBroadcastRespectsSubscription(t *testing.T) {
	d := channel.NewDispatcher(channel.Video, 4)
	subscribed := d.Register()
	subscribed.Subscribed.Store(true)
	unsubscribed := d.Register()

	d.Broadcast([]byte("frame"))

	test.ExpectEquality(t, len(subscribed.Out), 1)
	test.ExpectEquality(t, len(unsubscribed.Out), 0)
}

func TestBroadcastDropsOldest(t *testing.T) {
	d := channel.NewDispatcher(channel.Video, 2)
	c := d.Register()
	c.Subscribed.Store(true)

	d.Broadcast([]byte("frame-1"))
	d.Broadcast([]byte("frame-2"))
	d.Broadcast([]byte("frame-3"))

	test.ExpectEquality(t, c.Drops.Load(), uint64(1))
	test.ExpectEquality(t, len(c.Out), 2)

	first := <-c.Out
	second := <-c.Out
	test.ExpectEquality(t, string(first), "frame-2")
	test.ExpectEquality(t, string(second), "frame-3")
}

func TestControlBroadcastIgnoresSubscription(t *testing.T) {
	d := channel.NewDispatcher(channel.Control, 4)
	c := d.Register()
	d.Broadcast([]byte("pong"))
	test.ExpectEquality(t, len(c.Out), 1)
}

func TestSendBlocksUntilAcceptedOrClosed(t *testing.T) {
	d := channel.NewDispatcher(channel.Control, 1)
	c := d.Register()
	d.Send(c, []byte("ok"))
	test.ExpectEquality(t, len(c.Out), 1)
}

package debugger_test

import (
	"testing"

	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/test"
)

func TestEventBusDeliversToEverySubscriber(t *testing.T) {
	bus := debugger.NewEventBus()
	id1, ch1 := bus.Subscribe()
	defer bus.Unsubscribe(id1)
	id2, ch2 := bus.Subscribe()
	defer bus.Unsubscribe(id2)

	bus.Publish(debugger.Event{Kind: debugger.EventBreakpoint, Address: 0x0600})

	ev1 := <-ch1
	ev2 := <-ch2
	test.ExpectEquality(t, ev1.Address, uint16(0x0600))
	test.ExpectEquality(t, ev2.Address, uint16(0x0600))
}

func TestEventBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := debugger.NewEventBus()
	id, ch := bus.Subscribe()
	bus.Unsubscribe(id)

	bus.Publish(debugger.Event{Kind: debugger.EventHalted})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected delivery after unsubscribe: %+v", ev)
	default:
	}
}

func TestEventBusCoalescesUnreadEventsRatherThanBlocking(t *testing.T) {
	bus := debugger.NewEventBus()
	_, ch := bus.Subscribe()

	bus.Publish(debugger.Event{Kind: debugger.EventBreakpoint, Address: 0x0600})
	bus.Publish(debugger.Event{Kind: debugger.EventBreakpoint, Address: 0x0601})
	bus.Publish(debugger.Event{Kind: debugger.EventBreakpoint, Address: 0x0602})

	ev := <-ch
	test.ExpectEquality(t, ev.Address, uint16(0x0602))
	test.ExpectEquality(t, ev.LostCount >= 1, true)
}

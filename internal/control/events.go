package control

import (
	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/debugger"
)

// publishHalt broadcasts a debugger halt event to every control client,
// encoded as a Breakpoint or Halted frame carrying the address and
// register snapshot.
func (h *Handler) publishHalt(ev debugger.Event) {
	if ev.Kind == debugger.EventNone {
		return
	}
	msgType := aesp.Halted
	if ev.Kind == debugger.EventBreakpoint {
		msgType = aesp.Breakpoint
	}
	payload := make([]byte, 0, 9)
	buf := make([]byte, 2)
	buf[0] = byte(ev.Address >> 8)
	buf[1] = byte(ev.Address)
	payload = append(payload, buf...)
	payload = append(payload, aesp.EncodeRegisters(ev.Registers)...)
	h.Control.Broadcast(aesp.Encode(msgType, payload))
}

// StartEventPump forwards every debugger event onto the control channel
// until stop is closed, so a trap hit during free-running playback (not
// just an explicit Step request) still reaches connected clients.
func (h *Handler) StartEventPump(stop <-chan struct{}) {
	id, ch := h.Debug.Events().Subscribe()
	go func() {
		defer h.Debug.Events().Unsubscribe(id)
		for {
			select {
			case ev := <-ch:
				h.publishHalt(ev)
			case <-stop:
				return
			}
		}
	}()
}

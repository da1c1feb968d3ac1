package control

import (
	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atticerr"
	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/metrics"
)

// StreamHandler implements connio.FrameHandler for the video and audio
// channels: the only requests these connections ever send are
// subscribe/unsubscribe toggles, everything else arrives one-way as
// broadcast frames from the orchestrator.
type StreamHandler struct {
	Dispatcher *channel.Dispatcher
	Subscribe  aesp.MessageType
	Unsubscribe aesp.MessageType
}

func (h *StreamHandler) Handle(client *channel.Client, frame aesp.Frame) {
	metrics.ControlRequests.WithLabelValues(frame.Type.String()).Inc()

	switch frame.Type {
	case h.Subscribe:
		client.Subscribed.Store(true)
		h.Dispatcher.Send(client, aesp.Encode(aesp.Ack, nil))
	case h.Unsubscribe:
		client.Subscribed.Store(false)
		h.Dispatcher.Send(client, aesp.Encode(aesp.Ack, nil))
	default:
		err := atticerr.Errorf(atticerr.KindParseGrammar, "unsupported message type %s on %s channel", frame.Type, h.Dispatcher.Kind())
		metrics.Errors.WithLabelValues(atticerr.KindOf(err).Category(), atticerr.KindOf(err).String()).Inc()
		h.Dispatcher.Send(client, aesp.Encode(aesp.Error, aesp.EncodeErrorFrame(byte(atticerr.KindOf(err)), err.Error())))
	}
}

package connio

import (
	"errors"
	"io"
	"net"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atticerr"
	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/logging"
	"github.com/huegli/attic-sub012/internal/metrics"
)

// FrameHandler processes one decoded frame received from client on its
// channel. Implementations never block for long: the control handler
// executes emulator/debugger operations synchronously and returns a
// reply, video/audio handlers only toggle subscription state.
type FrameHandler interface {
	Handle(client *channel.Client, frame aesp.Frame)
}

// RunReader decodes frames from conn until EOF, a protocol error, or
// client.Closed fires. A protocol error (bad magic/version/length)
// sends an Error frame and closes the connection per spec §4.2.
func RunReader(conn net.Conn, client *channel.Client, handler FrameHandler) {
	defer client.Close()
	for {
		frame, err := aesp.Decode(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			logging.L().Warn("connio: protocol error, closing connection",
				"channel", client.Kind.String(), "client", client.ID, "error", err)
			metrics.Errors.WithLabelValues("protocol", atticerr.KindOf(err).String()).Inc()
			sendErrorFrame(conn, err)
			return
		}
		handler.Handle(client, frame)

		select {
		case <-client.Closed:
			return
		default:
		}
	}
}

func sendErrorFrame(conn net.Conn, err error) {
	kind := byte(atticerr.KindOf(err))
	payload := aesp.EncodeErrorFrame(kind, err.Error())
	_, _ = conn.Write(aesp.Encode(aesp.Error, payload))
}

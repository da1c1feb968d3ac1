package connio

import (
	"net"

	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/logging"
)

// RunWriter drains client.Out onto conn until the client is closed or a
// write fails. Unlike the reader, the writer never decides policy about
// drops — that happens in the dispatcher before a message ever reaches
// the queue (spec §4.2's drop-oldest back-pressure).
func RunWriter(conn net.Conn, client *channel.Client) {
	defer func() {
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Out:
			if !ok {
				return
			}
			if _, err := conn.Write(msg); err != nil {
				logging.L().Debug("connio: write error, closing connection",
					"channel", client.Kind.String(), "client", client.ID, "error", err)
				client.Close()
				return
			}
		case <-client.Closed:
			return
		}
	}
}

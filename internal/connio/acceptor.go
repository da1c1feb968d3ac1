package connio

import (
	"net"

	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/logging"
)

// Serve accepts connections on listener, registering each with
// dispatcher and running its reader/writer pair until it closes. It
// returns when listener.Accept fails (typically because the listener
// was closed during shutdown).
func Serve(listener net.Listener, dispatcher *channel.Dispatcher, handler FrameHandler) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		client := dispatcher.Register()
		logging.L().Info("connio: client connected", "channel", client.Kind.String(), "client", client.ID)

		go RunWriter(conn, client)
		go func() {
			RunReader(conn, client, handler)
			dispatcher.Remove(client)
		}()
	}
}

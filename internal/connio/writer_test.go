package connio_test

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/connio"
	"github.com/huegli/attic-sub012/test"
)

func TestRunWriterDrainsQueueOntoConnection(t *testing.T) {
	server, remote := net.Pipe()
	defer remote.Close()

	dispatcher := channel.NewDispatcher(channel.Video, 4)
	client := dispatcher.Register()

	go connio.RunWriter(server, client)

	client.Out <- []byte("frame-one")
	buf := make([]byte, len("frame-one"))
	_, err := io.ReadFull(remote, buf)
	test.ExpectSuccess(t, err)
	test.Equate(t, string(buf), "frame-one")
}

func TestRunWriterReturnsWhenClientIsClosed(t *testing.T) {
	server, remote := net.Pipe()
	defer remote.Close()

	dispatcher := channel.NewDispatcher(channel.Video, 4)
	client := dispatcher.Register()

	done := make(chan struct{})
	go func() {
		connio.RunWriter(server, client)
		close(done)
	}()

	client.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunWriter did not return after client.Close")
	}
}

func TestRunWriterClosesConnectionOnWriteFailure(t *testing.T) {
	server, remote := net.Pipe()
	remote.Close() // pre-close the peer so the next write fails

	dispatcher := channel.NewDispatcher(channel.Video, 4)
	client := dispatcher.Register()

	done := make(chan struct{})
	go func() {
		connio.RunWriter(server, client)
		close(done)
	}()

	client.Out <- []byte("dropped-on-the-floor")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunWriter did not return after a write failure")
	}
	select {
	case <-client.Closed:
	default:
		t.Fatal("client was not closed after a write failure")
	}
}

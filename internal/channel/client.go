// Package channel implements the per-channel client registry and
// broadcast fan-out described in spec §4.3, grounded on
// kstaniek-go-ampio-server/internal/hub — the only repo in the corpus
// with a working registry/broadcast/back-pressure hub. The drop policy is
// adapted from the teacher hub's drop-newest-on-full to the spec's
// drop-oldest, since video/audio consumers prefer current state over
// completeness (spec §4.2).
package channel

import (
	"sync"
	"sync/atomic"
)

// Kind identifies one of the three AESP channels.
type Kind int

const (
	Control Kind = iota
	Video
	Audio
)

func (k Kind) String() string {
	switch k {
	case Control:
		return "control"
	case Video:
		return "video"
	case Audio:
		return "audio"
	}
	return "unknown"
}

// ID uniquely identifies a client within its channel's registry.
type ID uint64

// Client is a single connected consumer of one channel. It never migrates
// between channels (spec §3).
type Client struct {
	ID     ID
	Kind   Kind
	Out    chan []byte
	Closed chan struct{}

	// Subscribed only has meaning for video/audio channels; control
	// clients receive every reply addressed to them regardless of this
	// flag.
	Subscribed atomic.Bool

	// Drops counts frames dropped for this client by the drop-oldest
	// back-pressure policy; surfaced in the control Status reply.
	Drops atomic.Uint64

	closeOnce sync.Once
}

// Close signals that the client is gone; idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Closed) })
}

func newClient(id ID, kind Kind, outBuf int) *Client {
	return &Client{
		ID:     id,
		Kind:   kind,
		Out:    make(chan []byte, outBuf),
		Closed: make(chan struct{}),
	}
}

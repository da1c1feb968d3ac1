package channel

import (
	"sync"
	"sync/atomic"

	"github.com/huegli/attic-sub012/internal/metrics"
)

// Dispatcher owns one channel's client registry and acceptor-facing
// lifecycle. Registration and broadcast share a single lock, held only
// long enough to copy the client set or the map entry — never across
// queue pushes or socket I/O, per spec §4.3.
type Dispatcher struct {
	kind   Kind
	outBuf int

	mu      sync.RWMutex
	clients map[ID]*Client
	nextID  atomic.Uint64
}

// NewDispatcher creates a Dispatcher for one channel kind with the given
// per-client outbound buffer size.
func NewDispatcher(kind Kind, outBuf int) *Dispatcher {
	return &Dispatcher{
		kind:    kind,
		outBuf:  outBuf,
		clients: make(map[ID]*Client),
	}
}

// Kind returns the channel this dispatcher serves.
func (d *Dispatcher) Kind() Kind { return d.kind }

// Register creates and adds a new client, as happens on connection accept.
func (d *Dispatcher) Register() *Client {
	id := ID(d.nextID.Add(1))
	c := newClient(id, d.kind, d.outBuf)

	d.mu.Lock()
	d.clients[id] = c
	n := len(d.clients)
	d.mu.Unlock()

	metrics.ChannelClients.WithLabelValues(d.kind.String()).Set(float64(n))
	return c
}

// Remove unregisters a client and drains its outbound queue, as happens
// on disconnect.
func (d *Dispatcher) Remove(c *Client) {
	d.mu.Lock()
	_, existed := d.clients[c.ID]
	delete(d.clients, c.ID)
	n := len(d.clients)
	d.mu.Unlock()

	if !existed {
		return
	}

	c.Close()
	// drain whatever was left queued
	for {
		select {
		case <-c.Out:
		default:
			metrics.ChannelClients.WithLabelValues(d.kind.String()).Set(float64(n))
			return
		}
	}
}

// Count returns the number of currently registered clients.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clients)
}

// Snapshot returns a point-in-time copy of the registered clients, safe
// to range over without holding the lock.
func (d *Dispatcher) Snapshot() []*Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Client, 0, len(d.clients))
	for _, c := range d.clients {
		out = append(out, c)
	}
	return out
}

// Broadcast delivers msg to every client whose Subscribed flag is set
// (video/audio) or to every client unconditionally (control, which has
// no subscription concept). Back-pressure policy: drop-oldest — the
// oldest queued message for a full client is discarded before the new
// one is enqueued, per spec §4.2.
func (d *Dispatcher) Broadcast(msg []byte) {
	clients := d.Snapshot()

	fanout := 0
	maxDepth, sumDepth := 0, 0
	for _, c := range clients {
		if d.kind != Control && !c.Subscribed.Load() {
			continue
		}
		fanout++
		depth := len(c.Out)
		if depth > maxDepth {
			maxDepth = depth
		}
		sumDepth += depth
		d.enqueueDropOldest(c, msg)
	}

	metrics.ChannelBroadcastFanout.WithLabelValues(d.kind.String()).Set(float64(fanout))
	avg := 0
	if fanout > 0 {
		avg = sumDepth / fanout
	}
	metrics.SetQueueDepth(d.kind.String(), maxDepth, avg)
}

// enqueueDropOldest pushes msg onto c.Out, dropping the single oldest
// queued entry first if the buffer is already full.
func (d *Dispatcher) enqueueDropOldest(c *Client, msg []byte) {
	select {
	case c.Out <- msg:
		return
	default:
	}

	select {
	case <-c.Out:
		c.Drops.Add(1)
		metrics.ChannelDrops.WithLabelValues(d.kind.String()).Inc()
	default:
	}

	select {
	case c.Out <- msg:
	default:
		// the writer drained concurrently and another producer refilled
		// the slot; count this as a drop of the new message rather than
		// spin, since correctness only requires "prefer current state".
		c.Drops.Add(1)
		metrics.ChannelDrops.WithLabelValues(d.kind.String()).Inc()
	}
}

// Send delivers msg to a single client, blocking until it is accepted or
// the client disconnects. Used by the control channel, which must never
// silently drop a reply (spec §4.2: "for control channels the queue
// blocks/awaits").
func (d *Dispatcher) Send(c *Client, msg []byte) {
	select {
	case c.Out <- msg:
	case <-c.Closed:
	}
}

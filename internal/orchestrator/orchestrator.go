package orchestrator

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/internal/logging"
	"github.com/huegli/attic-sub012/internal/metrics"
)

// HaltReason names why the orchestrator is currently paused in the
// halted sub-state, per spec §4.5's state machine diagram.
type HaltReason int

const (
	HaltNone HaltReason = iota
	HaltBreakpoint
	HaltTrap
	HaltUser
	HaltCPUFault
)

type Option func(*Orchestrator)

// WithFrameInterval overrides the default ~60Hz tick between frames.
func WithFrameInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.frameInterval = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// Orchestrator is the single root object the redesign notes require all
// process state to be confined to: it owns the façade, the debugger, and
// the video/audio dispatchers, and is the only thing that calls
// AdvanceOneFrame.
type Orchestrator struct {
	mu            sync.Mutex
	cond          *sync.Cond
	running       atomic.Bool
	halted        atomic.Bool
	haltReason    HaltReason
	haltAddress   uint16
	frameInterval time.Duration
	frameCounter  atomic.Uint64

	facade *atari800.Facade
	debug  *debugger.Debugger
	video  *channel.Dispatcher
	audio  *channel.Dispatcher

	logger *slog.Logger

	stop    chan struct{}
	stopped chan struct{}
}

const defaultFrameInterval = time.Second / 60

// New constructs a paused orchestrator; call Start to begin the frame
// loop goroutine.
func New(facade *atari800.Facade, debug *debugger.Debugger, video, audio *channel.Dispatcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		frameInterval: defaultFrameInterval,
		facade:        facade,
		debug:         debug,
		video:         video,
		audio:         audio,
		logger:        logging.L(),
		stop:          make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	o.cond = sync.NewCond(&o.mu)
	return o
}

// Start launches the frame loop goroutine. Start must be called once.
func (o *Orchestrator) Start() {
	go o.loop()
}

// Stop halts the frame loop and waits for it to exit.
func (o *Orchestrator) Stop() {
	close(o.stop)
	o.cond.Broadcast()
	<-o.stopped
}

func (o *Orchestrator) IsPaused() bool { return !o.running.Load() }

func (o *Orchestrator) IsHalted() (bool, HaltReason, uint16) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.halted.Load(), o.haltReason, o.haltAddress
}

func (o *Orchestrator) FrameCounter() uint64 { return o.frameCounter.Load() }

// Pause transitions to paused; idempotent per spec §4.4.
func (o *Orchestrator) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running.Store(false)
}

// Resume performs the continue-from-breakpoint dance if necessary and
// transitions to running; idempotent.
func (o *Orchestrator) Resume() error {
	if err := o.debug.Resume(); err != nil {
		return err
	}
	o.mu.Lock()
	o.halted.Store(false)
	o.haltReason = HaltNone
	o.running.Store(true)
	o.mu.Unlock()
	o.cond.Broadcast()
	return nil
}

func (o *Orchestrator) pauseWithReason(reason HaltReason, addr uint16) {
	o.mu.Lock()
	o.running.Store(false)
	o.halted.Store(true)
	o.haltReason = reason
	o.haltAddress = addr
	o.mu.Unlock()
}

// Step runs exactly n frames while paused, halting early on any debugger
// event, per spec §4.4's "Step (frames)" operation.
func (o *Orchestrator) Step(n int) (debugger.Event, error) {
	for i := 0; i < n; i++ {
		outcome, _, err := o.facade.AdvanceOneFrame()
		if err != nil {
			return debugger.Event{}, err
		}
		o.frameCounter.Add(1)
		metrics.FrameCounter.Set(float64(o.frameCounter.Load()))
		ev := o.debug.HandleFrameOutcome(outcome)
		if ev.Kind != debugger.EventNone {
			o.applyHaltFromEvent(ev)
			return ev, nil
		}
	}
	o.pauseWithReason(HaltUser, 0)
	return debugger.Event{}, nil
}

func (o *Orchestrator) applyHaltFromEvent(ev debugger.Event) {
	switch ev.Kind {
	case debugger.EventBreakpoint:
		o.pauseWithReason(HaltBreakpoint, ev.Address)
	case debugger.EventCPUFault:
		o.pauseWithReason(HaltCPUFault, ev.Address)
	default:
		o.pauseWithReason(HaltTrap, ev.Address)
	}
}

// loop is the single frame-loop task: in running state it advances the
// emulator and publishes frames/audio; in paused state it blocks on the
// condition variable until Resume or Stop wakes it (Step runs its frames
// on the caller's goroutine and does not wake the loop). It never holds the
// façade lock across a dispatcher publish, per spec §4.8.
func (o *Orchestrator) loop() {
	defer close(o.stopped)
	ticker := time.NewTicker(o.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stop:
			return
		default:
		}

		if !o.running.Load() {
			o.mu.Lock()
			for !o.running.Load() {
				select {
				case <-o.stop:
					o.mu.Unlock()
					return
				default:
				}
				o.cond.Wait()
			}
			o.mu.Unlock()
			continue
		}

		select {
		case <-o.stop:
			return
		case <-ticker.C:
		}

		outcome, audioFrame, err := o.facade.AdvanceOneFrame()
		if err != nil {
			o.logger.Error("orchestrator: advance_one_frame failed", "error", err)
			o.pauseWithReason(HaltCPUFault, 0)
			continue
		}
		o.frameCounter.Add(1)
		metrics.FrameCounter.Set(float64(o.frameCounter.Load()))

		o.video.Broadcast(aesp.Encode(aesp.FrameRaw, o.facade.VideoFrame()))
		o.audio.Broadcast(aesp.Encode(aesp.AudioPcm, encodeAudioSamples(audioFrame)))

		ev := o.debug.HandleFrameOutcome(outcome)
		if ev.Kind != debugger.EventNone {
			o.applyHaltFromEvent(ev)
		}
	}
}

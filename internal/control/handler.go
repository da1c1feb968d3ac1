package control

import (
	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/atticerr"
	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/internal/logging"
	"github.com/huegli/attic-sub012/internal/metrics"
)

// Orchestrator is the slice of *orchestrator.Orchestrator the control
// handler needs. Defining it here (rather than importing the
// orchestrator package) keeps control free of a dependency on the
// process root object, per the redesign note confining global state to
// that single root.
type Orchestrator interface {
	Pause()
	Resume() error
	IsPaused() bool
	FrameCounter() uint64
	Step(n int) (debugger.Event, error)
}

// Handler implements connio.FrameHandler for the control channel.
type Handler struct {
	Facade  *atari800.Facade
	Debug   *debugger.Debugger
	Orch    Orchestrator
	Control *channel.Dispatcher
	Video   *channel.Dispatcher
	Audio   *channel.Dispatcher
}

func (h *Handler) Handle(client *channel.Client, frame aesp.Frame) {
	reply, err := h.dispatch(client, frame)
	if err != nil {
		metrics.Errors.WithLabelValues(atticerr.KindOf(err).Category(), atticerr.KindOf(err).String()).Inc()
		h.Control.Send(client, aesp.Encode(aesp.Error, aesp.EncodeErrorFrame(byte(atticerr.KindOf(err)), err.Error())))
		return
	}
	h.Control.Send(client, reply)
}

// dispatch returns the fully encoded reply frame for one request. Every
// branch replies with exactly one frame, satisfying the one-reply-per-
// request invariant.
func (h *Handler) dispatch(client *channel.Client, frame aesp.Frame) ([]byte, error) {
	metrics.ControlRequests.WithLabelValues(frame.Type.String()).Inc()

	switch frame.Type {
	case aesp.Ping:
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.Pause:
		h.Orch.Pause()
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.Resume:
		if err := h.Orch.Resume(); err != nil {
			return nil, err
		}
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.Reset:
		cold, err := aesp.DecodeReset(frame.Payload)
		if err != nil {
			return nil, err
		}
		h.Facade.Reset(cold)
		if cold {
			h.Debug.ResetBreakpoints()
		}
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.Status:
		return aesp.Encode(aesp.StatusReply, h.encodeStatus()), nil

	case aesp.VideoSubscribe, aesp.VideoUnsubscribe, aesp.AudioSubscribe, aesp.AudioUnsubscribe:
		// These belong to their own channel's connection in the
		// reference topology; a control-channel client asking for them
		// is a grammar error.
		return nil, atticerr.Errorf(atticerr.KindParseGrammar, "subscribe/unsubscribe must be sent on the video or audio connection")

	case aesp.KeyDown, aesp.KeyUp:
		key, err := aesp.DecodeKeyEvent(frame.Payload)
		if err != nil {
			return nil, err
		}
		h.Facade.StageKeyDown(atari800.KeyEvent{Char: key.Char, Code: key.Code, Flags: key.Flags})
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.Joystick:
		j, err := aesp.DecodeJoystickEvent(frame.Payload)
		if err != nil {
			return nil, err
		}
		h.Facade.StageJoystick(atari800.JoystickEvent{Port: j.Port, Directions: j.Directions, Trigger: j.Trigger})
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.ConsoleKeys:
		mask, err := aesp.DecodeConsoleKeys(frame.Payload)
		if err != nil {
			return nil, err
		}
		h.Facade.StageConsoleKeys(mask)
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.ReadMemory:
		addr, count, err := aesp.DecodeReadMemory(frame.Payload)
		if err != nil {
			return nil, err
		}
		return aesp.Encode(aesp.MemoryReply, h.Debug.ReadBlock(addr, int(count))), nil

	case aesp.WriteMemory:
		addr, data, err := aesp.DecodeWriteMemory(frame.Payload)
		if err != nil {
			return nil, err
		}
		h.Debug.WriteBlock(addr, data)
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.GetRegisters:
		return aesp.Encode(aesp.RegistersReply, aesp.EncodeRegisters(h.Facade.GetRegisters())), nil

	case aesp.Step:
		if !h.Orch.IsPaused() {
			return nil, atticerr.Errorf(atticerr.KindMustPause, "step requires the emulator to be paused")
		}
		n, err := aesp.DecodeStep(frame.Payload)
		if err != nil {
			return nil, err
		}
		_, err = h.Orch.Step(int(n))
		if err != nil {
			return nil, err
		}
		// The halt, if any, reaches every control client once through
		// StartEventPump's subscription to Debug.Events() — dispatch must
		// not broadcast it again here.
		return aesp.Encode(aesp.Ack, nil), nil

	case aesp.SetRegisters:
		if !h.Orch.IsPaused() {
			return nil, atticerr.Errorf(atticerr.KindMustPause, "set registers requires the emulator to be paused")
		}
		mask, regs, err := aesp.DecodeSetRegisters(frame.Payload)
		if err != nil {
			return nil, err
		}
		h.Facade.SetRegisters(mask, regs)
		return aesp.Encode(aesp.Ack, nil), nil

	default:
		logging.L().Debug("control: unsupported message type", "type", frame.Type.String())
		return nil, atticerr.Errorf(atticerr.KindParseGrammar, "unsupported control message type %s", frame.Type)
	}
}

func (h *Handler) encodeStatus() []byte {
	running := !h.Orch.IsPaused()
	status := byte(0)
	if running {
		status = 1
	}
	buf := make([]byte, 0, 16)
	buf = append(buf, status)
	fc := h.Orch.FrameCounter()
	buf = appendUint64(buf, fc)
	buf = append(buf, byte(len(h.Facade.ListDisks())))
	buf = append(buf, byte(len(h.Debug.List())))
	buf = append(buf, byte(h.Control.Count()), byte(h.Video.Count()), byte(h.Audio.Count()))
	return buf
}

func appendUint64(buf []byte, v uint64) []byte {
	for i := 7; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

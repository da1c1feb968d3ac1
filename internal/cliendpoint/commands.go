package cliendpoint

import (
	"fmt"
	"os"
	"strings"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/atticerr"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/internal/orchestrator"
)

// Orchestrator is the slice of *orchestrator.Orchestrator the CLI needs.
// Unlike internal/control, the CLI's "status" verb reports the halt
// reason, so this interface names orchestrator.HaltReason directly
// rather than mirroring it — there is no import cycle back from
// orchestrator to cliendpoint to avoid.
type Orchestrator interface {
	Pause()
	Resume() error
	IsPaused() bool
	FrameCounter() uint64
	Step(n int) (debugger.Event, error)
	IsHalted() (halted bool, reason orchestrator.HaltReason, address uint16)
}

// Handler executes one CLI request line against the shared emulator
// state and returns the response text, without the OK:/ERR: prefix or the
// trailing newline the connection loop adds; multi-line bodies come back
// already joined with record separators.
type Handler struct {
	Facade *atari800.Facade
	Debug  *debugger.Debugger
	Orch   Orchestrator

	// Shutdown, if set, is invoked once when a client sends "shutdown";
	// the CLI layer has no opinion on what that does (cmd/atticd wires it
	// to the process root object's teardown).
	Shutdown func()
}

func haltReasonName(reason orchestrator.HaltReason) string {
	switch reason {
	case orchestrator.HaltBreakpoint:
		return "breakpoint"
	case orchestrator.HaltTrap:
		return "trap"
	case orchestrator.HaltUser:
		return "user"
	case orchestrator.HaltCPUFault:
		return "cpu_fault"
	default:
		return "none"
	}
}

// Execute parses and runs a single command line, returning (true, body)
// on success or (false, message) on failure.
func (h *Handler) Execute(line string) (ok bool, body string) {
	verb, args, err := parseRequest(line)
	if err != nil {
		return false, err.Error()
	}

	fn, known := commands[verb]
	if !known {
		return false, fmt.Sprintf("unknown command %q", verb)
	}
	result, err := fn(h, args)
	if err != nil {
		return false, err.Error()
	}
	return true, result
}

type commandFunc func(h *Handler, args *Tokens) (string, error)

var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"ping":        cmdPing,
		"version":     cmdVersion,
		"quit":        cmdQuit,
		"shutdown":    cmdShutdown,
		"pause":       cmdPause,
		"resume":      cmdResume,
		"step":        cmdStep,
		"reset":       cmdReset,
		"status":      cmdStatus,
		"read":        cmdRead,
		"write":       cmdWrite,
		"registers":   cmdRegisters,
		"breakpoint":  cmdBreakpoint,
		"stepover":    cmdStepOver,
		"until":       cmdUntil,
		"fill":        cmdFill,
		"mount":       cmdMount,
		"unmount":     cmdUnmount,
		"drives":      cmdDrives,
		"state":       cmdState,
		"replay":      cmdReplay,
		"disassemble": cmdDisassemble,
		"assemble":    cmdAssemble,
		"screenshot":  cmdScreenshot,
		"inject":      cmdInject,
	}
}

func cmdPing(h *Handler, args *Tokens) (string, error) { return "pong", nil }

func cmdVersion(h *Handler, args *Tokens) (string, error) { return "aesp-cli 1", nil }

func cmdQuit(h *Handler, args *Tokens) (string, error) { return "bye", nil }

func cmdShutdown(h *Handler, args *Tokens) (string, error) {
	if h.Shutdown != nil {
		h.Shutdown()
	}
	return "shutting down", nil
}

func cmdPause(h *Handler, args *Tokens) (string, error) {
	h.Orch.Pause()
	return "", nil
}

func cmdResume(h *Handler, args *Tokens) (string, error) {
	if err := h.Orch.Resume(); err != nil {
		return "", err
	}
	return "", nil
}

func cmdStep(h *Handler, args *Tokens) (string, error) {
	if !h.Orch.IsPaused() {
		return "", atticerr.Errorf(atticerr.KindMustPause, "step requires the emulator to be paused")
	}
	n := 1
	if s, more := args.Get(); more {
		v, err := parseHexOrDec(s)
		if err != nil {
			return "", err
		}
		n = int(v)
	}
	ev, err := h.Orch.Step(n)
	if err != nil {
		return "", err
	}
	return formatEvent(ev), nil
}

func cmdStepOver(h *Handler, args *Tokens) (string, error) {
	if !h.Orch.IsPaused() {
		return "", atticerr.Errorf(atticerr.KindMustPause, "stepover requires the emulator to be paused")
	}
	ev, err := h.Debug.StepOver()
	if err != nil {
		return "", err
	}
	return formatEvent(ev), nil
}

func cmdUntil(h *Handler, args *Tokens) (string, error) {
	if !h.Orch.IsPaused() {
		return "", atticerr.Errorf(atticerr.KindMustPause, "until requires the emulator to be paused")
	}
	addrTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: until <addr>")
	}
	addr, err := parseAddress(addrTok)
	if err != nil {
		return "", err
	}
	ev, err := h.Debug.RunUntil(addr)
	if err != nil {
		return "", err
	}
	return formatEvent(ev), nil
}

func formatEvent(ev debugger.Event) string {
	if ev.Kind == debugger.EventNone {
		return "running"
	}
	return fmt.Sprintf("%s at %s hits=%d %s", ev.Kind, formatAddress(ev.Address), ev.HitCount, formatRegisters(ev.Registers))
}

func cmdReset(h *Handler, args *Tokens) (string, error) {
	cold := false
	if s, more := args.Get(); more {
		switch strings.ToLower(s) {
		case "cold":
			cold = true
		case "warm":
			cold = false
		default:
			return "", atticerr.Errorf(atticerr.KindParseArgument, "reset expects 'cold' or 'warm', got %q", s)
		}
	}
	h.Facade.Reset(cold)
	if cold {
		h.Debug.ResetBreakpoints()
	}
	return "", nil
}

func cmdStatus(h *Handler, args *Tokens) (string, error) {
	running := !h.Orch.IsPaused()
	halted, reason, addr := h.Orch.IsHalted()
	state := "running"
	if !running {
		state = "paused"
	}
	msg := fmt.Sprintf("state=%s frame=%d disks=%d breakpoints=%d", state, h.Orch.FrameCounter(), len(h.Facade.ListDisks()), len(h.Debug.List()))
	if halted {
		msg += fmt.Sprintf(" halted=%s addr=%s", haltReasonName(reason), formatAddress(addr))
	}
	return msg, nil
}

func cmdRead(h *Handler, args *Tokens) (string, error) {
	addrTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: read <addr> <count>")
	}
	addr, err := parseAddress(addrTok)
	if err != nil {
		return "", err
	}
	count := 1
	if s, more := args.Get(); more {
		v, err := parseHexOrDec(s)
		if err != nil {
			return "", err
		}
		count = int(v)
	}
	data := h.Debug.ReadBlock(addr, count)
	return formatByteList(data), nil
}

func cmdWrite(h *Handler, args *Tokens) (string, error) {
	addrTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: write <addr> <bytes>")
	}
	addr, err := parseAddress(addrTok)
	if err != nil {
		return "", err
	}
	data, err := parseByteList(args.Remainder())
	if err != nil {
		return "", err
	}
	h.Debug.WriteBlock(addr, data)
	return "", nil
}

func formatRegisters(r aesp.Registers) string {
	return fmt.Sprintf("A=%s X=%s Y=%s S=%s P=%s PC=%s", formatByte(r.A), formatByte(r.X), formatByte(r.Y), formatByte(r.S), formatByte(r.P), formatAddress(r.PC))
}

func cmdRegisters(h *Handler, args *Tokens) (string, error) {
	if args.Remaining() == 0 {
		return formatRegisters(h.Facade.GetRegisters()), nil
	}
	if !h.Orch.IsPaused() {
		return "", atticerr.Errorf(atticerr.KindMustPause, "setting registers requires the emulator to be paused")
	}
	var mask aesp.RegisterMask
	r := h.Facade.GetRegisters()
	for {
		tok, more := args.Get()
		if !more {
			break
		}
		parts := strings.SplitN(tok, "=", 2)
		if len(parts) != 2 {
			return "", atticerr.Errorf(atticerr.KindParseArgument, "register assignment must look like A=$NN, got %q", tok)
		}
		v, err := parseHexOrDec(parts[1])
		if err != nil {
			return "", err
		}
		switch strings.ToUpper(parts[0]) {
		case "A":
			r.A, mask = byte(v), mask|aesp.RegA
		case "X":
			r.X, mask = byte(v), mask|aesp.RegX
		case "Y":
			r.Y, mask = byte(v), mask|aesp.RegY
		case "S":
			r.S, mask = byte(v), mask|aesp.RegS
		case "P":
			r.P, mask = byte(v), mask|aesp.RegP
		case "PC":
			r.PC, mask = uint16(v), mask|aesp.RegPC
		default:
			return "", atticerr.Errorf(atticerr.KindParseArgument, "unknown register %q", parts[0])
		}
	}
	h.Facade.SetRegisters(mask, r)
	return formatRegisters(h.Facade.GetRegisters()), nil
}

func cmdBreakpoint(h *Handler, args *Tokens) (string, error) {
	sub, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: breakpoint {set|clear|clearall|list|graph} [addr]")
	}
	switch strings.ToLower(sub) {
	case "set":
		addrTok, more := args.Get()
		if !more {
			return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: breakpoint set <addr>")
		}
		addr, err := parseAddress(addrTok)
		if err != nil {
			return "", err
		}
		bp, err := h.Debug.Set(addr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("set %s (%s)", formatAddress(bp.Address), bp.Kind), nil

	case "clear":
		addrTok, more := args.Get()
		if !more {
			return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: breakpoint clear <addr>")
		}
		addr, err := parseAddress(addrTok)
		if err != nil {
			return "", err
		}
		if err := h.Debug.Clear(addr); err != nil {
			return "", err
		}
		return "", nil

	case "clearall":
		if err := h.Debug.ClearAll(); err != nil {
			return "", err
		}
		return "", nil

	case "list":
		return formatBreakpointList(h.Debug.List()), nil

	case "graph":
		return h.Debug.Graph(), nil

	default:
		return "", atticerr.Errorf(atticerr.KindParseArgument, "unknown breakpoint subcommand %q", sub)
	}
}

func formatBreakpointList(bps []debugger.Breakpoint) string {
	if len(bps) == 0 {
		return "(none)"
	}
	lines := make([]string, len(bps))
	for i, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		lines[i] = fmt.Sprintf("%s %s hits=%d %s", formatAddress(bp.Address), bp.Kind, bp.HitCount, status)
	}
	return strings.Join(lines, "\x1e")
}

func cmdFill(h *Handler, args *Tokens) (string, error) {
	startTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: fill <start> <end> <byte>")
	}
	endTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: fill <start> <end> <byte>")
	}
	valTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: fill <start> <end> <byte>")
	}
	start, err := parseAddress(startTok)
	if err != nil {
		return "", err
	}
	end, err := parseAddress(endTok)
	if err != nil {
		return "", err
	}
	val, err := parseByte(valTok)
	if err != nil {
		return "", err
	}
	h.Debug.Fill(start, end, val)
	return "", nil
}

func cmdMount(h *Handler, args *Tokens) (string, error) {
	slotTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: mount <drive> <name>")
	}
	slot, err := parseHexOrDec(slotTok)
	if err != nil {
		return "", err
	}
	name := args.Remainder()
	if name == "" {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: mount <drive> <name>")
	}
	if err := h.Facade.MountDisk(int(slot), atari800.Disk{Name: name}); err != nil {
		return "", err
	}
	return "", nil
}

func cmdUnmount(h *Handler, args *Tokens) (string, error) {
	slotTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: unmount <drive>")
	}
	slot, err := parseHexOrDec(slotTok)
	if err != nil {
		return "", err
	}
	if err := h.Facade.UnmountDisk(int(slot)); err != nil {
		return "", err
	}
	return "", nil
}

func cmdDrives(h *Handler, args *Tokens) (string, error) {
	disks := h.Facade.ListDisks()
	if len(disks) == 0 {
		return "(none)", nil
	}
	names := make([]string, len(disks))
	for i, d := range disks {
		names[i] = d.Name
	}
	return strings.Join(names, "\x1e"), nil
}

func cmdState(h *Handler, args *Tokens) (string, error) {
	sub, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: state {save|load} <path>")
	}
	path, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: state {save|load} <path>")
	}
	switch strings.ToLower(sub) {
	case "save":
		if err := os.WriteFile(path, h.Facade.Snapshot(), 0o600); err != nil {
			return "", atticerr.Errorf(atticerr.KindParseArgument, "state save: %v", err)
		}
		return "", nil
	case "load":
		blob, err := os.ReadFile(path)
		if err != nil {
			return "", atticerr.Errorf(atticerr.KindParseArgument, "state load: %v", err)
		}
		if err := h.Facade.Restore(blob); err != nil {
			return "", err
		}
		return "", nil
	default:
		return "", atticerr.Errorf(atticerr.KindParseArgument, "unknown state subcommand %q", sub)
	}
}

func cmdDisassemble(h *Handler, args *Tokens) (string, error) {
	addr := h.Facade.PC()
	if s, more := args.Get(); more {
		a, err := parseAddress(s)
		if err != nil {
			return "", err
		}
		addr = a
	}
	lines := 10
	if s, more := args.Get(); more {
		v, err := parseHexOrDec(s)
		if err != nil {
			return "", err
		}
		lines = int(v)
	}
	decoded := h.Facade.Disassemble(addr, lines)
	out := make([]string, len(decoded))
	for i, l := range decoded {
		out[i] = fmt.Sprintf("%s %s", formatAddress(l.Address), l.Text)
	}
	return strings.Join(out, "\x1e"), nil
}

func cmdAssemble(h *Handler, args *Tokens) (string, error) {
	if !h.Orch.IsPaused() {
		return "", atticerr.Errorf(atticerr.KindMustPause, "assemble requires the emulator to be paused")
	}
	addrTok, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: assemble <addr> <bytes>")
	}
	addr, err := parseAddress(addrTok)
	if err != nil {
		return "", err
	}
	data, err := parseByteList(args.Remainder())
	if err != nil {
		return "", err
	}
	h.Debug.WriteBlock(addr, data)
	return "", nil
}

// cmdScreenshot writes the current video frame's raw bytes to a local
// file; real image encoding is out of scope alongside the rest of
// video rendering (spec §1 Non-goals).
func cmdScreenshot(h *Handler, args *Tokens) (string, error) {
	path, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: screenshot <path>")
	}
	if err := os.WriteFile(path, h.Facade.VideoFrame(), 0o600); err != nil {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "screenshot: %v", err)
	}
	return "", nil
}

// cmdInject stages keyboard input; BASIC program injection is out of
// scope (spec §1 Non-goals: no BASIC tokenization), so "inject basic"
// is rejected rather than silently accepted.
func cmdInject(h *Handler, args *Tokens) (string, error) {
	kind, more := args.Get()
	if !more {
		return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: inject {keys} <data>")
	}
	switch strings.ToLower(kind) {
	case "keys":
		text := args.Remainder()
		if text == "" {
			return "", atticerr.Errorf(atticerr.KindParseArgument, "usage: inject keys <text>")
		}
		for _, ch := range text {
			h.Facade.StageKeyDown(atari800.KeyEvent{Char: byte(ch)})
		}
		return fmt.Sprintf("staged %d keys", len(text)), nil
	case "basic":
		return "", atticerr.Errorf(atticerr.KindParseGrammar, "BASIC program injection is not supported")
	default:
		return "", atticerr.Errorf(atticerr.KindParseArgument, "unknown inject kind %q", kind)
	}
}

func cmdReplay(h *Handler, args *Tokens) (string, error) {
	n := 20
	if s, more := args.Get(); more {
		v, err := parseHexOrDec(s)
		if err != nil {
			return "", err
		}
		n = int(v)
	}
	lines := h.Debug.Replay(n)
	if len(lines) == 0 {
		return "(empty)", nil
	}
	return strings.Join(lines, "\x1e"), nil
}

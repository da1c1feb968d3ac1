package debugger

import (
	"strings"
	"sync"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/logger"
)

// Emulator is the subset of the façade the debugger core drives. It is
// satisfied directly by *atari800.Facade; the interface exists so tests
// can substitute a smaller fake.
type Emulator interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, v byte)
	ReadBlock(addr uint16, count int) []byte
	WriteBlock(addr uint16, data []byte)
	PC() uint16
	StepOneInstruction() (atari800.FrameOutcome, error)
	InstructionLength(addr uint16) int
	IsCall(addr uint16) bool
	GetRegisters() aesp.Registers
	SetRegisters(mask aesp.RegisterMask, r aesp.Registers)
}

// Debugger is the single owner of the breakpoint table, the temporary
// breakpoint slot, and the event bus — "Process-wide global state:
// confine to the orchestrator's single root object" led to wiring one
// Debugger per Orchestrator rather than package-level state.
type Debugger struct {
	mu          sync.Mutex
	emu         Emulator
	breakpoints map[uint16]*Breakpoint
	temporary   *Breakpoint
	halt        *haltState
	isPaused    func() bool

	events *EventBus
	// replay is a ring buffer of recent events so a CLI client that
	// reconnects mid-session can catch up, repurposing the teacher's
	// logger.Logger rather than hand-rolling another ring buffer.
	replay *logger.Logger
}

// New constructs a Debugger over emu. isPaused reports the orchestrator's
// current pause state; breakpoint mutation refuses to proceed unless it
// returns true.
func New(emu Emulator, isPaused func() bool) *Debugger {
	return &Debugger{
		emu:         emu,
		breakpoints: make(map[uint16]*Breakpoint),
		isPaused:    isPaused,
		events:      NewEventBus(),
		replay:      logger.NewLogger(64),
	}
}

func (d *Debugger) Events() *EventBus { return d.events }

// ResetBreakpoints clears the table without the paused/restore dance,
// used only by a cold reset (Open Question decision: cold reset clears
// breakpoints and watches, warm reset preserves them).
func (d *Debugger) ResetBreakpoints() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakpoints = make(map[uint16]*Breakpoint)
	d.temporary = nil
}

func (d *Debugger) logEvent(ev Event) {
	d.replay.Logf(logger.Allow, "debugger", "%s at $%04X (hits=%d)", ev.Kind, ev.Address, ev.HitCount)
	d.events.Publish(ev)
}

// Replay returns the most recent buffered debugger log lines, surfaced
// to a CLI client that just (re)connected.
func (d *Debugger) Replay(n int) []string {
	var sb strings.Builder
	d.replay.Tail(&sb, n)
	text := sb.String()
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

package debugger

import (
	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/atticerr"
	"github.com/huegli/attic-sub012/internal/metrics"
)

// haltState, held in d.halt while non-nil, names the breakpoint the
// emulator is currently sitting on. Step and Resume consult it to run the continue-from-
// breakpoint dance before executing past it.
type haltState struct {
	breakpoint *Breakpoint
}

// Step advances exactly one instruction, honoring the continue-from-
// breakpoint dance if the emulator is currently halted on a substituted
// breakpoint.
func (d *Debugger) Step() (Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepLocked()
}

func (d *Debugger) stepLocked() (Event, error) {
	if d.halt != nil && d.halt.breakpoint != nil && d.halt.breakpoint.Kind == Substituted {
		if err := d.resumePastSubstitutedLocked(d.halt.breakpoint); err != nil {
			return Event{}, err
		}
	}
	d.halt = nil

	outcome, err := d.emu.StepOneInstruction()
	if err != nil {
		return Event{}, err
	}
	return d.handleOutcomeLocked(outcome), nil
}

// resumePastSubstitutedLocked performs the restore/step/re-trap sequence
// spec §4.5 requires before execution can continue past a substituted
// breakpoint: the trap byte is put back after the original instruction
// has executed once.
//
// The minimal CPU core models BRK by advancing PC by two and pushing
// PC/flags, rather than vectoring through an IRQ table it doesn't have.
// To undo that before replaying the real instruction, the three pushed
// bytes are popped back off (restoring the stack pointer) and PC is
// reset to the breakpoint address.
func (d *Debugger) resumePastSubstitutedLocked(bp *Breakpoint) error {
	regs := d.emu.GetRegisters()
	regs.S += 3
	regs.PC = bp.Address
	d.emu.SetRegisters(aesp.RegS|aesp.RegPC, regs)

	d.emu.WriteByte(bp.Address, bp.SavedByte)
	if _, err := d.emu.StepOneInstruction(); err != nil {
		return err
	}
	if bp.Enabled {
		d.emu.WriteByte(bp.Address, atari800.TrapOpcode)
	}
	return nil
}

// StepOver executes the instruction at PC; if it is a subroutine call, a
// temporary breakpoint is installed at the return address and execution
// resumes until it fires.
func (d *Debugger) StepOver() (Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pc := d.emu.PC()
	if !d.emu.IsCall(pc) {
		return d.stepLocked()
	}

	ret := pc + uint16(d.emu.InstructionLength(pc))
	if err := d.installTemporaryLocked(ret); err != nil {
		return Event{}, err
	}
	return d.runUntilTemporaryLocked()
}

// RunUntil installs a temporary breakpoint at addr and runs until it (or
// any other breakpoint) fires.
func (d *Debugger) RunUntil(addr uint16) (Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.installTemporaryLocked(addr); err != nil {
		return Event{}, err
	}
	return d.runUntilTemporaryLocked()
}

func (d *Debugger) installTemporaryLocked(addr uint16) error {
	if _, exists := d.breakpoints[addr]; exists {
		// a real breakpoint already covers this address; no temporary
		// needed, runUntilTemporaryLocked just runs until any halt.
		return nil
	}
	bp := &Breakpoint{Address: addr, Kind: classify(addr), Enabled: true}
	if bp.Kind == Substituted {
		bp.SavedByte = d.emu.ReadByte(addr)
		d.emu.WriteByte(addr, atari800.TrapOpcode)
	}
	d.temporary = bp
	return nil
}

func (d *Debugger) clearTemporaryLocked() {
	if d.temporary == nil {
		return
	}
	if d.temporary.Kind == Substituted {
		d.emu.WriteByte(d.temporary.Address, d.temporary.SavedByte)
	}
	d.temporary = nil
}

// runUntilTemporaryLocked single-steps until the temporary breakpoint
// (or any regular one) fires, a CPU fault occurs, or the instruction
// budget is exhausted — the budget exists only so a runaway program
// under test can't hang the debugger forever.
func (d *Debugger) runUntilTemporaryLocked() (Event, error) {
	const budget = 1_000_000
	for i := 0; i < budget; i++ {
		if d.halt != nil && d.halt.breakpoint != nil && d.halt.breakpoint.Kind == Substituted {
			if err := d.resumePastSubstitutedLocked(d.halt.breakpoint); err != nil {
				d.clearTemporaryLocked()
				return Event{}, err
			}
			d.halt = nil
		}

		outcome, err := d.emu.StepOneInstruction()
		if err != nil {
			d.clearTemporaryLocked()
			return Event{}, err
		}
		ev := d.handleOutcomeLocked(outcome)
		if ev.Kind != EventNone {
			d.clearTemporaryLocked()
			return ev, nil
		}
	}
	d.clearTemporaryLocked()
	return Event{}, atticerr.Errorf(atticerr.KindCPUFault, "run-until exceeded instruction budget without halting")
}

// handleOutcomeLocked interprets a frame/instruction outcome into a
// debugger event, applying both substituted-trap and watched-PC hit
// detection. It records which breakpoint (if any) the emulator is now
// halted on, for the next Step/Resume call to reason about.
func (d *Debugger) handleOutcomeLocked(outcome atari800.FrameOutcome) Event {
	switch outcome {
	case atari800.OutcomeCPUFault:
		ev := Event{Kind: EventCPUFault, Registers: d.emu.GetRegisters()}
		d.logEvent(ev)
		return ev

	case atari800.OutcomeTrap:
		// Our minimal core's BRK always advances PC by exactly two before
		// pushing state, matching canonical 6502 BRK semantics.
		haltedPC := d.emu.PC()
		addr := haltedPC - 2
		if bp, ok := d.breakpoints[addr]; ok && bp.Kind == Substituted && bp.Enabled {
			bp.HitCount++
			metrics.BreakpointHits.WithLabelValues(bp.Kind.String()).Inc()
			d.halt = &haltState{breakpoint: bp}
			ev := Event{Kind: EventBreakpoint, Address: addr, HitCount: bp.HitCount, Registers: d.emu.GetRegisters()}
			d.logEvent(ev)
			return ev
		}
		if d.temporary != nil && d.temporary.Address == addr && d.temporary.Kind == Substituted {
			d.temporary.HitCount++
			metrics.BreakpointHits.WithLabelValues(d.temporary.Kind.String()).Inc()
			d.halt = &haltState{breakpoint: d.temporary}
			ev := Event{Kind: EventBreakpoint, Address: addr, HitCount: d.temporary.HitCount, Registers: d.emu.GetRegisters()}
			d.logEvent(ev)
			return ev
		}
		ev := Event{Kind: EventStopped, Address: addr, Registers: d.emu.GetRegisters()}
		d.logEvent(ev)
		return ev

	default:
		pc := d.emu.PC()
		if bp, ok := d.breakpoints[pc]; ok && bp.Kind == Watched && bp.Enabled {
			bp.HitCount++
			metrics.BreakpointHits.WithLabelValues(bp.Kind.String()).Inc()
			ev := Event{Kind: EventBreakpoint, Address: pc, HitCount: bp.HitCount, Registers: d.emu.GetRegisters()}
			d.logEvent(ev)
			return ev
		}
		if d.temporary != nil && d.temporary.Address == pc && d.temporary.Kind == Watched {
			d.temporary.HitCount++
			metrics.BreakpointHits.WithLabelValues(d.temporary.Kind.String()).Inc()
			ev := Event{Kind: EventBreakpoint, Address: pc, HitCount: d.temporary.HitCount, Registers: d.emu.GetRegisters()}
			d.logEvent(ev)
			return ev
		}
		return Event{}
	}
}

// HandleFrameOutcome is the orchestrator's hook after a running-mode
// advance_one_frame call: it performs the same hit-detection as the
// single-step path so a trap hit during free-running playback is
// reported identically to one hit while single-stepping.
func (d *Debugger) HandleFrameOutcome(outcome atari800.FrameOutcome) Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handleOutcomeLocked(outcome)
}

// Resume performs the continue-from-breakpoint dance (if currently
// halted on a substituted breakpoint) and reports whether the caller
// may now resume free-running playback.
func (d *Debugger) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halt == nil || d.halt.breakpoint == nil || d.halt.breakpoint.Kind != Substituted {
		d.halt = nil
		return nil
	}
	err := d.resumePastSubstitutedLocked(d.halt.breakpoint)
	d.halt = nil
	return err
}

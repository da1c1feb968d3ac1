package debugger_test

import (
	"testing"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/test"
)

func setPC(f *atari800.Facade, pc uint16) {
	f.SetRegisters(aesp.RegPC, aesp.Registers{PC: pc})
}

func TestStepHitsSubstitutedBreakpointThenContinuesPastIt(t *testing.T) {
	f := pausedFacade()
	f.WriteByte(0x0600, 0xEA) // NOP, the instruction the breakpoint covers
	f.WriteByte(0x0601, 0xEA) // NOP, executed once the breakpoint dance completes
	setPC(f, 0x0600)

	d := debugger.New(f, func() bool { return true })
	bp, err := d.Set(0x0600)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, f.ReadByte(0x0600), atari800.TrapOpcode)

	ev, err := d.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ev.Kind, debugger.EventBreakpoint)
	test.ExpectEquality(t, ev.Address, bp.Address)
	test.ExpectEquality(t, ev.HitCount, uint64(1))

	ev, err = d.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ev.Kind, debugger.EventNone)
	test.ExpectEquality(t, f.PC(), uint16(0x0602))
	// the breakpoint is re-armed once execution has moved past it
	test.ExpectEquality(t, f.ReadByte(0x0600), atari800.TrapOpcode)
}

func TestStepOverSkipsSubroutineCall(t *testing.T) {
	f := pausedFacade()
	// JSR $0610 at $0600 (3 bytes); the return address $0603 holds a NOP
	// that the temporary breakpoint's trap byte must stand in for, then
	// restore; RTS at $0610.
	f.WriteBlock(0x0600, []byte{0x20, 0x10, 0x06})
	f.WriteByte(0x0603, 0xEA)
	f.WriteByte(0x0610, 0x60)
	setPC(f, 0x0600)

	d := debugger.New(f, func() bool { return true })
	ev, err := d.StepOver()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ev.Kind, debugger.EventBreakpoint)
	test.ExpectEquality(t, ev.Address, uint16(0x0603))
	test.ExpectEquality(t, ev.HitCount, uint64(1))
	// the temporary breakpoint leaves no trace in the permanent table,
	// and the instruction it stood in for is restored.
	test.Equate(t, len(d.List()), 0)
	test.ExpectEquality(t, f.ReadByte(0x0603), byte(0xEA))
}

func TestRunUntilStopsAtTargetAddress(t *testing.T) {
	f := pausedFacade()
	f.WriteBlock(0x0600, []byte{0xEA, 0xEA, 0xEA}) // three NOPs
	setPC(f, 0x0600)

	d := debugger.New(f, func() bool { return true })
	ev, err := d.RunUntil(0x0602)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ev.Kind, debugger.EventBreakpoint)
	test.ExpectEquality(t, ev.Address, uint16(0x0602))
	test.ExpectEquality(t, ev.HitCount, uint64(1))
	// the temporary breakpoint leaves no trace in the permanent table
	test.Equate(t, len(d.List()), 0)
	test.ExpectEquality(t, f.ReadByte(0x0602), byte(0xEA))
}

func TestResumePastBreakpointClearsHaltWithoutStepping(t *testing.T) {
	f := pausedFacade()
	f.WriteByte(0x0600, 0xEA)
	setPC(f, 0x0600)

	d := debugger.New(f, func() bool { return true })
	_, err := d.Set(0x0600)
	test.ExpectSuccess(t, err)

	_, err = d.Step()
	test.ExpectSuccess(t, err)

	err = d.Resume()
	test.ExpectSuccess(t, err)
	// the saved instruction byte has been restored and the trap re-armed
	test.ExpectEquality(t, f.ReadByte(0x0600), atari800.TrapOpcode)
}

func TestHandleFrameOutcomeReportsWatchedBreakpointHit(t *testing.T) {
	f := pausedFacade()
	setPC(f, atari800.ROMFloor)

	d := debugger.New(f, func() bool { return true })
	bp, err := d.Set(atari800.ROMFloor)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, bp.Kind, debugger.Watched)

	ev := d.HandleFrameOutcome(atari800.OutcomeOK)
	test.ExpectEquality(t, ev.Kind, debugger.EventBreakpoint)
	test.ExpectEquality(t, ev.Address, atari800.ROMFloor)
	test.ExpectEquality(t, ev.HitCount, uint64(1))
}

package cliendpoint_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/cliendpoint"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/internal/orchestrator"
	"github.com/huegli/attic-sub012/test"
)

type fakeOrchestrator struct {
	paused       bool
	haltReason   orchestrator.HaltReason
	haltAddr     uint16
	halted       bool
	frameCounter uint64
	stepFn       func(n int) (debugger.Event, error)
	resumeFn     func() error
}

func (f *fakeOrchestrator) Pause()               { f.paused = true }
func (f *fakeOrchestrator) IsPaused() bool       { return f.paused }
func (f *fakeOrchestrator) FrameCounter() uint64 { return f.frameCounter }
func (f *fakeOrchestrator) Resume() error {
	if f.resumeFn != nil {
		if err := f.resumeFn(); err != nil {
			return err
		}
	}
	f.paused = false
	return nil
}
func (f *fakeOrchestrator) Step(n int) (debugger.Event, error) {
	if f.stepFn != nil {
		return f.stepFn(n)
	}
	return debugger.Event{}, nil
}
func (f *fakeOrchestrator) IsHalted() (bool, orchestrator.HaltReason, uint16) {
	return f.halted, f.haltReason, f.haltAddr
}

func newHandler(t *testing.T) (*cliendpoint.Handler, *fakeOrchestrator) {
	t.Helper()
	facade := atari800.NewFacade()
	facade.Reset(true)
	orch := &fakeOrchestrator{paused: true}
	h := &cliendpoint.Handler{
		Facade: facade,
		Debug:  debugger.New(facade, orch.IsPaused),
		Orch:   orch,
	}
	return h, orch
}

func expectOK(t *testing.T, h *cliendpoint.Handler, line string) string {
	t.Helper()
	ok, body := h.Execute(line)
	if !ok {
		t.Fatalf("expected OK for %q, got ERR:%s", line, body)
	}
	return body
}

func expectErr(t *testing.T, h *cliendpoint.Handler, line string) string {
	t.Helper()
	ok, body := h.Execute(line)
	if ok {
		t.Fatalf("expected ERR for %q, got OK:%s", line, body)
	}
	return body
}

func TestExecutePingAndVersion(t *testing.T) {
	h, _ := newHandler(t)
	test.Equate(t, expectOK(t, h, "ping"), "pong")
	test.ExpectEquality(t, strings.Contains(expectOK(t, h, "version"), "aesp-cli"), true)
}

func TestExecuteUnknownCommand(t *testing.T) {
	h, _ := newHandler(t)
	body := expectErr(t, h, "frobnicate")
	test.ExpectEquality(t, strings.Contains(body, "frobnicate"), true)
}

func TestExecutePauseAndResume(t *testing.T) {
	h, orch := newHandler(t)
	orch.paused = false

	expectOK(t, h, "pause")
	test.ExpectEquality(t, orch.paused, true)

	expectOK(t, h, "resume")
	test.ExpectEquality(t, orch.paused, false)
}

func TestExecuteStepRequiresPause(t *testing.T) {
	h, orch := newHandler(t)
	orch.paused = false

	body := expectErr(t, h, "step")
	test.ExpectEquality(t, strings.Contains(body, "paused"), true)
}

func TestExecuteStepDefaultsToOneFrame(t *testing.T) {
	h, _ := newHandler(t)
	var got int
	h.Orch.(*fakeOrchestrator).stepFn = func(n int) (debugger.Event, error) {
		got = n
		return debugger.Event{Kind: debugger.EventNone}, nil
	}

	body := expectOK(t, h, "step")
	test.ExpectEquality(t, got, 1)
	test.Equate(t, body, "running")
}

func TestExecuteStepParsesFrameCount(t *testing.T) {
	h, _ := newHandler(t)
	var got int
	h.Orch.(*fakeOrchestrator).stepFn = func(n int) (debugger.Event, error) {
		got = n
		return debugger.Event{Kind: debugger.EventNone}, nil
	}

	expectOK(t, h, "step 10")
	test.ExpectEquality(t, got, 10)
}

func TestExecuteResetColdClearsMemoryAndBreakpoints(t *testing.T) {
	h, _ := newHandler(t)
	h.Facade.WriteByte(0x0600, 0xEA)
	_, err := h.Debug.Set(0x0600)
	test.ExpectSuccess(t, err)

	expectOK(t, h, "reset cold")

	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), byte(0))
	test.ExpectEquality(t, len(h.Debug.List()), 0)
}

func TestExecuteStatusReportsPausedState(t *testing.T) {
	h, _ := newHandler(t)
	body := expectOK(t, h, "status")
	test.ExpectEquality(t, strings.Contains(body, "state=paused"), true)
}

func TestExecuteStatusReportsHaltedAddress(t *testing.T) {
	h, orch := newHandler(t)
	orch.halted = true
	orch.haltReason = orchestrator.HaltBreakpoint
	orch.haltAddr = 0x0600

	body := expectOK(t, h, "status")
	test.ExpectEquality(t, strings.Contains(body, "halted=breakpoint"), true)
	test.ExpectEquality(t, strings.Contains(body, "addr=$600"), true)
}

func TestExecuteWriteThenReadRoundTrips(t *testing.T) {
	h, _ := newHandler(t)
	expectOK(t, h, "write $0600 A9,01,60")
	body := expectOK(t, h, "read $0600 3")
	test.Equate(t, body, "A9,01,60")
}

func TestExecuteRegistersGetAndSet(t *testing.T) {
	h, _ := newHandler(t)
	body := expectOK(t, h, "registers")
	test.ExpectEquality(t, strings.Contains(body, "A="), true)

	expectOK(t, h, "registers A=$42 PC=$0600")
	regs := h.Facade.GetRegisters()
	test.ExpectEquality(t, regs.A, byte(0x42))
	test.ExpectEquality(t, regs.PC, uint16(0x0600))
}

func TestExecuteRegistersSetRequiresPause(t *testing.T) {
	h, orch := newHandler(t)
	orch.paused = false

	body := expectErr(t, h, "registers A=$42")
	test.ExpectEquality(t, strings.Contains(body, "paused"), true)
}

func TestExecuteBreakpointLifecycle(t *testing.T) {
	h, _ := newHandler(t)
	h.Facade.WriteByte(0x0600, 0xEA)

	body := expectOK(t, h, "breakpoint set $0600")
	test.ExpectEquality(t, strings.Contains(body, "substituted"), true)

	body = expectOK(t, h, "breakpoint list")
	test.ExpectEquality(t, strings.Contains(body, "$600"), true)

	expectOK(t, h, "breakpoint clear $0600")
	test.ExpectEquality(t, len(h.Debug.List()), 0)
	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), byte(0xEA))
}

func TestExecuteBreakpointClearAll(t *testing.T) {
	h, _ := newHandler(t)
	h.Facade.WriteByte(0x0600, 0xEA)
	h.Facade.WriteByte(0x0601, 0xEA)
	expectOK(t, h, "breakpoint set $0600")
	expectOK(t, h, "breakpoint set $0601")

	expectOK(t, h, "breakpoint clearall")
	test.ExpectEquality(t, len(h.Debug.List()), 0)
}

func TestExecuteBreakpointListEmpty(t *testing.T) {
	h, _ := newHandler(t)
	body := expectOK(t, h, "breakpoint list")
	test.Equate(t, body, "(none)")
}

func TestExecuteFillWritesRange(t *testing.T) {
	h, _ := newHandler(t)
	expectOK(t, h, "fill $0600 $0602 $AA")
	test.Equate(t, expectOK(t, h, "read $0600 3"), "AA,AA,AA")
}

func TestExecuteFillOverALiveBreakpointUpdatesSavedByteNotTheTrap(t *testing.T) {
	h, _ := newHandler(t)
	h.Facade.WriteByte(0x0600, 0xEA)
	expectOK(t, h, "breakpoint set $0600")

	expectOK(t, h, "fill $0600 $0602 $AA")

	// The debugger-aware read still sees the fill value at the trapped
	// address, but the trap opcode itself must survive in live memory.
	test.Equate(t, expectOK(t, h, "read $0600 3"), "AA,AA,AA")
	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), atari800.TrapOpcode)

	// Clearing the breakpoint must restore the fill's value, not the
	// stale byte that was there before the fill ran.
	expectOK(t, h, "breakpoint clear $0600")
	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), byte(0xAA))
}

func TestExecuteAssembleOverALiveBreakpointUpdatesSavedByteNotTheTrap(t *testing.T) {
	h, _ := newHandler(t)
	h.Facade.WriteByte(0x0600, 0xEA)
	expectOK(t, h, "breakpoint set $0600")

	expectOK(t, h, "assemble $0600 $A9,$01")

	test.Equate(t, expectOK(t, h, "read $0600 2"), "A9,01")
	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), atari800.TrapOpcode)

	expectOK(t, h, "breakpoint clear $0600")
	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), byte(0xA9))
}

func TestExecuteMountUnmountDrives(t *testing.T) {
	h, _ := newHandler(t)
	expectOK(t, h, "mount 1 game.atr")
	test.Equate(t, expectOK(t, h, "drives"), "game.atr")

	expectOK(t, h, "unmount 1")
	test.Equate(t, expectOK(t, h, "drives"), "(none)")
}

func TestExecuteStateSaveAndLoadRoundTrips(t *testing.T) {
	h, _ := newHandler(t)
	h.Facade.WriteByte(0x0600, 0x7E)
	path := filepath.Join(t.TempDir(), "snapshot.bin")

	expectOK(t, h, "state save "+path)

	h.Facade.WriteByte(0x0600, 0x00)
	expectOK(t, h, "state load "+path)
	test.ExpectEquality(t, h.Facade.ReadByte(0x0600), byte(0x7E))
}

func TestExecuteInjectKeysStagesEachCharacter(t *testing.T) {
	h, _ := newHandler(t)
	body := expectOK(t, h, "inject keys hi")
	test.Equate(t, body, "staged 2 keys")
}

func TestExecuteInjectBasicIsRejected(t *testing.T) {
	h, _ := newHandler(t)
	body := expectErr(t, h, "inject basic 10 PRINT 1")
	test.ExpectEquality(t, strings.Contains(body, "BASIC"), true)
}

func TestExecuteReplayReportsEmptyBeforeAnyEvent(t *testing.T) {
	h, _ := newHandler(t)
	test.Equate(t, expectOK(t, h, "replay"), "(empty)")
}

func TestExecuteShutdownInvokesCallback(t *testing.T) {
	h, _ := newHandler(t)
	called := false
	h.Shutdown = func() { called = true }

	expectOK(t, h, "shutdown")
	test.ExpectEquality(t, called, true)
}

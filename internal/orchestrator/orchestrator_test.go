package orchestrator_test

import (
	"testing"
	"time"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/channel"
	"github.com/huegli/attic-sub012/internal/debugger"
	"github.com/huegli/attic-sub012/internal/orchestrator"
	"github.com/huegli/attic-sub012/test"
)

const runStart = 0x0600

// newOrchestrator wires a paused orchestrator over a fresh façade whose
// code area is a long run of NOPs, so free-running playback advances
// frames instead of immediately trapping on zeroed memory.
func newOrchestrator(t *testing.T) (*orchestrator.Orchestrator, *atari800.Facade, *debugger.Debugger) {
	t.Helper()
	facade := atari800.NewFacade()
	facade.Reset(true)
	facade.Fill(runStart, runStart+atari800.FramesPerAdvance+100, 0xEA)
	facade.SetRegisters(aesp.RegPC, aesp.Registers{PC: runStart})

	video := channel.NewDispatcher(channel.Video, 4)
	audio := channel.NewDispatcher(channel.Audio, 4)

	var orch *orchestrator.Orchestrator
	debug := debugger.New(facade, func() bool { return orch == nil || orch.IsPaused() })
	orch = orchestrator.New(facade, debug, video, audio, orchestrator.WithFrameInterval(time.Millisecond))
	orch.Start()
	t.Cleanup(orch.Stop)
	return orch, facade, debug
}

func TestNewOrchestratorStartsPaused(t *testing.T) {
	orch, _, _ := newOrchestrator(t)
	test.ExpectEquality(t, orch.IsPaused(), true)
}

func TestResumeThenPauseToggleRunningState(t *testing.T) {
	orch, _, _ := newOrchestrator(t)

	test.ExpectSuccess(t, orch.Resume())
	test.ExpectEquality(t, orch.IsPaused(), false)

	orch.Pause()
	test.ExpectEquality(t, orch.IsPaused(), true)
}

func TestRunningOrchestratorAdvancesFrameCounter(t *testing.T) {
	orch, _, _ := newOrchestrator(t)

	test.ExpectSuccess(t, orch.Resume())
	deadline := time.Now().Add(2 * time.Second)
	for orch.FrameCounter() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	test.ExpectEquality(t, orch.FrameCounter() > 0, true)
	test.ExpectEquality(t, orch.IsPaused(), false)
}

func TestStepHaltsOnBreakpointWithinRequestedFrames(t *testing.T) {
	orch, facade, debug := newOrchestrator(t)

	bp, err := debug.Set(facade.PC())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, bp.Kind, debugger.Substituted)

	ev, err := orch.Step(5)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ev.Kind, debugger.EventBreakpoint)

	halted, reason, addr := orch.IsHalted()
	test.ExpectEquality(t, halted, true)
	test.ExpectEquality(t, reason, orchestrator.HaltBreakpoint)
	test.ExpectEquality(t, addr, bp.Address)
}

func TestStepExhaustsBudgetAndPausesAsUserHalt(t *testing.T) {
	orch, _, _ := newOrchestrator(t)

	ev, err := orch.Step(1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ev.Kind, debugger.EventNone)

	halted, reason, _ := orch.IsHalted()
	test.ExpectEquality(t, halted, true)
	test.ExpectEquality(t, reason, orchestrator.HaltUser)
}

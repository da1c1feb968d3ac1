package atari800

import (
	"sync"

	"github.com/go-audio/audio"
	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atticerr"
)

// FramesPerAdvance is the number of 6502 instructions a single
// advance_one_frame call executes before producing a frame's worth of
// video/audio, a stand-in for real per-scanline timing (out of scope per
// spec §1).
const FramesPerAdvance = 2000

// Facade is the single mutex-guarded entry point the debugger,
// orchestrator and control handlers all call through — "FFI boundary
// becomes a facade struct" per the redesign notes. No caller ever
// touches cpu or mem directly.
type Facade struct {
	mu  sync.Mutex
	cpu *CPU
	mem *Memory
	ds  disks

	pending InputState
	applied InputState

	initialized bool
}

// NewFacade constructs an uninitialized façade; Reset must be called
// before any instruction executes.
func NewFacade() *Facade {
	mem := &Memory{}
	return &Facade{cpu: NewCPU(mem), mem: mem}
}

// Reset reinitializes the machine. A cold reset also clears RAM; a warm
// reset leaves memory contents untouched, matching real hardware
// behaviour. Per the chosen breakpoint-retention policy, clearing
// substituted/watched breakpoints across a reset is the debugger's
// responsibility, not the façade's — Facade only resets CPU/memory state.
func (f *Facade) Reset(cold bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cold {
		*f.mem = Memory{}
	}
	f.cpu.Regs = Registers{S: 0xFF, P: Flag5 | FlagI}
	f.initialized = true
}

func (f *Facade) requireInitialized() error {
	if !f.initialized {
		return atticerr.Errorf(atticerr.KindNotInitialized, "emulator has not been reset")
	}
	return nil
}

// StepOneInstruction executes exactly one 6502 instruction and reports
// its outcome. Callers (the debugger core) hold no lock of their own —
// this call is atomic with respect to all other façade methods.
func (f *Facade) StepOneInstruction() (FrameOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireInitialized(); err != nil {
		return OutcomeCPUFault, err
	}
	_, outcome := f.cpu.Step()
	return outcome, nil
}

// AdvanceOneFrame executes a fixed batch of instructions representing
// one video frame's worth of CPU time, stopping early if a trap or fault
// is hit so the debugger can inspect state before more code runs. It
// also renders a silent audio frame, since POKEY sound synthesis is out
// of scope.
func (f *Facade) AdvanceOneFrame() (FrameOutcome, *audio.IntBuffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireInitialized(); err != nil {
		return OutcomeCPUFault, nil, err
	}

	f.applied = f.latchPendingInput()

	outcome := OutcomeOK
	for i := 0; i < FramesPerAdvance; i++ {
		_, o := f.cpu.Step()
		if o != OutcomeOK {
			outcome = o
			break
		}
	}
	frame := NewAudioFrame()
	renderSilence(frame)
	return outcome, frame, nil
}

// ReadByte reads a single byte without regard to breakpoint bookkeeping;
// the debugger layer is responsible for masking substituted trap bytes
// before handing a value back to a caller.
func (f *Facade) ReadByte(addr uint16) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mem.ReadByte(addr)
}

func (f *Facade) WriteByte(addr uint16, v byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.WriteByte(addr, v)
}

func (f *Facade) ReadBlock(addr uint16, count int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mem.ReadBlock(addr, count)
}

func (f *Facade) WriteBlock(addr uint16, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.WriteBlock(addr, data)
}

func (f *Facade) Fill(start, end uint16, value byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.Fill(start, end, value)
}

// GetRegisters returns the canonical register file in wire terms.
func (f *Facade) GetRegisters() aesp.Registers {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.cpu.Regs
	return aesp.Registers{A: r.A, X: r.X, Y: r.Y, S: r.S, P: r.P, PC: r.PC}
}

// SetRegisters requires the emulator to be paused (spec §4.6: "setting
// registers requires the emulator to be paused") — callers must enforce
// that at the control-handler layer, since pause/resume state lives in
// the orchestrator, not here. Only the fields named by mask are applied.
func (f *Facade) SetRegisters(mask aesp.RegisterMask, r aesp.Registers) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if mask&aesp.RegA != 0 {
		f.cpu.Regs.A = r.A
	}
	if mask&aesp.RegX != 0 {
		f.cpu.Regs.X = r.X
	}
	if mask&aesp.RegY != 0 {
		f.cpu.Regs.Y = r.Y
	}
	if mask&aesp.RegS != 0 {
		f.cpu.Regs.S = r.S
	}
	if mask&aesp.RegP != 0 {
		f.cpu.Regs.P = r.P
	}
	if mask&aesp.RegPC != 0 {
		f.cpu.Regs.PC = r.PC
	}
}

// PC reports the current program counter, the one register value the
// debugger core polls on every step without going through the full
// register-file round trip.
func (f *Facade) PC() uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cpu.Regs.PC
}

// InstructionLength and IsCall are read-only lookups the debugger uses
// to compute step-over return addresses; both take the lock to stay
// consistent with concurrent writes from the control endpoint.
func (f *Facade) InstructionLength(addr uint16) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cpu.InstructionLength(addr)
}

func (f *Facade) IsCall(addr uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cpu.IsCall(addr)
}

func (f *Facade) MountDisk(slot int, disk Disk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ds.mount(slot, disk)
}

func (f *Facade) UnmountDisk(slot int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ds.unmount(slot)
}

func (f *Facade) ListDisks() []Disk {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ds.list()
}

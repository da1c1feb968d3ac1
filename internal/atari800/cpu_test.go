package atari800_test

import (
	"testing"

	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/test"
)

func TestStepLDAImmediateSetsFlags(t *testing.T) {
	mem := &atari800.Memory{}
	mem.WriteBlock(0x0600, []byte{0xA9, 0x00}) // LDA #$00
	cpu := atari800.NewCPU(mem)
	cpu.Regs.PC = 0x0600

	_, outcome := cpu.Step()
	test.ExpectEquality(t, outcome, atari800.OutcomeOK)
	test.ExpectEquality(t, cpu.Regs.A, byte(0))
	test.ExpectEquality(t, cpu.Regs.P&atari800.FlagZ != 0, true)
}

func TestStepJSRThenRTSReturnsPastCallSite(t *testing.T) {
	mem := &atari800.Memory{}
	// JSR $0610 at $0600 (3 bytes); RTS at $0610.
	mem.WriteBlock(0x0600, []byte{0x20, 0x10, 0x06})
	mem.WriteBlock(0x0610, []byte{0x60})
	cpu := atari800.NewCPU(mem)
	cpu.Regs.PC = 0x0600

	_, outcome := cpu.Step() // JSR
	test.ExpectEquality(t, outcome, atari800.OutcomeOK)
	test.ExpectEquality(t, cpu.Regs.PC, uint16(0x0610))

	_, outcome = cpu.Step() // RTS
	test.ExpectEquality(t, outcome, atari800.OutcomeOK)
	test.ExpectEquality(t, cpu.Regs.PC, uint16(0x0603))
}

func TestStepBRKTraps(t *testing.T) {
	mem := &atari800.Memory{}
	mem.WriteByte(0x0600, 0x00) // BRK
	cpu := atari800.NewCPU(mem)
	cpu.Regs.PC = 0x0600

	_, outcome := cpu.Step()
	test.ExpectEquality(t, outcome, atari800.OutcomeTrap)
}

func TestStepUnknownOpcodeFaults(t *testing.T) {
	mem := &atari800.Memory{}
	mem.WriteByte(0x0600, 0xFF) // unused opcode
	cpu := atari800.NewCPU(mem)
	cpu.Regs.PC = 0x0600

	_, outcome := cpu.Step()
	test.ExpectEquality(t, outcome, atari800.OutcomeCPUFault)
}

func TestInstructionLengthAndIsCall(t *testing.T) {
	mem := &atari800.Memory{}
	mem.WriteBlock(0x0600, []byte{0x20, 0x10, 0x06}) // JSR
	cpu := atari800.NewCPU(mem)

	test.ExpectEquality(t, cpu.InstructionLength(0x0600), 3)
	test.ExpectEquality(t, cpu.IsCall(0x0600), true)
}

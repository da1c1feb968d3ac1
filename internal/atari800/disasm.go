package atari800

import "fmt"

// DisasmLine is one decoded instruction, the unit the debugger's
// disassemble verb and the CLI's "disassemble" command both return.
type DisasmLine struct {
	Address uint16
	Length  int
	Text    string
}

// disassembleOne decodes the instruction at addr into a mnemonic line.
// Unknown opcodes render as a raw byte, matching InstructionLength's
// treat-as-single-byte fallback so disassembly never desyncs from
// stepping.
func (c *CPU) disassembleOne(addr uint16) DisasmLine {
	op := c.Mem.ReadByte(addr)
	def, known := opcodes[op]
	if !known {
		return DisasmLine{Address: addr, Length: 1, Text: fmt.Sprintf(".byte $%02X", op)}
	}
	switch def.mode {
	case Implied:
		return DisasmLine{Address: addr, Length: def.length, Text: def.mnemonic}
	case Immediate:
		return DisasmLine{Address: addr, Length: def.length, Text: fmt.Sprintf("%s #$%02X", def.mnemonic, c.Mem.ReadByte(addr+1))}
	case ZeroPage:
		return DisasmLine{Address: addr, Length: def.length, Text: fmt.Sprintf("%s $%02X", def.mnemonic, c.Mem.ReadByte(addr+1))}
	case Absolute:
		return DisasmLine{Address: addr, Length: def.length, Text: fmt.Sprintf("%s $%04X", def.mnemonic, c.absOperand(addr))}
	case Relative:
		offset := int8(c.Mem.ReadByte(addr + 1))
		target := uint16(int32(addr) + int32(def.length) + int32(offset))
		return DisasmLine{Address: addr, Length: def.length, Text: fmt.Sprintf("%s $%04X", def.mnemonic, target)}
	}
	return DisasmLine{Address: addr, Length: def.length, Text: def.mnemonic}
}

// Disassemble decodes up to count instructions starting at addr.
func (f *Facade) Disassemble(addr uint16, count int) []DisasmLine {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]DisasmLine, 0, count)
	a := addr
	for i := 0; i < count; i++ {
		line := f.cpu.disassembleOne(a)
		out = append(out, line)
		a += uint16(line.Length)
	}
	return out
}

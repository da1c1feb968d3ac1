package atari800

import (
	"encoding/binary"

	"github.com/huegli/attic-sub012/internal/atticerr"
)

// snapshotMagic and snapshotVersion form the stable prefix spec §6.4
// requires: "Emulator state blobs are opaque and versioned by a single
// magic-and-version prefix. Loading a blob of the wrong version produces
// an error without modifying emulator state."
var snapshotMagic = [4]byte{'A', 'T', 'S', 'T'}

const snapshotVersion byte = 1

// Snapshot returns an opaque serialized blob of the full machine state:
// registers and the 64 KiB address space. Callers treat it as opaque;
// only Restore understands the layout.
func (f *Facade) Snapshot() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	buf := make([]byte, 0, 4+1+7+65536)
	buf = append(buf, snapshotMagic[:]...)
	buf = append(buf, snapshotVersion)
	buf = appendRegisters(buf, f.cpu.Regs)
	buf = append(buf, f.mem.bytes[:]...)
	return buf
}

// Restore validates the magic/version prefix and, only if it matches,
// replaces the full machine state. On any validation failure the
// emulator's current state is left untouched.
func (f *Facade) Restore(blob []byte) error {
	if len(blob) < 4+1+7 {
		return atticerr.Errorf(atticerr.KindParseArgument, "snapshot too short")
	}
	var magic [4]byte
	copy(magic[:], blob[:4])
	if magic != snapshotMagic {
		return atticerr.Errorf(atticerr.KindParseArgument, "snapshot has unrecognised magic")
	}
	if blob[4] != snapshotVersion {
		return atticerr.Errorf(atticerr.KindParseArgument, "snapshot version %d unsupported", blob[4])
	}
	rest := blob[5:]
	if len(rest) < 7+65536 {
		return atticerr.Errorf(atticerr.KindParseArgument, "snapshot payload truncated")
	}

	regs := readRegisters(rest[:7])

	f.mu.Lock()
	defer f.mu.Unlock()
	f.cpu.Regs = regs
	copy(f.mem.bytes[:], rest[7:7+65536])
	return nil
}

func appendRegisters(buf []byte, r Registers) []byte {
	buf = append(buf, r.A, r.X, r.Y, r.S, r.P)
	pc := make([]byte, 2)
	binary.BigEndian.PutUint16(pc, r.PC)
	return append(buf, pc...)
}

func readRegisters(b []byte) Registers {
	return Registers{
		A:  b[0],
		X:  b[1],
		Y:  b[2],
		S:  b[3],
		P:  b[4],
		PC: binary.BigEndian.Uint16(b[5:7]),
	}
}

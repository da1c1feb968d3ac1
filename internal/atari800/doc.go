// Package atari800 is the opaque "emulation core" behind the façade
// contract in spec §6.1: a minimal, self-contained 6502 engine with a
// flat 64 KiB address space, sized only to exercise the debugger and
// orchestrator contracts (register file, frame stepping, trap-instruction
// and memory semantics) realistically. It is not a cycle-accurate
// Atari 800 XL — disk-image parsing, BASIC tokenization, audio
// resampling and palette conversion are explicitly out of scope
// (spec §1 Non-goals) and are not attempted here.
//
// The register file shape (A, X, Y, S, P, PC) and the convention of a
// single owning struct serializing all access are grounded on
// gopher2600's hardware/cpu/registers.go and hardware.VCS.
package atari800

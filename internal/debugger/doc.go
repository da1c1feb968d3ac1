// Package debugger implements software breakpoints over the opaque 6502
// façade: substituted (trap-instruction) breakpoints in writable memory,
// program-counter-watched breakpoints elsewhere, single-stepping,
// step-over, run-until, and the continue-from-breakpoint restore/step/
// re-trap sequence.
//
// The owner-type-with-a-table shape and the parse/list/set/clear verb
// split are grounded on gopher2600's debugger/breakpoints.go; the
// underlying comparison engine there is replaced entirely since this
// core requires trap-instruction substitution rather than value
// comparison.
package debugger

// Package orchestrator owns the frame loop: it drives the emulator
// façade one frame at a time, publishes video/audio frames, consults the
// debugger core, and tracks the running/paused state machine. The
// functional-options construction and the atomic/condvar shaped state
// fields are grounded on go-ampio-server's internal/server.Server and
// ServerOption; the running/paused loop body replaces gopher2600's
// separate loop_debugger.go/loop_playmode.go with a single loop that
// branches on pause state, as spec §4.8 requires.
package orchestrator

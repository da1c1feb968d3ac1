// Package atticerr defines the stable error taxonomy used across the AESP
// runtime, the CLI endpoint and the debugger core.
//
// Every error surfaced to a wire client (a binary Error frame or a CLI
// ERR: line) carries one of the Kind values below so that the caller can
// react programmatically rather than string-matching a message. Each
// Error holds a curated.Errorf value and exposes it through Unwrap. An
// atticerr error passed as a value to another curated pattern is not
// searched by curated.Has, and KindOf does not find its Kind there.
package atticerr

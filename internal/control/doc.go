// Package control implements the AESP control-channel dispatch table
// (spec §4.4): it decodes each control message, routes it to the
// emulator façade, the debugger core, or the orchestrator, and replies
// with exactly one frame per request, preserving request order.
package control

// Package cliendpoint implements the discoverable local text-protocol
// endpoint (spec §4.7): a Unix domain socket named with the process id,
// a line grammar of CMD:/OK:/ERR:/EVENT: messages, and one verb per
// control-channel operation plus the debugger-only verbs (breakpoint,
// disassemble, stepover, until, fill) that have no binary-protocol
// equivalent. The discovery-by-filename-pattern idiom is grounded on the
// attic protocol's own doc comment; the tokenizer shape follows
// gopher2600's commandline package.
package cliendpoint

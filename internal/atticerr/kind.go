package atticerr

// Kind is the stable, wire-visible error category from spec §7. Binary
// clients receive a Kind as the numeric field of an Error frame; CLI
// clients only ever see the human message. Command handlers report their
// failures as errors carrying a Kind; an unrecognised CLI verb is the one
// ERR: reply built from a plain message instead.
type Kind uint8

// The stable taxonomy. Values are wire-visible (AESP Error frame payload)
// and must never be renumbered once shipped.
const (
	KindUnknown Kind = iota

	// ProtocolError
	KindBadMagic
	KindBadVersion
	KindLengthExceeded
	KindTruncated

	// ParseError
	KindParseGrammar
	KindParseArgument

	// StateError
	KindMustPause
	KindAlreadyRunning
	KindNoServer

	// DebuggerError
	KindAlreadyExists
	KindNotFound
	KindCannotModifyROM
	KindInvalidAddress

	// EmulatorError
	KindNotInitialized
	KindCPUFault
	KindRomMissing

	// IoError
	KindConnectionReset
	KindTimeout
	KindSocketNotFound
)

// String gives the short machine-readable name used in log fields and as
// the "kind" label of the error metrics.
func (k Kind) String() string {
	switch k {
	case KindBadMagic:
		return "bad_magic"
	case KindBadVersion:
		return "bad_version"
	case KindLengthExceeded:
		return "length_exceeded"
	case KindTruncated:
		return "truncated"
	case KindParseGrammar:
		return "parse_grammar"
	case KindParseArgument:
		return "parse_argument"
	case KindMustPause:
		return "must_pause"
	case KindAlreadyRunning:
		return "already_running"
	case KindNoServer:
		return "no_server"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindCannotModifyROM:
		return "cannot_modify_rom"
	case KindInvalidAddress:
		return "invalid_address"
	case KindNotInitialized:
		return "not_initialized"
	case KindCPUFault:
		return "cpu_fault"
	case KindRomMissing:
		return "rom_missing"
	case KindConnectionReset:
		return "connection_reset"
	case KindTimeout:
		return "timeout"
	case KindSocketNotFound:
		return "socket_not_found"
	}
	return "unknown"
}

// Category groups a Kind into the six families named in spec §7, used to
// pick the metrics label in internal/metrics without a giant switch at
// every call site.
func (k Kind) Category() string {
	switch k {
	case KindBadMagic, KindBadVersion, KindLengthExceeded, KindTruncated:
		return "protocol"
	case KindParseGrammar, KindParseArgument:
		return "parse"
	case KindMustPause, KindAlreadyRunning, KindNoServer:
		return "state"
	case KindAlreadyExists, KindNotFound, KindCannotModifyROM, KindInvalidAddress:
		return "debugger"
	case KindNotInitialized, KindCPUFault, KindRomMissing:
		return "emulator"
	case KindConnectionReset, KindTimeout, KindSocketNotFound:
		return "io"
	}
	return "other"
}

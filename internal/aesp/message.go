package aesp

// MessageType is the tagged-union discriminator carried in every frame
// header. Values are stable once declared per spec §6.2; renumbering is
// only permitted before first release.
type MessageType uint8

const (
	Ping    MessageType = 0x01
	Pause   MessageType = 0x02
	Resume  MessageType = 0x03
	Reset   MessageType = 0x04
	Status  MessageType = 0x05

	StatusReply MessageType = 0x06
	Ack         MessageType = 0x07
	Error       MessageType = 0x08

	KeyDown     MessageType = 0x10
	KeyUp       MessageType = 0x11
	Joystick    MessageType = 0x12
	ConsoleKeys MessageType = 0x13

	VideoSubscribe   MessageType = 0x20
	VideoUnsubscribe MessageType = 0x21
	FrameRaw         MessageType = 0x22
	FrameDelta       MessageType = 0x23

	AudioSubscribe   MessageType = 0x30
	AudioUnsubscribe MessageType = 0x31
	AudioPcm         MessageType = 0x32
	AudioSync        MessageType = 0x33

	ReadMemory   MessageType = 0x40
	MemoryReply  MessageType = 0x41
	WriteMemory  MessageType = 0x42

	GetRegisters     MessageType = 0x50
	RegistersReply   MessageType = 0x51
	SetRegisters     MessageType = 0x52

	Breakpoint MessageType = 0x60
	Halted     MessageType = 0x61

	// Step is not in the original wire enumeration but is required to
	// expose spec §4.4's "Step (frames)" control operation over the
	// binary protocol the way it is already exposed over the CLI's
	// `step [N]` verb. Declared in unused space past Halted, stable once
	// shipped like every other type here.
	Step MessageType = 0x62
)

// String names a message type for logging; unrecognised values print as
// "Unknown" rather than panicking, since a future wire revision may add
// types this build doesn't know about yet.
func (t MessageType) String() string {
	switch t {
	case Ping:
		return "Ping"
	case Pause:
		return "Pause"
	case Resume:
		return "Resume"
	case Reset:
		return "Reset"
	case Status:
		return "Status"
	case StatusReply:
		return "StatusReply"
	case Ack:
		return "Ack"
	case Error:
		return "Error"
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case Joystick:
		return "Joystick"
	case ConsoleKeys:
		return "ConsoleKeys"
	case VideoSubscribe:
		return "VideoSubscribe"
	case VideoUnsubscribe:
		return "VideoUnsubscribe"
	case FrameRaw:
		return "FrameRaw"
	case FrameDelta:
		return "FrameDelta"
	case AudioSubscribe:
		return "AudioSubscribe"
	case AudioUnsubscribe:
		return "AudioUnsubscribe"
	case AudioPcm:
		return "AudioPcm"
	case AudioSync:
		return "AudioSync"
	case ReadMemory:
		return "ReadMemory"
	case MemoryReply:
		return "MemoryReply"
	case WriteMemory:
		return "WriteMemory"
	case GetRegisters:
		return "GetRegisters"
	case RegistersReply:
		return "RegistersReply"
	case SetRegisters:
		return "SetRegisters"
	case Breakpoint:
		return "Breakpoint"
	case Halted:
		return "Halted"
	case Step:
		return "Step"
	}
	return "Unknown"
}

package aesp

import (
	"encoding/binary"

	"github.com/huegli/attic-sub012/internal/atticerr"
)

// ResetPayload encodes/decodes the single byte carried by a Reset message:
// 0x01 for cold, 0x00 for warm.
func EncodeReset(cold bool) []byte {
	if cold {
		return []byte{0x01}
	}
	return []byte{0x00}
}

func DecodeReset(payload []byte) (cold bool, err error) {
	if len(payload) != 1 {
		return false, atticerr.Errorf(atticerr.KindParseArgument, "aesp: Reset payload must be 1 byte, got %d", len(payload))
	}
	return payload[0] == 0x01, nil
}

// KeyFlags bits for KeyDown.
const (
	KeyFlagShift   = 1 << 0
	KeyFlagControl = 1 << 1
)

type KeyEvent struct {
	Char  byte
	Code  byte
	Flags byte
}

func EncodeKeyEvent(e KeyEvent) []byte {
	return []byte{e.Char, e.Code, e.Flags}
}

func DecodeKeyEvent(payload []byte) (KeyEvent, error) {
	if len(payload) != 3 {
		return KeyEvent{}, atticerr.Errorf(atticerr.KindParseArgument, "aesp: KeyDown/KeyUp payload must be 3 bytes, got %d", len(payload))
	}
	return KeyEvent{Char: payload[0], Code: payload[1], Flags: payload[2]}, nil
}

// Joystick direction bits.
const (
	JoyUp    = 1 << 0
	JoyDown  = 1 << 1
	JoyLeft  = 1 << 2
	JoyRight = 1 << 3
)

type JoystickEvent struct {
	Port       byte
	Directions byte
	Trigger    bool
}

func EncodeJoystickEvent(e JoystickEvent) []byte {
	trig := byte(0)
	if e.Trigger {
		trig = 1
	}
	return []byte{e.Port, e.Directions, trig}
}

func DecodeJoystickEvent(payload []byte) (JoystickEvent, error) {
	if len(payload) != 3 {
		return JoystickEvent{}, atticerr.Errorf(atticerr.KindParseArgument, "aesp: Joystick payload must be 3 bytes, got %d", len(payload))
	}
	return JoystickEvent{Port: payload[0], Directions: payload[1], Trigger: payload[2] != 0}, nil
}

// Console key bitmask bits.
const (
	ConsoleStart  = 1 << 0
	ConsoleSelect = 1 << 1
	ConsoleOption = 1 << 2
)

func EncodeConsoleKeys(mask byte) []byte { return []byte{mask} }

func DecodeConsoleKeys(payload []byte) (byte, error) {
	if len(payload) != 1 {
		return 0, atticerr.Errorf(atticerr.KindParseArgument, "aesp: ConsoleKeys payload must be 1 byte, got %d", len(payload))
	}
	return payload[0], nil
}

// ReadMemory carries address(2B LE) count(2B LE).
func EncodeReadMemory(addr, count uint16) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint16(buf[0:2], addr)
	binary.LittleEndian.PutUint16(buf[2:4], count)
	return buf
}

func DecodeReadMemory(payload []byte) (addr, count uint16, err error) {
	if len(payload) != 4 {
		return 0, 0, atticerr.Errorf(atticerr.KindParseArgument, "aesp: ReadMemory payload must be 4 bytes, got %d", len(payload))
	}
	return binary.LittleEndian.Uint16(payload[0:2]), binary.LittleEndian.Uint16(payload[2:4]), nil
}

// WriteMemory carries address(2B LE) followed by the bytes to write.
func EncodeWriteMemory(addr uint16, data []byte) []byte {
	buf := make([]byte, 2+len(data))
	binary.LittleEndian.PutUint16(buf[0:2], addr)
	copy(buf[2:], data)
	return buf
}

func DecodeWriteMemory(payload []byte) (addr uint16, data []byte, err error) {
	if len(payload) < 2 {
		return 0, nil, atticerr.Errorf(atticerr.KindParseArgument, "aesp: WriteMemory payload too short (%d bytes)", len(payload))
	}
	return binary.LittleEndian.Uint16(payload[0:2]), payload[2:], nil
}

// RegisterMask indicates which fields of a register file a SetRegisters
// message updates. Entries are canonical order A, X, Y, S, P, PC.
type RegisterMask uint8

const (
	RegA RegisterMask = 1 << iota
	RegX
	RegY
	RegS
	RegP
	RegPC
	RegAll = RegA | RegX | RegY | RegS | RegP | RegPC
)

// Registers is the canonical 6-entry 6502 register file.
type Registers struct {
	A, X, Y, S, P byte
	PC            uint16
}

// EncodeRegisters serialises the full register file (used for
// GetRegisters replies, where every field is always present).
func EncodeRegisters(r Registers) []byte {
	buf := make([]byte, 7)
	buf[0], buf[1], buf[2], buf[3], buf[4] = r.A, r.X, r.Y, r.S, r.P
	binary.LittleEndian.PutUint16(buf[5:7], r.PC)
	return buf
}

func DecodeRegisters(payload []byte) (Registers, error) {
	if len(payload) != 7 {
		return Registers{}, atticerr.Errorf(atticerr.KindParseArgument, "aesp: Registers payload must be 7 bytes, got %d", len(payload))
	}
	return Registers{
		A: payload[0], X: payload[1], Y: payload[2], S: payload[3], P: payload[4],
		PC: binary.LittleEndian.Uint16(payload[5:7]),
	}, nil
}

// EncodeSetRegisters prefixes the register file with the presence mask so
// the receiver only applies the fields the caller actually set.
func EncodeSetRegisters(mask RegisterMask, r Registers) []byte {
	return append([]byte{byte(mask)}, EncodeRegisters(r)...)
}

func DecodeSetRegisters(payload []byte) (RegisterMask, Registers, error) {
	if len(payload) != 8 {
		return 0, Registers{}, atticerr.Errorf(atticerr.KindParseArgument, "aesp: SetRegisters payload must be 8 bytes, got %d", len(payload))
	}
	r, err := DecodeRegisters(payload[1:])
	if err != nil {
		return 0, Registers{}, err
	}
	return RegisterMask(payload[0]), r, nil
}

// EncodeStep/DecodeStep carry the frame count for a Step request as a
// 2-byte big-endian count.
func EncodeStep(frames uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, frames)
	return buf
}

func DecodeStep(payload []byte) (uint16, error) {
	if len(payload) != 2 {
		return 0, atticerr.Errorf(atticerr.KindParseArgument, "aesp: Step payload must be 2 bytes, got %d", len(payload))
	}
	return binary.BigEndian.Uint16(payload), nil
}

// EncodeErrorFrame packs a numeric Kind and a UTF-8 message.
func EncodeErrorFrame(kind byte, message string) []byte {
	return append([]byte{kind}, []byte(message)...)
}

func DecodeErrorFrame(payload []byte) (kind byte, message string, err error) {
	if len(payload) < 1 {
		return 0, "", atticerr.Errorf(atticerr.KindParseArgument, "aesp: Error payload empty")
	}
	return payload[0], string(payload[1:]), nil
}

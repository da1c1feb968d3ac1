package aesp

import (
	"encoding/binary"
	"io"

	"github.com/huegli/attic-sub012/internal/atticerr"
)

// Version is the only wire version this build speaks.
const Version uint8 = 1

// Magic is the fixed two-byte frame prefix.
var Magic = [2]byte{0xAE, 0x50}

// HeaderLen is the fixed size of everything before the payload.
const HeaderLen = 2 + 1 + 1 + 4

// MaxPayload is the largest payload a frame may carry.
const MaxPayload = 16 * 1024 * 1024

// Frame is a fully decoded AESP message.
type Frame struct {
	Type    MessageType
	Payload []byte
}

// Encode is total: any payload under MaxPayload produces a well-formed
// frame. A payload over the limit is dropped and the result is a
// header-only frame with a zero length field; the server itself never
// constructs an oversize frame.
func Encode(t MessageType, payload []byte) []byte {
	if len(payload) > MaxPayload {
		payload = nil
	}
	buf := make([]byte, HeaderLen+len(payload))
	buf[0] = Magic[0]
	buf[1] = Magic[1]
	buf[2] = Version
	buf[3] = byte(t)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[8:], payload)
	return buf
}

// Decode reads exactly one frame from r. It validates magic, version and
// length before allocating the payload buffer, per spec §4.1 — a hostile
// or corrupt length field can never trigger a large allocation. A stream
// that ends cleanly before the first header byte returns io.EOF itself.
func Decode(r io.Reader) (Frame, error) {
	var header [HeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return Frame{}, atticerr.Errorf(atticerr.KindTruncated, "aesp: truncated frame header: %v", err)
		}
		return Frame{}, err
	}

	if header[0] != Magic[0] || header[1] != Magic[1] {
		return Frame{}, atticerr.Errorf(atticerr.KindBadMagic, "aesp: bad magic (%02x%02x)", header[0], header[1])
	}
	if header[2] != Version {
		return Frame{}, atticerr.Errorf(atticerr.KindBadVersion, "aesp: unsupported version (%d)", header[2])
	}

	length := binary.BigEndian.Uint32(header[4:8])
	if length > MaxPayload {
		return Frame{}, atticerr.Errorf(atticerr.KindLengthExceeded, "aesp: payload length %d exceeds limit", length)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, atticerr.Errorf(atticerr.KindTruncated, "aesp: truncated frame payload: %v", err)
		}
	}

	return Frame{Type: MessageType(header[3]), Payload: payload}, nil
}

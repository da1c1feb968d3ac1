// Package aesp implements the Attic Emulator Server Protocol on-the-wire
// frame codec: the fixed 8-byte header, message type enumeration, and the
// encode/decode pair every connection reader/writer in internal/connio
// builds on.
//
// Frame layout (big-endian length):
//
//	magic (2B) | version (1B) | type (1B) | length (4B) | payload (length B)
//
// Magic is the fixed pair 0xAE 0x50. Version is 1. length counts payload
// bytes only and must not exceed MaxPayload (16 MiB).
package aesp

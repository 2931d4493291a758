// Package frame implements the MAVLink v1 wire format: the streaming frame
// decoder, the frame encoder, the X.25 checksum and the dialect tables that
// seed per-message checksums.
//
// A v1 frame on the wire:
//
//	| 0xFE | len | seq | sysid | compid | msgid | payload ... | ck_a | ck_b |
//
// The checksum covers everything after the start marker and is additionally
// seeded with a per-message CRC extra byte, so a frame can only be validated
// against a dialect that knows its message id.
package frame

import (
	"errors"
)

const (
	// Magic is the v1 frame start marker.
	Magic byte = 0xfe

	// HeaderLen is the fixed size of the frame header, start marker included.
	HeaderLen = 6
	// ChecksumLen is the size of the trailing checksum.
	ChecksumLen = 2
	// MaxPayloadLen is the largest payload a single frame can carry, the
	// length field being one byte.
	MaxPayloadLen = 255
	// MaxFrameLen is the largest possible encoded frame.
	MaxFrameLen = HeaderLen + MaxPayloadLen + ChecksumLen

	minFrameLen = HeaderLen + ChecksumLen
)

var (
	// ErrUnknownMessage indicates a message id the dialect has no CRC extra
	// for, so a frame for it can neither be built nor validated.
	ErrUnknownMessage = errors.New("unknown message id")
	// ErrPayloadTooLarge indicates a payload that cannot fit a v1 frame.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Message is one protocol message plus its envelope metadata. Decode fills
// every field; Encode fills Seq and Raw.
type Message struct {
	// Seq is the per-link sequence number stamped into the envelope.
	Seq uint8
	// SysID and CompID identify the sending system and component.
	SysID  uint8
	CompID uint8
	// ID is the message id that selects payload semantics and CRC seed.
	ID uint8
	// Payload is the message body. Aliases Raw when set by Decode.
	Payload []byte
	// Raw is the complete frame as it appeared (or will appear) on the
	// wire, suitable for retransmission without re-encoding.
	Raw []byte
}

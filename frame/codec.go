package frame

import (
	"fmt"
	"sync/atomic"

	"github.com/flightlink/mavconn/buf"
)

// Codec translates between the wire format and Message values.
//
// Decode consumes as much of the buffered stream as it can. It returns a
// message and true when a complete valid frame was available; false when more
// bytes are needed. Garbage and corrupt frames are skipped internally and
// counted, never surfaced as errors, so a decoder recovers from any stream
// position.
//
// Decode and Encode may run on different goroutines, but each individually
// requires external serialization.
type Codec interface {
	Decode(in *buf.ByteBuf) (*Message, bool, error)
	Encode(m *Message, out *buf.ByteBuf) error
	Stats() CodecStats
}

// CodecStats is a point-in-time snapshot of codec counters, readable from
// any goroutine.
type CodecStats struct {
	// Decoded counts frames successfully decoded.
	Decoded uint64
	// DroppedBytes counts bytes skipped while hunting for a frame start.
	DroppedBytes uint64
	// BadFrames counts candidate frames discarded for a checksum mismatch
	// or an unknown message id.
	BadFrames uint64
}

type v1 struct {
	dialect *Dialect
	seq     uint8

	decoded      atomic.Uint64
	droppedBytes atomic.Uint64
	badFrames    atomic.Uint64
}

var _ Codec = (*v1)(nil)

// NewV1 create a v1 codec over the given dialect, or over the common
// dialect if nil.
func NewV1(dialect *Dialect) Codec {
	if dialect == nil {
		dialect = Common()
	}
	return &v1{dialect: dialect}
}

func (c *v1) Decode(in *buf.ByteBuf) (*Message, bool, error) {
	for {
		// hunt for the start marker
		for in.Readable() > 0 && in.PeekByte(0) != Magic {
			in.Skip(1)
			c.droppedBytes.Add(1)
		}
		if in.Readable() < minFrameLen {
			return nil, false, nil
		}

		payloadLen := int(in.PeekByte(1))
		frameLen := HeaderLen + payloadLen + ChecksumLen
		if in.Readable() < frameLen {
			return nil, false, nil
		}

		raw := in.PeekN(0, frameLen)
		msgID := raw[5]
		extra, known := c.dialect.CRCExtra(msgID)
		if !known {
			// cannot validate without a CRC extra, drop the candidate
			in.Skip(frameLen)
			c.badFrames.Add(1)
			continue
		}

		sum := crcX25(raw[1 : frameLen-ChecksumLen])
		sum = crcAccumulate(extra, sum)
		if sum != buf.Byte2Uint16(raw[frameLen-ChecksumLen:]) {
			in.Skip(frameLen)
			c.badFrames.Add(1)
			continue
		}

		data := make([]byte, frameLen)
		copy(data, raw)
		in.Skip(frameLen)
		c.decoded.Add(1)
		return &Message{
			Seq:     data[2],
			SysID:   data[3],
			CompID:  data[4],
			ID:      msgID,
			Payload: data[HeaderLen : HeaderLen+payloadLen],
			Raw:     data,
		}, true, nil
	}
}

func (c *v1) Encode(m *Message, out *buf.ByteBuf) error {
	if len(m.Payload) > MaxPayloadLen {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(m.Payload))
	}
	extra, known := c.dialect.CRCExtra(m.ID)
	if !known {
		return fmt.Errorf("%w: %d", ErrUnknownMessage, m.ID)
	}

	m.Seq = c.seq
	c.seq++

	n := len(m.Payload)
	data := make([]byte, HeaderLen+n+ChecksumLen)
	data[0] = Magic
	data[1] = byte(n)
	data[2] = m.Seq
	data[3] = m.SysID
	data[4] = m.CompID
	data[5] = m.ID
	copy(data[HeaderLen:], m.Payload)

	sum := crcX25(data[1 : HeaderLen+n])
	sum = crcAccumulate(extra, sum)
	buf.Uint16ToBytesTo(sum, data[HeaderLen+n:])

	m.Raw = data
	out.MustWrite(data)
	return nil
}

func (c *v1) Stats() CodecStats {
	return CodecStats{
		Decoded:      c.decoded.Load(),
		DroppedBytes: c.droppedBytes.Load(),
		BadFrames:    c.badFrames.Load(),
	}
}

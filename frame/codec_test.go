package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightlink/mavconn/buf"
)

func encodeFrame(t *testing.T, c Codec, m *Message) []byte {
	t.Helper()
	out := buf.NewByteBuf(MaxFrameLen)
	require.NoError(t, c.Encode(m, out))
	_, data := out.ReadAll()
	return data
}

func drain(c Codec, in *buf.ByteBuf) []*Message {
	var msgs []*Message
	for {
		m, ok, err := c.Decode(in)
		if err != nil || !ok {
			return msgs
		}
		msgs = append(msgs, m)
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	enc := NewV1(nil)
	dec := NewV1(nil)

	sent := &Message{SysID: 1, CompID: 240, ID: 0, Payload: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}}
	data := encodeFrame(t, enc, sent)
	assert.Equal(t, HeaderLen+9+ChecksumLen, len(data))
	assert.Equal(t, Magic, data[0])

	in := buf.NewByteBuf(16)
	in.MustWrite(data)
	got, ok, err := dec.Decode(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sent.SysID, got.SysID)
	assert.Equal(t, sent.CompID, got.CompID)
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, sent.Payload, got.Payload)
	assert.Equal(t, data, got.Raw)
	assert.Equal(t, uint64(1), dec.Stats().Decoded)
}

func TestEncodeAssignsSequence(t *testing.T) {
	enc := NewV1(nil)
	for i := 0; i < 3; i++ {
		m := &Message{ID: 0, Payload: make([]byte, 9)}
		encodeFrame(t, enc, m)
		assert.Equal(t, uint8(i), m.Seq)
	}

	enc.(*v1).seq = 255
	m := &Message{ID: 0, Payload: make([]byte, 9)}
	encodeFrame(t, enc, m)
	assert.Equal(t, uint8(255), m.Seq)
	m = &Message{ID: 0, Payload: make([]byte, 9)}
	encodeFrame(t, enc, m)
	assert.Equal(t, uint8(0), m.Seq)
}

func TestEncodeRejectsUnknownMessage(t *testing.T) {
	enc := NewV1(nil)
	err := enc.Encode(&Message{ID: 200}, buf.NewByteBuf(16))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	enc := NewV1(nil)
	err := enc.Encode(&Message{ID: 0, Payload: make([]byte, MaxPayloadLen+1)}, buf.NewByteBuf(16))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeWaitsForCompleteFrame(t *testing.T) {
	enc := NewV1(nil)
	dec := NewV1(nil)
	data := encodeFrame(t, enc, &Message{ID: 0, Payload: make([]byte, 9)})

	in := buf.NewByteBuf(16)
	for _, b := range data[:len(data)-1] {
		in.MustWriteByte(b)
		_, ok, err := dec.Decode(in)
		require.NoError(t, err)
		require.False(t, ok)
	}

	in.MustWriteByte(data[len(data)-1])
	_, ok, err := dec.Decode(in)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecodeChunkBoundaryIndependence(t *testing.T) {
	enc := NewV1(nil)
	var stream []byte
	stream = append(stream, 0x00, 0x55) // leading noise
	for i := 0; i < 4; i++ {
		payload := make([]byte, 9)
		payload[0] = byte(i)
		stream = append(stream, encodeFrame(t, enc, &Message{SysID: 1, CompID: 1, ID: 0, Payload: payload})...)
	}

	whole := NewV1(nil)
	in := buf.NewByteBuf(16)
	in.MustWrite(stream)
	want := drain(whole, in)
	require.Len(t, want, 4)

	for _, chunk := range []int{1, 3, 7} {
		chunked := NewV1(nil)
		in := buf.NewByteBuf(16)
		var got []*Message
		for off := 0; off < len(stream); off += chunk {
			end := off + chunk
			if end > len(stream) {
				end = len(stream)
			}
			in.MustWrite(stream[off:end])
			got = append(got, drain(chunked, in)...)
		}

		require.Len(t, got, len(want), "chunk size %d", chunk)
		for i := range want {
			assert.Equal(t, want[i].Raw, got[i].Raw, "chunk size %d", chunk)
		}
	}
}

func TestDecodeSkipsGarbage(t *testing.T) {
	enc := NewV1(nil)
	dec := NewV1(nil)
	garbage := []byte{0x01, 0x02, 0x03, 0x04}
	data := append(append([]byte{}, garbage...), encodeFrame(t, enc, &Message{ID: 0, Payload: make([]byte, 9)})...)

	in := buf.NewByteBuf(16)
	in.MustWrite(data)
	_, ok, err := dec.Decode(in)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(len(garbage)), dec.Stats().DroppedBytes)
}

func TestDecodeDropsCorruptFrame(t *testing.T) {
	enc := NewV1(nil)
	dec := NewV1(nil)
	bad := encodeFrame(t, enc, &Message{ID: 0, Payload: make([]byte, 9)})
	bad[HeaderLen] ^= 0xff // corrupt the payload
	good := encodeFrame(t, enc, &Message{ID: 0, Payload: make([]byte, 9)})

	in := buf.NewByteBuf(16)
	in.MustWrite(bad)
	in.MustWrite(good)

	m, ok, err := dec.Decode(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, good, m.Raw)
	assert.Equal(t, uint64(1), dec.Stats().BadFrames)
	assert.Equal(t, uint64(1), dec.Stats().Decoded)
}

func TestDecodeDropsUnknownMessage(t *testing.T) {
	custom := NewDialect().Register(200, "CUSTOM", 99)
	enc := NewV1(custom)
	dec := NewV1(nil)

	unknown := encodeFrame(t, enc, &Message{ID: 200, Payload: []byte{1, 2, 3}})
	known := encodeFrame(t, NewV1(nil), &Message{ID: 0, Payload: make([]byte, 9)})

	in := buf.NewByteBuf(16)
	in.MustWrite(unknown)
	in.MustWrite(known)

	m, ok, err := dec.Decode(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(0), m.ID)
	assert.Equal(t, uint64(1), dec.Stats().BadFrames)

	// the custom dialect can decode its own message
	in2 := buf.NewByteBuf(16)
	in2.MustWrite(unknown)
	m, ok, err = NewV1(custom).Decode(in2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(200), m.ID)
}

func TestDialectName(t *testing.T) {
	assert.Equal(t, "HEARTBEAT", Common().Name(0))
	assert.Equal(t, "STATUSTEXT", Common().Name(253))
	assert.Equal(t, "MSG_97", Common().Name(97))
}

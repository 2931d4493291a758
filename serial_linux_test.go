//go:build linux

package mavconn

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightlink/mavconn/frame"
)

func TestSerialPTY(t *testing.T) {
	defer leaktest.AfterTest(t)()

	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	device := slave.Name()
	require.NoError(t, slave.Close())

	m, err := DialSerial(device, 115200)
	require.NoError(t, err)
	assert.Equal(t, device+":115200", m.LocalAddr().String())
	assert.Nil(t, m.RemoteAddr())

	_, err = master.Write([]byte("hello"))
	require.NoError(t, err)
	b := make([]byte, 16)
	n, err := m.Read(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b[:n]))

	_, err = m.Write([]byte("pong"))
	require.NoError(t, err)
	got := make(chan string, 1)
	go func() {
		rb := make([]byte, 16)
		rn, rerr := master.Read(rb)
		if rerr == nil {
			got <- string(rb[:rn])
		}
	}()
	select {
	case s := <-got:
		assert.Equal(t, "pong", s)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout reading from master")
	}

	require.NoError(t, m.Close())
}

func TestDialSerialErrors(t *testing.T) {
	_, err := DialSerial("/dev/null", 1234567)
	assert.Error(t, err)

	_, err = DialSerial("/dev/mavconn-does-not-exist", 57600)
	require.Error(t, err)
	var de *DeviceError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, "/dev/mavconn-does-not-exist", de.Device)
}

func TestChannelOverPTY(t *testing.T) {
	defer leaktest.AfterTest(t)()

	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	device := slave.Name()
	require.NoError(t, slave.Close())

	m, err := DialSerial(device, 57600)
	require.NoError(t, err)

	msgs := make(chan *frame.Message, 1)
	c := NewChannel(m, WithMessageHandler(func(msg *frame.Message) {
		msgs <- msg
	}))
	defer c.Close()

	raw := encodeTestFrame(t, &frame.Message{
		ID:      30,
		SysID:   1,
		CompID:  1,
		Payload: make([]byte, 28),
	})
	_, err = master.Write(raw)
	require.NoError(t, err)

	select {
	case got := <-msgs:
		assert.Equal(t, uint8(30), got.ID)
		assert.Equal(t, 28, len(got.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

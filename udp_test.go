package mavconn

import (
	"net"
	"testing"
	"time"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialUDP(t *testing.T) {
	defer leaktest.AfterTest(t)()

	peer, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer peer.Close()

	m, err := DialUDP("", peer.LocalAddr().String())
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Write([]byte("ping"))
	require.NoError(t, err)

	b := make([]byte, 16)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, addr, err := peer.ReadFromUDP(b)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(b[:n]))

	_, err = peer.WriteToUDP([]byte("pong"), addr)
	require.NoError(t, err)
	require.NoError(t, m.(*net.UDPConn).SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err = m.Read(b)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(b[:n]))
}

func TestListenUDPLearnsRemote(t *testing.T) {
	defer leaktest.AfterTest(t)()

	m, err := ListenUDP("127.0.0.1:0")
	require.NoError(t, err)
	defer m.Close()

	// writes are discarded until a sender is known
	n, err := m.Write([]byte("early"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Nil(t, m.RemoteAddr())

	peer, err := net.DialUDP("udp", nil, m.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	defer peer.Close()

	_, err = peer.Write([]byte("hello"))
	require.NoError(t, err)

	b := make([]byte, 16)
	lm := m.(*udpListener)
	require.NoError(t, lm.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	rn, err := m.Read(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b[:rn]))
	require.NotNil(t, m.RemoteAddr())
	assert.Equal(t, peer.LocalAddr().String(), m.RemoteAddr().String())

	_, err = m.Write([]byte("pong"))
	require.NoError(t, err)
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	rn, err = peer.Read(b)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(b[:rn]))
}

func TestListenUDPFollowsSender(t *testing.T) {
	defer leaktest.AfterTest(t)()

	m, err := ListenUDP("127.0.0.1:0")
	require.NoError(t, err)
	defer m.Close()
	laddr := m.LocalAddr().(*net.UDPAddr)

	first, err := net.DialUDP("udp", nil, laddr)
	require.NoError(t, err)
	defer first.Close()
	second, err := net.DialUDP("udp", nil, laddr)
	require.NoError(t, err)
	defer second.Close()

	lm := m.(*udpListener)
	require.NoError(t, lm.conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	b := make([]byte, 16)
	_, err = first.Write([]byte("one"))
	require.NoError(t, err)
	_, err = m.Read(b)
	require.NoError(t, err)
	assert.Equal(t, first.LocalAddr().String(), m.RemoteAddr().String())

	_, err = second.Write([]byte("two"))
	require.NoError(t, err)
	_, err = m.Read(b)
	require.NoError(t, err)
	assert.Equal(t, second.LocalAddr().String(), m.RemoteAddr().String())

	_, err = m.Write([]byte("pong"))
	require.NoError(t, err)
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	rn, err := second.Read(b)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(b[:rn]))
}

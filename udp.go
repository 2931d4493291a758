package mavconn

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// DialUDP opens a connected UDP socket bound to local, which may be
// empty, sending to and receiving only from remote.
func DialUDP(local, remote string) (Medium, error) {
	var laddr *net.UDPAddr
	if local != "" {
		a, err := net.ResolveUDPAddr("udp", local)
		if err != nil {
			return nil, newDeviceError(local, err)
		}
		laddr = a
	}
	raddr, err := net.ResolveUDPAddr("udp", remote)
	if err != nil {
		return nil, newDeviceError(remote, err)
	}
	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, newDeviceError(remote, err)
	}
	return conn, nil
}

// ListenUDP opens an unconnected UDP socket bound to local. The remote
// endpoint is learned from the latest sender, so the link follows an
// autopilot that changes its source port after a reboot. Writes before
// any sender is known are discarded.
func ListenUDP(local string) (Medium, error) {
	laddr, err := net.ResolveUDPAddr("udp", local)
	if err != nil {
		return nil, newDeviceError(local, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, newDeviceError(local, err)
	}
	return &udpListener{conn: conn}, nil
}

type udpListener struct {
	conn   *net.UDPConn
	remote atomic.Pointer[net.UDPAddr]
}

func (u *udpListener) Read(b []byte) (int, error) {
	n, addr, err := u.conn.ReadFromUDP(b)
	if addr != nil {
		if old := u.remote.Swap(addr); old == nil {
			logger.Info("udp remote discovered",
				zap.String("local", u.conn.LocalAddr().String()),
				zap.String("remote", addr.String()))
		}
	}
	return n, err
}

func (u *udpListener) Write(b []byte) (int, error) {
	addr := u.remote.Load()
	if addr == nil {
		return len(b), nil
	}
	return u.conn.WriteToUDP(b, addr)
}

func (u *udpListener) Close() error {
	return u.conn.Close()
}

func (u *udpListener) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

func (u *udpListener) RemoteAddr() net.Addr {
	if addr := u.remote.Load(); addr != nil {
		return addr
	}
	return nil
}

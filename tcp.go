package mavconn

import (
	"context"
	"net"
	"time"
)

// DialTCP connects to a TCP endpoint with the given timeout.
func DialTCP(remote string, timeout time.Duration) (Medium, error) {
	conn, err := net.DialTimeout("tcp", remote, timeout)
	if err != nil {
		return nil, newDeviceError(remote, err)
	}
	tc := conn.(*net.TCPConn)
	tc.SetNoDelay(true)
	return tc, nil
}

// ListenTCP listens on local and blocks until one client connects.
func ListenTCP(local string) (Medium, error) {
	lc := net.ListenConfig{Control: listenControl}
	l, err := lc.Listen(context.Background(), "tcp", local)
	if err != nil {
		return nil, newDeviceError(local, err)
	}
	return AcceptTCP(l)
}

// AcceptTCP waits for one client on l, then closes the listener and
// returns the accepted connection. A link serves a single peer, to
// accept another peer open a new listener.
func AcceptTCP(l net.Listener) (Medium, error) {
	defer l.Close()
	conn, err := l.Accept()
	if err != nil {
		return nil, newDeviceError(l.Addr().String(), err)
	}
	tc := conn.(*net.TCPConn)
	tc.SetNoDelay(true)
	return tc, nil
}

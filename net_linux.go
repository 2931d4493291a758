//go:build linux

package mavconn

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// listenControl enables SO_REUSEPORT so a restarted bridge can rebind
// before the old socket leaves TIME_WAIT, and TCP_FASTOPEN for ground
// stations that reconnect often.
func listenControl(network, address string, conn syscall.RawConn) error {
	var err error
	cerr := conn.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET,
			unix.SO_REUSEPORT, 1)
		if err != nil {
			return
		}
		err = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP,
			unix.TCP_FASTOPEN, 1)
	})
	if cerr != nil {
		return cerr
	}
	return err
}

//go:build !linux

package mavconn

import (
	"syscall"
)

func listenControl(network, address string, conn syscall.RawConn) error {
	return nil
}

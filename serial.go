package mavconn

import (
	"fmt"
	"net"
	"os"
)

type serialAddr struct {
	device string
	baud   int
}

func (a serialAddr) Network() string {
	return "serial"
}

func (a serialAddr) String() string {
	return fmt.Sprintf("%s:%d", a.device, a.baud)
}

// serialPort wraps the device file. The file descriptor stays in
// non-blocking mode and is registered with the runtime poller, so
// Close unblocks a concurrent Read.
type serialPort struct {
	f    *os.File
	addr serialAddr
}

// DialSerial opens a serial device in raw 8N1 mode without flow
// control at the given baud rate.
func DialSerial(device string, baud int) (Medium, error) {
	f, err := openSerial(device, baud)
	if err != nil {
		return nil, newDeviceError(device, err)
	}
	return &serialPort{
		f:    f,
		addr: serialAddr{device: device, baud: baud},
	}, nil
}

func (p *serialPort) Read(b []byte) (int, error) {
	return p.f.Read(b)
}

func (p *serialPort) Write(b []byte) (int, error) {
	return p.f.Write(b)
}

func (p *serialPort) Close() error {
	return p.f.Close()
}

func (p *serialPort) LocalAddr() net.Addr {
	return p.addr
}

func (p *serialPort) RemoteAddr() net.Addr {
	return nil
}

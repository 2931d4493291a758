// Package mavconn provides asynchronous MAVLink link channels over
// serial, UDP and TCP media.
//
// A Channel owns two goroutines. The read worker pulls bytes from the
// medium, feeds them to the frame codec and delivers every decoded
// message to the message handler. The write worker drains a bounded
// outbound queue, keeping at most one medium write in flight at any
// time. SendMessage and SendBytes only enqueue and never block on I/O,
// failing fast with ErrTxQueueFull when the queue is at capacity.
//
// Channels are created connected, via NewChannel on an already open
// Medium or via OpenURL with a connection URL such as
// "serial:///dev/ttyACM0:57600" or "udp://:14555@192.168.1.12:14550".
// Once closed a channel stays closed, create a new one to reconnect.
package mavconn

import (
	"net"

	"github.com/flightlink/mavconn/frame"
)

// Identity is the system and component id stamped on outbound messages
// that do not carry one already.
type Identity struct {
	SystemID    uint8
	ComponentID uint8
}

// Channel is a full-duplex message channel over a single medium.
// All methods are safe for concurrent use.
type Channel interface {
	// SendMessage encodes m and appends the encoded frame to the
	// outbound queue. Messages from concurrent senders are written in
	// enqueue order. Zero SysID and CompID are replaced with the
	// channel identity before encoding. Returns ErrTxQueueFull when
	// the queue is at capacity and nil without effect once the channel
	// is closed.
	SendMessage(m *frame.Message) error
	// SendBytes appends an already encoded frame to the outbound
	// queue. Same queueing behavior as SendMessage.
	SendBytes(data []byte) error
	// Closed returns true once close has begun. Sends observing false
	// may still race a concurrent close and be dropped.
	Closed() bool
	// Close shuts the channel down, closes the medium, stops both
	// workers and discards any still queued outbound data. Safe to
	// call multiple times and from message and closed handlers.
	Close() error
	// LocalAddr returns the local address of the medium.
	LocalAddr() string
	// RemoteAddr returns the remote address of the medium.
	RemoteAddr() string
	// Stats returns a snapshot of the channel I/O counters.
	Stats() Stats
}

// Medium is a byte transport a Channel runs on. Read and Write may be
// called concurrently from the two channel workers. Close must unblock
// a concurrent Read.
type Medium interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

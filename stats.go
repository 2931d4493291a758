package mavconn

import (
	"sync/atomic"
)

// Stats is a snapshot of channel I/O counters. Byte counters cover
// only data actually passed to or received from the medium, frames
// dropped on close or rejected by the queue are not counted.
type Stats struct {
	BytesSent        uint64
	BytesReceived    uint64
	MessagesSent     uint64
	MessagesReceived uint64
	RxDroppedBytes   uint64
	RxBadFrames      uint64

	// Outbound queue occupancy at the time of the snapshot. The
	// queue is empty once the channel has closed.
	TxQueueLen int
	TxQueueCap int
}

type ioStats struct {
	txBytes atomic.Uint64
	rxBytes atomic.Uint64
	txMsgs  atomic.Uint64
	rxMsgs  atomic.Uint64
}

func (s *ioStats) addTx(n int) {
	s.txBytes.Add(uint64(n))
}

func (s *ioStats) addRx(n int) {
	s.rxBytes.Add(uint64(n))
}

func (s *ioStats) incTxMsgs() {
	s.txMsgs.Add(1)
}

func (s *ioStats) incRxMsgs() {
	s.rxMsgs.Add(1)
}

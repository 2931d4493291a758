package mavconn

import (
	"fmt"
)

// compactHeadMin is the drained-prefix length advance tolerates before
// it copies the live entries back to the front of the backing array.
const compactHeadMin = 32

type txEntry struct {
	data []byte
	pos  int
}

func (e *txEntry) remaining() []byte {
	return e.data[e.pos:]
}

func (e *txEntry) done() bool {
	return e.pos >= len(e.data)
}

// txQueue is a bounded FIFO of outbound frames. Not safe for
// concurrent use, the channel guards it with its mutex. The writing
// flag is true while the write worker has the front entry in flight,
// senders skip the wakeup signal in that case because the worker
// rechecks the queue after every write.
type txQueue struct {
	max     int
	writing bool
	head    int
	entries []txEntry
}

func newTxQueue(max int) *txQueue {
	return &txQueue{max: max}
}

func (q *txQueue) len() int {
	return len(q.entries) - q.head
}

func (q *txQueue) full() bool {
	return q.len() >= q.max
}

func (q *txQueue) push(data []byte) bool {
	if q.full() {
		return false
	}
	q.entries = append(q.entries, txEntry{data: data})
	return true
}

func (q *txQueue) front() *txEntry {
	if q.len() == 0 {
		return nil
	}
	return &q.entries[q.head]
}

// advance moves the front entry cursor by n written bytes, popping the
// entry once fully written. Returns true when the entry completed.
func (q *txQueue) advance(n int) bool {
	e := q.front()
	if e == nil {
		panic("advance on empty tx queue")
	}
	e.pos += n
	if e.pos > len(e.data) {
		panic(fmt.Sprintf("tx cursor overrun, %d > %d", e.pos, len(e.data)))
	}
	if !e.done() {
		return false
	}
	q.entries[q.head] = txEntry{}
	q.head++
	switch {
	case q.head == len(q.entries):
		q.entries = q.entries[:0]
		q.head = 0
	case q.head > compactHeadMin && q.head*2 >= len(q.entries):
		live := copy(q.entries, q.entries[q.head:])
		for i := live; i < len(q.entries); i++ {
			q.entries[i] = txEntry{}
		}
		q.entries = q.entries[:live]
		q.head = 0
	}
	return true
}

func (q *txQueue) clear() int {
	n := q.len()
	for i := q.head; i < len(q.entries); i++ {
		q.entries[i] = txEntry{}
	}
	q.entries = q.entries[:0]
	q.head = 0
	return n
}

package mavconn

import (
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/flightlink/mavconn/buf"
	"github.com/flightlink/mavconn/frame"
)

// channel runs two workers over a medium. The read worker owns the
// read buffer and the decoder and delivers messages to the handler.
// The write worker drains the outbound queue with a single write in
// flight. Senders only touch the queue under mu and wake the write
// worker through wakec, so a send never blocks on medium I/O.
type channel struct {
	opts   *options
	medium Medium
	codec  frame.Codec
	local  string
	remote string
	logger *zap.Logger

	stats    ioStats
	closed   atomic.Bool
	notified atomic.Bool
	readGID  atomic.Uint64
	writeGID atomic.Uint64

	wakec chan struct{}
	stopc chan struct{}
	wg    sync.WaitGroup

	mu struct {
		sync.Mutex
		closed bool
		q      *txQueue
		out    *buf.ByteBuf
	}
}

// NewChannel create a channel over an open medium and start its read
// and write workers. The channel owns the medium from this point and
// closes it on Close.
func NewChannel(medium Medium, opts ...Option) Channel {
	copts := &options{}
	for _, opt := range opts {
		opt(copts)
	}
	copts.adjust()

	c := &channel{
		opts:   copts,
		medium: medium,
		codec:  copts.codec,
		wakec:  make(chan struct{}, 1),
		stopc:  make(chan struct{}),
	}
	if addr := medium.LocalAddr(); addr != nil {
		c.local = addr.String()
	}
	if addr := medium.RemoteAddr(); addr != nil {
		c.remote = addr.String()
	}
	c.logger = copts.logger.Named("channel").With(
		zap.String("local", c.local),
		zap.String("remote", c.remote))
	c.mu.q = newTxQueue(copts.txQueueSize)
	c.mu.out = buf.NewByteBuf(frame.MaxFrameLen,
		buf.WithMemAllocator(copts.allocator))

	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
	c.logger.Info("channel opened")
	return c
}

func (c *channel) SendMessage(m *frame.Message) error {
	c.mu.Lock()
	if c.mu.closed {
		c.mu.Unlock()
		c.logger.Error("send on closed channel", zap.Uint8("msgid", m.ID))
		return nil
	}
	if c.mu.q.full() {
		c.mu.Unlock()
		return ErrTxQueueFull
	}
	if m.SysID == 0 && m.CompID == 0 {
		m.SysID = c.opts.identity.SystemID
		m.CompID = c.opts.identity.ComponentID
	}
	c.mu.out.Reset()
	if err := c.codec.Encode(m, c.mu.out); err != nil {
		c.mu.Unlock()
		return err
	}
	_, data := c.mu.out.ReadAll()
	wake := !c.mu.q.writing
	c.mu.q.push(data)
	c.mu.Unlock()

	c.wakeWriter(wake)
	return nil
}

func (c *channel) SendBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	c.mu.Lock()
	if c.mu.closed {
		c.mu.Unlock()
		c.logger.Error("send on closed channel")
		return nil
	}
	if c.mu.q.full() {
		c.mu.Unlock()
		return ErrTxQueueFull
	}
	frameData := make([]byte, len(data))
	copy(frameData, data)
	wake := !c.mu.q.writing
	c.mu.q.push(frameData)
	c.mu.Unlock()

	c.wakeWriter(wake)
	return nil
}

// wakeWriter signals the write worker that the queue went from idle to
// non-empty. The signal is skipped while a write is in flight because
// the worker rechecks the queue after every write, and wakec is
// buffered so the signal is never lost when the worker has not parked
// yet.
func (c *channel) wakeWriter(wake bool) {
	if !wake {
		return
	}
	select {
	case c.wakec <- struct{}{}:
	default:
	}
}

func (c *channel) Closed() bool {
	return c.closed.Load()
}

func (c *channel) Close() error {
	c.mu.Lock()
	if c.mu.closed {
		c.mu.Unlock()
		c.join()
		c.notifyClosed()
		return nil
	}
	c.mu.closed = true
	c.closed.Store(true)
	dropped := c.mu.q.clear()
	c.mu.out.Close()
	c.mu.Unlock()

	close(c.stopc)
	err := c.medium.Close()
	if dropped > 0 {
		c.logger.Info("outbound frames dropped", zap.Int("frames", dropped))
	}
	c.join()
	c.notifyClosed()
	if err != nil {
		return newDeviceError(c.device(), err)
	}
	return nil
}

// join waits for both workers to exit, unless running on one of them.
// A worker that triggers close, or a handler that calls Close from the
// read worker, cannot wait for its own exit.
func (c *channel) join() {
	gid := curGoroutineID()
	if gid == c.readGID.Load() || gid == c.writeGID.Load() {
		return
	}
	c.wg.Wait()
}

func (c *channel) notifyClosed() {
	if !c.notified.CompareAndSwap(false, true) {
		return
	}
	c.logger.Info("channel closed")
	if fn := c.opts.closedFunc; fn != nil {
		fn()
	}
}

func (c *channel) LocalAddr() string {
	return c.local
}

func (c *channel) RemoteAddr() string {
	return c.remote
}

func (c *channel) Stats() Stats {
	cs := c.codec.Stats()
	c.mu.Lock()
	qlen := c.mu.q.len()
	c.mu.Unlock()
	return Stats{
		BytesSent:        c.stats.txBytes.Load(),
		BytesReceived:    c.stats.rxBytes.Load(),
		MessagesSent:     c.stats.txMsgs.Load(),
		MessagesReceived: c.stats.rxMsgs.Load(),
		RxDroppedBytes:   cs.DroppedBytes,
		RxBadFrames:      cs.BadFrames,
		TxQueueLen:       qlen,
		TxQueueCap:       c.opts.txQueueSize,
	}
}

func (c *channel) device() string {
	if c.remote != "" {
		return c.remote
	}
	return c.local
}

func (c *channel) readLoop() {
	defer c.wg.Done()
	c.readGID.Store(curGoroutineID())

	in := buf.NewByteBuf(c.opts.readBufSize,
		buf.WithMemAllocator(c.opts.allocator))
	defer in.Close()

	fn := c.opts.messageFunc
	for {
		if in.Readable() == 0 {
			in.Reset()
		}
		n, err := in.ReadFrom(c.medium)
		if n > 0 {
			c.stats.addRx(int(n))
		}
		if err != nil {
			if !c.closed.Load() {
				if err == io.EOF {
					c.logger.Info("connection closed by remote")
				} else {
					c.logger.Error("read failed",
						zap.Error(newDeviceError(c.device(), err)))
				}
				c.Close()
			}
			return
		}

		for {
			msg, ok, err := c.codec.Decode(in)
			if err != nil {
				if !c.closed.Load() {
					c.logger.Error("decode failed", zap.Error(err))
					c.Close()
				}
				return
			}
			if !ok {
				break
			}
			c.stats.incRxMsgs()
			if fn != nil {
				fn(msg)
			}
			if c.closed.Load() {
				return
			}
		}
	}
}

func (c *channel) writeLoop() {
	defer c.wg.Done()
	c.writeGID.Store(curGoroutineID())

	for {
		select {
		case <-c.stopc:
			return
		case <-c.wakec:
		}

		for {
			c.mu.Lock()
			if c.mu.closed {
				c.mu.Unlock()
				return
			}
			e := c.mu.q.front()
			if e == nil {
				c.mu.q.writing = false
				c.mu.Unlock()
				break
			}
			c.mu.q.writing = true
			data := e.remaining()
			c.mu.Unlock()

			n, err := c.medium.Write(data)
			if n > 0 {
				c.stats.addTx(n)
			}

			c.mu.Lock()
			if c.mu.closed {
				c.mu.Unlock()
				return
			}
			if n > 0 && c.mu.q.advance(n) {
				c.stats.incTxMsgs()
			}
			c.mu.Unlock()

			if err != nil {
				if !c.closed.Load() {
					c.logger.Error("write failed",
						zap.Error(newDeviceError(c.device(), err)))
					c.Close()
				}
				return
			}
		}
	}
}

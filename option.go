package mavconn

import (
	"go.uber.org/zap"

	"github.com/flightlink/mavconn/buf"
	"github.com/flightlink/mavconn/frame"
)

const (
	defaultTxQueueSize = 1000
	defaultReadBufSize = 1024
)

var defaultIdentity = Identity{SystemID: 1, ComponentID: 240}

// Option channel option
type Option func(*options)

type options struct {
	logger      *zap.Logger
	identity    Identity
	txQueueSize int
	readBufSize int
	codec       frame.Codec
	allocator   buf.Allocator
	messageFunc func(*frame.Message)
	closedFunc  func()
}

func (opts *options) adjust() {
	opts.logger = adjustLogger(opts.logger)
	if opts.identity.SystemID == 0 {
		opts.identity = defaultIdentity
	}
	if opts.txQueueSize <= 0 {
		opts.txQueueSize = defaultTxQueueSize
	}
	if opts.readBufSize <= 0 {
		opts.readBufSize = defaultReadBufSize
	}
	if opts.codec == nil {
		opts.codec = frame.NewV1(nil)
	}
}

// WithLogger set the logger used by the channel
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithIdentity set the system and component id stamped on outbound
// messages that do not carry one
func WithIdentity(id Identity) Option {
	return func(opts *options) {
		opts.identity = id
	}
}

// WithTxQueueSize set the max number of frames the outbound queue can
// hold, default is 1000
func WithTxQueueSize(size int) Option {
	return func(opts *options) {
		opts.txQueueSize = size
	}
}

// WithReadBufferSize set the initial read buffer size in bytes,
// default is 1024
func WithReadBufferSize(size int) Option {
	return func(opts *options) {
		opts.readBufSize = size
	}
}

// WithCodec set the frame codec, default is a MAVLink v1 codec with
// the common dialect
func WithCodec(codec frame.Codec) Option {
	return func(opts *options) {
		opts.codec = codec
	}
}

// WithAllocator set the allocator used by the channel buffers
func WithAllocator(allocator buf.Allocator) Option {
	return func(opts *options) {
		opts.allocator = allocator
	}
}

// WithMessageHandler set the func called from the read worker for
// every decoded message
func WithMessageHandler(fn func(*frame.Message)) Option {
	return func(opts *options) {
		opts.messageFunc = fn
	}
}

// WithClosedHandler set the func called exactly once when the channel
// has closed, whether by Close or by a medium error
func WithClosedHandler(fn func()) Option {
	return func(opts *options) {
		opts.closedFunc = fn
	}
}

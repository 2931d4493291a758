package buf

import (
	"fmt"
	"io"

	"github.com/fagongzi/util/hack"
)

const (
	defaultMinGrowSize      = 256
	defaultIOCopyBufferSize = 1024
)

// Option bytebuf option
type Option func(*ByteBuf)

// WithMemAllocator set the memory allocator. When a ByteBuf is created it
// allocates a []byte of the given capacity from the allocator, and Close
// frees the memory back to it.
func WithMemAllocator(alloc Allocator) Option {
	return func(bb *ByteBuf) {
		bb.options.alloc = alloc
	}
}

// WithMinGrowSize set the minimum grow size used when there is not enough
// space left in the buffer for a write.
func WithMinGrowSize(minGrowSize int) Option {
	return func(bb *ByteBuf) {
		bb.options.minGrowSize = minGrowSize
	}
}

// WithIOCopyBufferSize set the chunk size used by ReadFrom and WriteTo to
// control how much data moves per underlying I/O call.
func WithIOCopyBufferSize(value int) Option {
	return func(bb *ByteBuf) {
		bb.options.ioCopyBufferSize = value
	}
}

var (
	_ io.WriterTo   = (*ByteBuf)(nil)
	_ io.Writer     = (*ByteBuf)(nil)
	_ io.Reader     = (*ByteBuf)(nil)
	_ io.ReaderFrom = (*ByteBuf)(nil)
)

// ByteBuf is a reusable buffer that holds an internal []byte and maintains 2
// indexes for read and write data.
//
// | discardable bytes  |   readable bytes   |   writeable bytes  |
// |                    |                    |                    |
// |                    |                    |                    |
// 0      <=       readerIndex    <=     writerIndex    <=     capacity
//
// A partially decoded frame stays in the readable region between reads, so a
// ByteBuf is also the reassembly state of a streaming decoder.
type ByteBuf struct {
	buf         []byte // buf data, auto +/- size
	readerIndex int
	writerIndex int

	options struct {
		alloc            Allocator
		minGrowSize      int
		ioCopyBufferSize int
	}
}

// NewByteBuf create bytebuf with options
func NewByteBuf(capacity int, opts ...Option) *ByteBuf {
	b := &ByteBuf{
		readerIndex: 0,
		writerIndex: 0,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.adjust()
	b.buf = b.options.alloc.Alloc(capacity)
	return b
}

func (b *ByteBuf) adjust() {
	if b.options.alloc == nil {
		b.options.alloc = newHeapAllocator()
	}
	if b.options.minGrowSize == 0 {
		b.options.minGrowSize = defaultMinGrowSize
	}
	if b.options.ioCopyBufferSize == 0 {
		b.options.ioCopyBufferSize = defaultIOCopyBufferSize
	}
}

// Close close the ByteBuf
func (b *ByteBuf) Close() {
	b.options.alloc.Free(b.buf)
	b.buf = nil
}

// Reset reset to reuse.
func (b *ByteBuf) Reset() {
	b.readerIndex = 0
	b.writerIndex = 0
}

// Skip skip [readIndex, readIndex+n).
func (b *ByteBuf) Skip(n int) {
	if n > b.Readable() {
		panic(fmt.Sprintf("invalid skip %d", n))
	}
	b.readerIndex += n
}

// Readable return the number of bytes that can be read.
func (b *ByteBuf) Readable() int {
	return b.writerIndex - b.readerIndex
}

// ReadByte read a byte from buf
func (b *ByteBuf) ReadByte() (byte, error) {
	if b.Readable() == 0 {
		return 0, io.EOF
	}

	v := b.buf[b.readerIndex]
	b.readerIndex++
	return v, nil
}

// MustReadByte is similar to ReadByte, but panic if error returned
func (b *ByteBuf) MustReadByte() byte {
	v, err := b.ReadByte()
	if err != nil {
		panic(err)
	}
	return v
}

// ReadBytes read bytes from buf. It's will copy the data to a new byte array.
func (b *ByteBuf) ReadBytes(n int) (readed int, data []byte) {
	readed = n
	if readed > b.Readable() {
		readed = b.Readable()
	}
	if readed == 0 {
		return
	}

	data = make([]byte, readed)
	copy(data, b.buf[b.readerIndex:b.readerIndex+readed])
	b.readerIndex += readed
	return
}

// ReadAll read all readable bytes.
func (b *ByteBuf) ReadAll() (readed int, data []byte) {
	return b.ReadBytes(b.Readable())
}

// PeekByte returns the byte at readIndex+offset, and keeps readIndex not
// changed.
func (b *ByteBuf) PeekByte(offset int) byte {
	if b.Readable() <= offset {
		panic(fmt.Sprintf("peek byte at %d, but readable is %d",
			offset, b.Readable()))
	}
	return b.buf[b.readerIndex+offset]
}

// PeekN is similar to ReadBytes, but keep readIndex not changed. The returned
// slice aliases the internal buffer and is valid only until the next write.
func (b *ByteBuf) PeekN(offset, bytes int) []byte {
	if b.Readable() < offset+bytes {
		panic(fmt.Sprintf("peek bytes %d, but readable is %d",
			bytes, b.Readable()))
	}

	start := b.readerIndex + offset
	return b.buf[start : start+bytes]
}

// ReadUint16 get uint16 value from buf
func (b *ByteBuf) ReadUint16() uint16 {
	if b.Readable() < 2 {
		panic(fmt.Sprintf("read uint16, but readable is %d", b.Readable()))
	}

	b.readerIndex += 2
	return Byte2Uint16(b.buf[b.readerIndex-2 : b.readerIndex])
}

// ReadUint32 get uint32 value from buf
func (b *ByteBuf) ReadUint32() uint32 {
	if b.Readable() < 4 {
		panic(fmt.Sprintf("read uint32, but readable is %d", b.Readable()))
	}

	b.readerIndex += 4
	return Byte2Uint32(b.buf[b.readerIndex-4 : b.readerIndex])
}

// ReadUint64 get uint64 value from buf
func (b *ByteBuf) ReadUint64() uint64 {
	if b.Readable() < 8 {
		panic(fmt.Sprintf("read uint64, but readable is %d", b.Readable()))
	}

	b.readerIndex += 8
	return Byte2Uint64(b.buf[b.readerIndex-8 : b.readerIndex])
}

// Writeable return how many bytes can be written into buf
func (b *ByteBuf) Writeable() int {
	return b.capacity() - b.writerIndex
}

// MustWrite is similar to Write, but panic if encounter an error.
func (b *ByteBuf) MustWrite(value []byte) {
	if _, err := b.Write(value); err != nil {
		panic(err)
	}
}

// WriteUint16 write uint16 into buf
func (b *ByteBuf) WriteUint16(v uint16) {
	b.Grow(2)
	Uint16ToBytesTo(v, b.buf[b.writerIndex:b.writerIndex+2])
	b.writerIndex += 2
}

// WriteUint32 write uint32 into buf
func (b *ByteBuf) WriteUint32(v uint32) {
	b.Grow(4)
	Uint32ToBytesTo(v, b.buf[b.writerIndex:b.writerIndex+4])
	b.writerIndex += 4
}

// WriteUint64 write uint64 into buf
func (b *ByteBuf) WriteUint64(v uint64) {
	b.Grow(8)
	Uint64ToBytesTo(v, b.buf[b.writerIndex:b.writerIndex+8])
	b.writerIndex += 8
}

// WriteByte write a byte value into buf.
func (b *ByteBuf) WriteByte(v byte) error {
	b.Grow(1)
	b.buf[b.writerIndex] = v
	b.writerIndex++
	return nil
}

// MustWriteByte is similar to WriteByte, but panic if has any error
func (b *ByteBuf) MustWriteByte(v byte) {
	if err := b.WriteByte(v); err != nil {
		panic(err)
	}
}

// WriteString write a string value to buf
func (b *ByteBuf) WriteString(v string) {
	b.MustWrite(hack.StringToSlice(v))
}

// Grow ensure that n bytes can be written without another expansion. The
// readable bytes are compacted to the front of the buffer when an expansion
// happens, so the discardable region never grows without bound.
func (b *ByteBuf) Grow(n int) {
	if free := b.Writeable(); free < n {
		current := b.capacity()
		step := current / 2
		if step < b.options.minGrowSize {
			step = b.options.minGrowSize
		}

		size := current + (n - free)
		target := current
		for {
			if target > size {
				break
			}

			target += step
		}

		newBuf := b.options.alloc.Alloc(target)
		offset := b.writerIndex - b.readerIndex
		copy(newBuf, b.buf[b.readerIndex:b.writerIndex])
		b.readerIndex = 0
		b.writerIndex = offset
		b.options.alloc.Free(b.buf)
		b.buf = newBuf
	}
}

// Write implemented io.Writer interface
func (b *ByteBuf) Write(src []byte) (int, error) {
	n := len(src)
	b.Grow(n)
	copy(b.buf[b.writerIndex:], src)
	b.writerIndex += n
	return n, nil
}

// WriteTo implemented io.WriterTo interface
func (b *ByteBuf) WriteTo(dst io.Writer) (int64, error) {
	n := b.Readable()
	if n == 0 {
		return 0, io.EOF
	}
	if err := WriteTo(b.buf[b.readerIndex:b.writerIndex], dst, b.options.ioCopyBufferSize); err != nil {
		return 0, err
	}
	b.readerIndex = b.writerIndex
	return int64(n), nil
}

// Read implemented io.Reader interface. return n, nil or 0, io.EOF is successful
func (b *ByteBuf) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n := b.Readable()
	if n == 0 {
		return 0, io.EOF
	}
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst, b.buf[b.readerIndex:b.readerIndex+n])
	b.readerIndex += n
	return n, nil
}

// ReadFrom implemented io.ReaderFrom interface with read-some semantics: it
// performs underlying reads until at least one byte arrives, then returns.
// A read that yields no data and an error returns that error, including
// io.EOF, so a closed source is always observable to the caller.
func (b *ByteBuf) ReadFrom(r io.Reader) (int64, error) {
	for {
		b.Grow(b.options.ioCopyBufferSize)
		m, e := r.Read(b.buf[b.writerIndex : b.writerIndex+b.options.ioCopyBufferSize])
		if m < 0 {
			panic("bug: negative Read")
		}

		b.writerIndex += m
		if m > 0 {
			return int64(m), nil
		}
		if e != nil {
			return 0, e
		}
	}
}

func (b *ByteBuf) capacity() int {
	return len(b.buf)
}

// WriteTo write data to io.Writer, copyBuffer used to control how much data
// will be written at a time.
func WriteTo(data []byte, conn io.Writer, copyBuffer int) error {
	if copyBuffer == 0 || copyBuffer > len(data) {
		copyBuffer = len(data)
	}

	written := 0
	total := len(data)
	var err error
	for {
		to := written + copyBuffer
		if to > total {
			to = total
		}

		n, e := conn.Write(data[written:to])
		if n < 0 {
			panic("invalid write")
		}
		written += n
		if e != nil {
			err = e
			break
		}

		if written == total {
			break
		}
	}
	return err
}

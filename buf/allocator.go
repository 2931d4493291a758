package buf

// Allocator provides the backing storage for ByteBuf. A custom allocator can
// pool buffers shared across many channels; the default one allocates from
// the heap and leaves reclamation to the GC.
type Allocator interface {
	// Alloc allocates a []byte with len(data) >= size. The returned []byte
	// must not be expanded in use.
	Alloc(size int) []byte
	// Free frees the allocated memory.
	Free([]byte)
}

type heapAllocator struct {
}

func newHeapAllocator() Allocator {
	return &heapAllocator{}
}

func (ha *heapAllocator) Alloc(size int) []byte {
	return make([]byte, size)
}

func (ha *heapAllocator) Free([]byte) {

}

package mavconn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxQueueFIFO(t *testing.T) {
	q := newTxQueue(4)
	assert.True(t, q.push([]byte("a")))
	assert.True(t, q.push([]byte("bb")))
	assert.Equal(t, 2, q.len())

	assert.Equal(t, []byte("a"), q.front().remaining())
	assert.True(t, q.advance(1))
	assert.Equal(t, []byte("bb"), q.front().remaining())
	assert.False(t, q.advance(1))
	assert.True(t, q.advance(1))
	assert.Equal(t, 0, q.len())
}

func TestTxQueueFull(t *testing.T) {
	q := newTxQueue(2)
	assert.True(t, q.push([]byte("a")))
	assert.True(t, q.push([]byte("b")))
	assert.True(t, q.full())
	assert.False(t, q.push([]byte("c")))

	assert.True(t, q.advance(1))
	assert.False(t, q.full())
	assert.True(t, q.push([]byte("c")))
}

func TestTxQueuePartialWrite(t *testing.T) {
	q := newTxQueue(1)
	assert.True(t, q.push([]byte("abcd")))
	assert.False(t, q.advance(2))
	assert.Equal(t, []byte("cd"), q.front().remaining())
	assert.True(t, q.advance(2))
	assert.Nil(t, q.front())
}

func TestTxQueueClear(t *testing.T) {
	q := newTxQueue(4)
	assert.True(t, q.push([]byte("a")))
	assert.True(t, q.push([]byte("b")))
	assert.Equal(t, 2, q.clear())
	assert.Equal(t, 0, q.len())
	assert.Nil(t, q.front())
	assert.True(t, q.push([]byte("c")))
}

func TestTxQueueReuse(t *testing.T) {
	q := newTxQueue(2)
	for i := 0; i < 100; i++ {
		assert.True(t, q.push([]byte{byte(i)}))
		assert.True(t, q.advance(1))
	}
	assert.Equal(t, 0, q.len())
}

func TestTxQueueCompactsWithoutDraining(t *testing.T) {
	q := newTxQueue(4)
	assert.True(t, q.push([]byte{0}))

	// one entry always stays pending, so the full-drain reset never
	// runs and only compaction can bound the backing array
	var pushed, popped byte
	for i := 0; i < 10000; i++ {
		pushed++
		assert.True(t, q.push([]byte{pushed}))
		assert.Equal(t, []byte{popped}, q.front().remaining())
		assert.True(t, q.advance(1))
		popped++
		assert.Equal(t, 1, q.len())
		assert.LessOrEqual(t, len(q.entries), 2*compactHeadMin+2)
	}
	assert.LessOrEqual(t, cap(q.entries), 4*compactHeadMin)
}

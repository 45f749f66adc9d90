package drain

import "sync"

// DefaultBufferSize is the Buffer capacity used when none is given.
const DefaultBufferSize = 64 * 1024

// Buffer is a thread-safe ring buffer with a fixed capacity. Writes
// never block and never fail; once full, the oldest bytes give way.
type Buffer struct {
	mu    sync.Mutex
	data  []byte
	start int
	n     int
}

// NewBuffer creates a Buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Write appends p, evicting the oldest bytes if capacity is exceeded.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range p {
		b.data[(b.start+b.n)%len(b.data)] = c
		if b.n == len(b.data) {
			b.start = (b.start + 1) % len(b.data)
		} else {
			b.n++
		}
	}
	return len(p), nil
}

// Len reports the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// ReadAll returns the buffered bytes in write order and empties the
// buffer.
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.n)
	for i := range out {
		out[i] = b.data[(b.start+i)%len(b.data)]
	}
	b.start, b.n = 0, 0
	return out
}

//go:build unix

package drain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func testPipe(t *testing.T) (read, write int) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	return p[0], p[1]
}

func TestDrainReadsUntilWriterCloses(t *testing.T) {
	r, w := testPipe(t)

	payload := bytes.Repeat([]byte("0123456789"), 2000) // larger than one read chunk
	go func() {
		for off := 0; off < len(payload); {
			n, err := unix.Write(w, payload[off:])
			if err != nil {
				break
			}
			off += n
		}
		unix.Close(w)
	}()

	got, err := Drain(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	unix.Close(r)
}

func TestDrainEmpty(t *testing.T) {
	r, w := testPipe(t)
	unix.Close(w)

	got, err := Drain(r)
	require.NoError(t, err)
	assert.Empty(t, got)
	unix.Close(r)
}

func TestDrainInto(t *testing.T) {
	r, w := testPipe(t)
	_, err := unix.Write(w, []byte("buffered"))
	require.NoError(t, err)
	unix.Close(w)

	b := NewBuffer(16)
	require.NoError(t, DrainInto(b, r))
	assert.Equal(t, "buffered", string(b.ReadAll()))
	unix.Close(r)
}

func TestDrainBadDescriptor(t *testing.T) {
	r, w := testPipe(t)
	unix.Close(r)
	unix.Close(w)

	_, err := Drain(r)
	assert.Error(t, err)
}

func TestBufferEvictsOldest(t *testing.T) {
	b := NewBuffer(8)
	b.Write([]byte("abcdefgh"))
	b.Write([]byte("XY"))
	assert.Equal(t, 8, b.Len())
	assert.Equal(t, "cdefghXY", string(b.ReadAll()))
	assert.Equal(t, 0, b.Len())
}

func TestBufferWrapAround(t *testing.T) {
	b := NewBuffer(4)
	b.Write([]byte("ab"))
	assert.Equal(t, "ab", string(b.ReadAll()))
	b.Write([]byte("cdef"))
	assert.Equal(t, "cdef", string(b.ReadAll()))
}

func TestBufferDefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	b.Write([]byte("x"))
	assert.Equal(t, 1, b.Len())
}

package audio

import (
	"sync"
)

// PlayoutBuffer is a thread-safe byte ring sitting between the frame pacer
// and a room's socket writer. The pacer writes at playback rate; the writer
// goroutine drains as fast as the socket allows. One slot is kept free to
// disambiguate full from empty.
type PlayoutBuffer struct {
	buf   []byte
	size  int
	read  int
	write int
	mu    sync.RWMutex
}

// NewPlayoutBuffer creates a playout buffer holding up to size-1 bytes.
func NewPlayoutBuffer(size int) *PlayoutBuffer {
	return &PlayoutBuffer{
		buf:  make([]byte, size),
		size: size,
	}
}

// Write appends data, returning the number of bytes stored. A full buffer
// truncates; the caller decides whether dropped playout bytes matter.
func (pb *PlayoutBuffer) Write(data []byte) int {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	written := 0
	for _, b := range data {
		if (pb.write+1)%pb.size == pb.read {
			break
		}
		pb.buf[pb.write] = b
		pb.write = (pb.write + 1) % pb.size
		written++
	}
	return written
}

// Read fills data with buffered bytes in FIFO order, returning the count.
func (pb *PlayoutBuffer) Read(data []byte) int {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	read := 0
	for i := range data {
		if pb.read == pb.write {
			break
		}
		data[i] = pb.buf[pb.read]
		pb.read = (pb.read + 1) % pb.size
		read++
	}
	return read
}

// Buffered returns the number of bytes waiting to be drained.
func (pb *PlayoutBuffer) Buffered() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.buffered()
}

func (pb *PlayoutBuffer) buffered() int {
	if pb.write >= pb.read {
		return pb.write - pb.read
	}
	return pb.size - pb.read + pb.write
}

// Free returns how many more bytes Write can accept.
func (pb *PlayoutBuffer) Free() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.size - pb.buffered() - 1
}

// Reset discards all buffered bytes.
func (pb *PlayoutBuffer) Reset() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.read = 0
	pb.write = 0
}

// Empty reports whether nothing is buffered.
func (pb *PlayoutBuffer) Empty() bool {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.read == pb.write
}

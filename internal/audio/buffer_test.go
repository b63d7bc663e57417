package audio

import (
	"testing"
)

func TestPlayoutBuffer_WriteRead(t *testing.T) {
	pb := NewPlayoutBuffer(10)

	if written := pb.Write([]byte{1, 2, 3, 4, 5}); written != 5 {
		t.Errorf("wrote %d bytes, want 5", written)
	}
	if pb.Buffered() != 5 {
		t.Errorf("Buffered = %d, want 5", pb.Buffered())
	}

	out := make([]byte, 3)
	if read := pb.Read(out); read != 3 {
		t.Errorf("read %d bytes, want 3", read)
	}
	if out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Errorf("read wrong data: %v", out)
	}
	if pb.Buffered() != 2 {
		t.Errorf("Buffered after read = %d, want 2", pb.Buffered())
	}
}

func TestPlayoutBuffer_TruncatesWhenFull(t *testing.T) {
	pb := NewPlayoutBuffer(5)

	// Capacity is size-1.
	if written := pb.Write([]byte{1, 2, 3, 4, 5, 6}); written != 4 {
		t.Errorf("wrote %d bytes into full buffer, want 4", written)
	}
	if pb.Free() != 0 {
		t.Errorf("Free = %d, want 0", pb.Free())
	}
}

func TestPlayoutBuffer_ReadEmpty(t *testing.T) {
	pb := NewPlayoutBuffer(10)
	if !pb.Empty() {
		t.Error("new buffer should be empty")
	}
	if read := pb.Read(make([]byte, 4)); read != 0 {
		t.Errorf("read %d bytes from empty buffer, want 0", read)
	}
}

func TestPlayoutBuffer_WrapAround(t *testing.T) {
	pb := NewPlayoutBuffer(5)

	pb.Write([]byte{1, 2, 3, 4})
	pb.Read(make([]byte, 2))
	pb.Write([]byte{5, 6})

	out := make([]byte, 4)
	if read := pb.Read(out); read != 4 {
		t.Fatalf("read %d bytes, want 4", read)
	}
	want := []byte{3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestPlayoutBuffer_Reset(t *testing.T) {
	pb := NewPlayoutBuffer(10)
	pb.Write([]byte{1, 2, 3})
	pb.Reset()
	if !pb.Empty() {
		t.Error("buffer should be empty after Reset")
	}
	if pb.Free() != 9 {
		t.Errorf("Free after Reset = %d, want 9", pb.Free())
	}
}

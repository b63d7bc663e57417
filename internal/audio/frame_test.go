package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestChunker_FrameCountAndSize(t *testing.T) {
	tests := []struct {
		name       string
		bufLen     int
		sampleRate int
		wantFrames int
	}{
		{"empty input", 0, 24000, 0},
		{"less than one frame", 959, 24000, 0},
		{"exactly one frame", 960, 24000, 1},
		{"one frame plus remainder", 1500, 24000, 1},
		{"ten frames", 9600, 24000, 10},
		{"ten frames plus remainder", 9601, 24000, 10},
		{"8kHz frames", 3200, 8000, 10}, // 160 samples / 320 bytes per 20ms
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm := make([]byte, tt.bufLen)
			c := NewChunker(pcm, tt.sampleRate, FrameDuration)

			count := 0
			for {
				frame, ok := c.Next()
				if !ok {
					break
				}
				count++
				if err := frame.Validate(); err != nil {
					t.Fatalf("frame %d invalid: %v", count, err)
				}
				if frame.SampleRate != tt.sampleRate {
					t.Errorf("frame sample rate = %d, want %d", frame.SampleRate, tt.sampleRate)
				}
			}
			if count != tt.wantFrames {
				t.Errorf("got %d frames, want %d", count, tt.wantFrames)
			}
		})
	}
}

func TestChunker_PreservesOrder(t *testing.T) {
	// Each frame should be the next contiguous slice of the input.
	pcm := make([]byte, 960*3+100)
	for i := range pcm {
		pcm[i] = byte(i % 251)
	}

	c := NewChunker(pcm, 24000, FrameDuration)
	off := 0
	for {
		frame, ok := c.Next()
		if !ok {
			break
		}
		if !bytes.Equal(frame.PCM, pcm[off:off+960]) {
			t.Fatalf("frame at offset %d does not match input slice", off)
		}
		off += 960
	}
	if off != 960*3 {
		t.Errorf("consumed %d bytes, want %d (remainder dropped)", off, 960*3)
	}
}

func TestChunker_Reset(t *testing.T) {
	pcm := make([]byte, 960*2)
	c := NewChunker(pcm, 24000, FrameDuration)

	for i := 0; i < 2; i++ {
		if _, ok := c.Next(); !ok {
			t.Fatalf("pass 1: frame %d missing", i)
		}
	}
	if _, ok := c.Next(); ok {
		t.Fatal("expected exhaustion after 2 frames")
	}

	c.Reset()
	if got := c.Remaining(); got != 2 {
		t.Errorf("Remaining after Reset = %d, want 2", got)
	}
}

func TestFrame_Duration(t *testing.T) {
	frame := Frame{SampleRate: 24000, Channels: 1, SamplesPerChannel: 480, PCM: make([]byte, 960)}
	if got := frame.Duration(); got != 20*time.Millisecond {
		t.Errorf("Duration = %v, want 20ms", got)
	}
}

func TestFrame_Validate(t *testing.T) {
	bad := Frame{SampleRate: 24000, Channels: 1, SamplesPerChannel: 480, PCM: make([]byte, 959)}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for short PCM buffer")
	}
}

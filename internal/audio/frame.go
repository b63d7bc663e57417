package audio

import (
	"fmt"
	"time"
)

// DefaultSampleRate is the pipeline-wide sample rate. All synthesized and
// decoded audio is normalized to this rate before chunking.
const DefaultSampleRate = 24000

// FrameDuration is the fixed duration of a real-time frame.
const FrameDuration = 20 * time.Millisecond

// Frame is a fixed-duration slice of mono 16-bit PCM sized for real-time
// delivery. len(PCM) is always SamplesPerChannel * Channels * 2.
type Frame struct {
	PCM               []byte
	SampleRate        int
	Channels          int
	SamplesPerChannel int
}

// Duration returns the nominal playback duration of the frame.
func (f Frame) Duration() time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(f.SamplesPerChannel) * time.Second / time.Duration(f.SampleRate)
}

// Validate checks the frame size invariant.
func (f Frame) Validate() error {
	if want := f.SamplesPerChannel * f.Channels * 2; len(f.PCM) != want {
		return fmt.Errorf("frame has %d PCM bytes, want %d", len(f.PCM), want)
	}
	return nil
}

// Chunker slices a raw mono 16-bit PCM buffer into fixed-duration frames.
// A trailing slice shorter than one frame is dropped, never padded. The
// sequence is finite and restartable via Reset.
type Chunker struct {
	pcm        []byte
	sampleRate int
	samples    int // samples per frame
	stride     int // bytes per frame
	off        int
}

// NewChunker creates a chunker over pcm at the given sample rate, producing
// frames of the given duration. Frame sample count is rounded to the nearest
// whole sample.
func NewChunker(pcm []byte, sampleRate int, frameDur time.Duration) *Chunker {
	samples := int(float64(sampleRate)*frameDur.Seconds() + 0.5)
	return &Chunker{
		pcm:        pcm,
		sampleRate: sampleRate,
		samples:    samples,
		stride:     samples * 2,
	}
}

// Next returns the next frame and true, or a zero frame and false once the
// buffer is exhausted. The returned frame aliases the underlying buffer.
func (c *Chunker) Next() (Frame, bool) {
	if c.stride <= 0 || c.off+c.stride > len(c.pcm) {
		return Frame{}, false
	}
	frame := Frame{
		PCM:               c.pcm[c.off : c.off+c.stride],
		SampleRate:        c.sampleRate,
		Channels:          1,
		SamplesPerChannel: c.samples,
	}
	c.off += c.stride
	return frame, true
}

// Remaining returns how many full frames are left.
func (c *Chunker) Remaining() int {
	if c.stride <= 0 {
		return 0
	}
	return (len(c.pcm) - c.off) / c.stride
}

// Reset rewinds the chunker to the start of the buffer.
func (c *Chunker) Reset() {
	c.off = 0
}

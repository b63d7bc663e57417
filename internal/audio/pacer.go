package audio

import (
	"context"
	"time"
)

// Sink is the real-time transport's audio input. Frames must be delivered
// in order; the sink owns any buffering past this point.
type Sink interface {
	WriteFrame(frame Frame) error
}

// Pacer consumes a frame sequence and delivers each frame to a sink at
// playback rate: one write, then a suspension for the frame's nominal
// duration. This is an open-loop pacer; it does not measure sink drain time
// or network jitter, so sustained sink backpressure goes undetected.
type Pacer struct {
	sink          Sink
	trailingPause time.Duration

	// sleep is swappable so tests can count suspensions instead of waiting.
	sleep func(time.Duration)
}

// NewPacer creates a pacer that writes to sink and suspends for trailingPause
// after the sequence is exhausted (doubles as the turn-taking gap).
func NewPacer(sink Sink, trailingPause time.Duration) *Pacer {
	return &Pacer{
		sink:          sink,
		trailingPause: trailingPause,
		sleep:         time.Sleep,
	}
}

// Play drains the chunker into the sink. Sink write errors abort playback
// and are returned; ctx cancellation stops between frames. The trailing
// pause runs only after a fully delivered sequence.
func (p *Pacer) Play(ctx context.Context, chunker *Chunker) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, ok := chunker.Next()
		if !ok {
			break
		}
		if err := p.sink.WriteFrame(frame); err != nil {
			return err
		}
		p.sleep(frame.Duration())
	}

	if p.trailingPause > 0 {
		p.sleep(p.trailingPause)
	}
	return nil
}

// PlayPCM chunks a raw PCM buffer at the pipeline frame duration and plays it.
func (p *Pacer) PlayPCM(ctx context.Context, pcm []byte, sampleRate int) error {
	return p.Play(ctx, NewChunker(pcm, sampleRate, FrameDuration))
}

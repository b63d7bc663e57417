package tts

import "context"

// Synthesizer converts text into linear16 PCM audio at a fixed sample rate.
type Synthesizer interface {
	// Synthesize renders text as raw 16-bit mono PCM.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// SampleRate reports the PCM sample rate the synthesizer produces.
	SampleRate() int

	// Close releases client resources.
	Close() error
}

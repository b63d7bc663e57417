package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/script"
)

type fakeSynth struct {
	pcm  []byte
	err  error
	rate int
	text string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.text = text
	return f.pcm, f.err
}

func (f *fakeSynth) SampleRate() int { return f.rate }
func (f *fakeSynth) Close() error    { return nil }

type recordingSink struct {
	frames []audio.Frame
}

func (s *recordingSink) WriteFrame(f audio.Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

// framePCM returns PCM sized for exactly n 20ms frames at 1kHz, keeping
// test playback sleeps short.
func framePCM(n int) []byte {
	return make([]byte, n*20*2)
}

func newTestRenderer(santa, elf *fakeSynth, sink audio.Sink) *Renderer {
	cfg := Config{SantaPitchSemitones: -3, SantaSpeedFactor: 0.95}
	m := observability.NewCallMetrics("test-room")
	return NewRenderer(santa, elf, nil, sink, cfg, m, observability.GetLogger())
}

func TestSpeak_SelectsVoiceBySpeaker(t *testing.T) {
	santa := &fakeSynth{pcm: framePCM(2), rate: 1000}
	elf := &fakeSynth{pcm: framePCM(2), rate: 1000}
	sink := &recordingSink{}
	r := newTestRenderer(santa, elf, sink)

	r.Speak(context.Background(), script.ScriptLine{Speaker: script.SpeakerElf, Text: "hi there"})
	if elf.text != "hi there" {
		t.Errorf("elf synth got %q", elf.text)
	}
	if santa.text != "" {
		t.Error("santa synth should not have been called")
	}
	if len(sink.frames) != 2 {
		t.Errorf("delivered %d frames, want 2", len(sink.frames))
	}
}

func TestSpeak_SantaTransformStretchesAudio(t *testing.T) {
	// 0.95 speed stretches audio by ~1/0.95; with pitch -3 the total length
	// grows further, so more frames are delivered than the elf produces.
	santa := &fakeSynth{pcm: framePCM(10), rate: 1000}
	elf := &fakeSynth{pcm: framePCM(10), rate: 1000}

	santaSink := &recordingSink{}
	newTestRenderer(santa, elf, santaSink).Speak(context.Background(),
		script.ScriptLine{Speaker: script.SpeakerSanta, Text: "ho ho ho"})

	elfSink := &recordingSink{}
	newTestRenderer(santa, elf, elfSink).Speak(context.Background(),
		script.ScriptLine{Speaker: script.SpeakerElf, Text: "hello"})

	if len(santaSink.frames) <= len(elfSink.frames) {
		t.Errorf("santa frames = %d, elf frames = %d; transform should lengthen audio",
			len(santaSink.frames), len(elfSink.frames))
	}
}

func TestSpeak_SynthesisFailureIsSoft(t *testing.T) {
	santa := &fakeSynth{err: errors.New("api down"), rate: 1000}
	sink := &recordingSink{}
	r := newTestRenderer(santa, &fakeSynth{rate: 1000}, sink)

	// Must not panic; no audio emitted.
	r.Speak(context.Background(), script.ScriptLine{Speaker: script.SpeakerSanta, Text: "ho ho"})
	if len(sink.frames) != 0 {
		t.Errorf("delivered %d frames after synth failure, want 0", len(sink.frames))
	}
}

func TestSpeak_EmptyLineIsNoop(t *testing.T) {
	santa := &fakeSynth{pcm: framePCM(2), rate: 1000}
	sink := &recordingSink{}
	r := newTestRenderer(santa, &fakeSynth{rate: 1000}, sink)

	r.Speak(context.Background(), script.ScriptLine{})
	if santa.text != "" || len(sink.frames) != 0 {
		t.Error("empty line should not synthesize or emit")
	}
}

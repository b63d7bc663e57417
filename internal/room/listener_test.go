package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/stt"
)

type fakeSTT struct {
	startErr    bool
	transcripts chan *stt.TranscriptionResult
}

func newFakeSTT(startErr bool) *fakeSTT {
	return &fakeSTT{startErr: startErr, transcripts: make(chan *stt.TranscriptionResult, 10)}
}

func (f *fakeSTT) Start() error {
	if f.startErr {
		return errors.New("websocket connect refused")
	}
	return nil
}
func (f *fakeSTT) SendAudio(audioData []byte) error                  { return nil }
func (f *fakeSTT) GetTranscription() <-chan *stt.TranscriptionResult { return f.transcripts }
func (f *fakeSTT) Stop() error                                       { return nil }
func (f *fakeSTT) Close() error                                      { return nil }

func newTestListener(client stt.STTClient) *WishListener {
	vad := audio.NewVADDetector(&audio.VADConfig{EnergyThreshold: 500.0, SilenceFrames: 3, FrameSize: 480})
	return NewWishListener(client, vad, observability.GetLogger())
}

func TestWishListener_STTFailureStillHoldsWindow(t *testing.T) {
	l := newTestListener(newFakeSTT(true))

	window := 50 * time.Millisecond
	start := time.Now()
	got := l.Listen(context.Background(), window)
	elapsed := time.Since(start)

	if got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
	if elapsed < window {
		t.Errorf("listening window closed after %v, want at least %v", elapsed, window)
	}
}

func TestWishListener_NilClientStillHoldsWindow(t *testing.T) {
	l := newTestListener(nil)

	window := 50 * time.Millisecond
	start := time.Now()
	if got := l.Listen(context.Background(), window); got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
	if elapsed := time.Since(start); elapsed < window {
		t.Errorf("listening window closed after %v, want at least %v", elapsed, window)
	}
}

func TestWishListener_CancelEndsSilentWait(t *testing.T) {
	l := newTestListener(newFakeSTT(true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	l.Listen(ctx, 5*time.Second)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled listen took %v", elapsed)
	}
}

func TestWishListener_CollectsFinalTranscripts(t *testing.T) {
	client := newFakeSTT(false)
	client.transcripts <- &stt.TranscriptionResult{Text: "a robot dinosaur", IsFinal: true}
	client.transcripts <- &stt.TranscriptionResult{Text: "maybe", IsFinal: false}
	client.transcripts <- &stt.TranscriptionResult{Text: "and a red bike", IsFinal: true}

	l := newTestListener(client)
	got := l.Listen(context.Background(), 100*time.Millisecond)

	if got != "a robot dinosaur and a red bike" {
		t.Errorf("transcript = %q", got)
	}
}

package room

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/stt"
)

// WishListener transcribes the child's answer during the listening window.
// Inbound room audio is fed through feed(); Listen drains it into the STT
// stream and collects final transcripts. An energy VAD ends the window early
// once the child stops talking.
type WishListener struct {
	sttClient stt.STTClient
	vad       *audio.VADDetector
	audioIn   chan []byte
	logger    zerolog.Logger
}

// NewWishListener wires a listener around an STT client.
func NewWishListener(sttClient stt.STTClient, vad *audio.VADDetector, logger zerolog.Logger) *WishListener {
	return &WishListener{
		sttClient: sttClient,
		vad:       vad,
		audioIn:   make(chan []byte, 100),
		logger:    logger,
	}
}

// feed hands inbound room audio to the listener. Never blocks; outside the
// listening window chunks are simply dropped.
func (l *WishListener) feed(pcm []byte) {
	select {
	case l.audioIn <- pcm:
	default:
	}
}

// Listen captures final transcripts for up to window, returning them joined
// by spaces. Whatever transcript is available is accepted; failures yield "",
// but the window itself is always held open so the child gets time to answer.
func (l *WishListener) Listen(ctx context.Context, window time.Duration) string {
	if l.sttClient == nil {
		l.silentWait(ctx, window)
		return ""
	}
	if err := l.sttClient.Start(); err != nil {
		l.logger.Error().Err(err).Msg("Failed to start STT, waiting out the window in silence")
		l.silentWait(ctx, window)
		return ""
	}
	defer l.sttClient.Stop()

	l.vad.Reset()
	heardSpeech := false
	var wishes []string

	deadline := time.NewTimer(window)
	defer deadline.Stop()

	transcripts := l.sttClient.GetTranscription()

	for {
		select {
		case <-ctx.Done():
			return strings.Join(wishes, " ")

		case <-deadline.C:
			return strings.Join(wishes, " ")

		case pcm := <-l.audioIn:
			if err := l.sttClient.SendAudio(pcm); err != nil {
				l.logger.Warn().Err(err).Msg("Failed to forward audio to STT")
			}
			_, started, ended := l.vad.ProcessFrame(audio.BytesToSamples(pcm))
			if started {
				heardSpeech = true
			}
			if ended && heardSpeech {
				// Give the stream a moment to flush the final transcript.
				l.drainFinals(transcripts, &wishes, 500*time.Millisecond)
				return strings.Join(wishes, " ")
			}

		case result := <-transcripts:
			if result != nil && result.IsFinal && result.Text != "" {
				wishes = append(wishes, result.Text)
				l.logger.Info().Str("text", result.Text).Msg("Heard")
			}
		}
	}
}

// silentWait holds the listening window open without transcription.
func (l *WishListener) silentWait(ctx context.Context, window time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(window):
	}
}

func (l *WishListener) drainFinals(transcripts <-chan *stt.TranscriptionResult, wishes *[]string, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case result := <-transcripts:
			if result != nil && result.IsFinal && result.Text != "" {
				*wishes = append(*wishes, result.Text)
			}
		case <-timer.C:
			return
		}
	}
}

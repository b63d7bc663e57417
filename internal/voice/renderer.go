package voice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/assets"
	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/script"
	"github.com/soniqlabs/callsanta-gateway/internal/tts"
)

const (
	// speechPause is the turn-taking gap after a spoken line.
	speechPause = 300 * time.Millisecond
	// effectPause is the gap after a sound effect finishes.
	effectPause = 500 * time.Millisecond
)

// Config holds the renderer's voice-transform settings.
type Config struct {
	SantaPitchSemitones float64
	SantaSpeedFactor    float64
}

// Renderer turns script lines into paced audio on a sink. One renderer per
// call session; all playback is serialized by the session's run loop.
type Renderer struct {
	santa   tts.Synthesizer
	elf     tts.Synthesizer
	store   *assets.Store
	sink    audio.Sink
	cfg     Config
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewRenderer wires synthesizers, the asset store, and the output sink.
func NewRenderer(santa, elf tts.Synthesizer, store *assets.Store, sink audio.Sink, cfg Config, metrics *observability.Metrics, logger zerolog.Logger) *Renderer {
	return &Renderer{
		santa:   santa,
		elf:     elf,
		store:   store,
		sink:    sink,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Speak renders one line of dialogue. Synthesis failures are logged and
// swallowed; the call continues with the line dropped.
func (r *Renderer) Speak(ctx context.Context, line script.ScriptLine) {
	if line.Text == "" {
		return
	}

	synth := r.elf
	if line.Speaker == script.SpeakerSanta {
		synth = r.santa
	}

	r.logger.Info().Str("speaker", string(line.Speaker)).Str("text", line.Text).Msg("Speaking")

	r.metrics.RecordTTSStart()
	pcm, err := synth.Synthesize(ctx, line.Text)
	r.metrics.RecordTTSEnd(err == nil)
	if err != nil {
		r.logger.Error().Err(err).Str("speaker", string(line.Speaker)).Msg("Synthesis failed, dropping line")
		r.metrics.RecordError("synthesis", "renderer")
		return
	}

	if line.Speaker == script.SpeakerSanta {
		pcm = r.applySantaTransform(pcm, synth.SampleRate())
	}

	pacer := audio.NewPacer(r.sink, speechPause)
	if err := pacer.PlayPCM(ctx, pcm, synth.SampleRate()); err != nil {
		r.logger.Error().Err(err).Msg("Playback aborted")
		r.metrics.RecordError("playback", "renderer")
	}
}

// applySantaTransform deepens and slows the voice. Pitch shift runs before
// the speed stretch.
func (r *Renderer) applySantaTransform(pcm []byte, rate int) []byte {
	samples := audio.BytesToSamples(pcm)
	samples = audio.PitchShift(samples, rate, r.cfg.SantaPitchSemitones)
	samples = audio.Stretch(samples, rate, r.cfg.SantaSpeedFactor)
	return audio.SamplesToBytes(samples)
}

// PlayAsset plays a bundled sound effect by logical name. A missing asset is
// logged and skipped.
func (r *Renderer) PlayAsset(ctx context.Context, name string) {
	if name == "" {
		return
	}

	pcm, err := r.store.Load(name)
	if err != nil {
		r.logger.Warn().Err(err).Str("asset", name).Msg("Sound effect unavailable, skipping")
		r.metrics.RecordError("asset", "renderer")
		return
	}

	r.logger.Info().Str("asset", name).Msg("Playing sound effect")
	pacer := audio.NewPacer(r.sink, effectPause)
	if err := pacer.PlayPCM(ctx, pcm, audio.DefaultSampleRate); err != nil {
		r.logger.Error().Err(err).Str("asset", name).Msg("Playback aborted")
		r.metrics.RecordError("playback", "renderer")
	}
}

package audio

// VADConfig holds configuration for the energy-based voice activity detector
// that bounds the wishes listening window.
type VADConfig struct {
	EnergyThreshold float64 // RMS energy above which a frame counts as speech
	SilenceFrames   int     // consecutive silent frames that end an utterance
	FrameSize       int     // samples per frame (480 for 20ms at 24kHz)
}

// DefaultVADConfig returns thresholds tuned for the 24kHz pipeline.
func DefaultVADConfig() *VADConfig {
	return &VADConfig{
		EnergyThreshold: 500.0,
		SilenceFrames:   25, // 500ms of silence (25 frames * 20ms)
		FrameSize:       480,
	}
}

// VADDetector tracks speech/silence transitions across successive frames.
type VADDetector struct {
	config         *VADConfig
	silenceCounter int
	isSpeaking     bool
}

// NewVADDetector creates a detector; a nil config gets the defaults.
func NewVADDetector(config *VADConfig) *VADDetector {
	if config == nil {
		config = DefaultVADConfig()
	}
	return &VADDetector{config: config}
}

// ProcessFrame classifies one frame of samples.
// Returns (isSpeaking, speechStarted, speechEnded).
func (v *VADDetector) ProcessFrame(samples []int16) (bool, bool, bool) {
	frameHasSpeech := RMS(samples) > v.config.EnergyThreshold

	var speechStarted, speechEnded bool

	if frameHasSpeech {
		v.silenceCounter = 0
		if !v.isSpeaking {
			speechStarted = true
			v.isSpeaking = true
		}
	} else {
		v.silenceCounter++
		if v.isSpeaking && v.silenceCounter >= v.config.SilenceFrames {
			speechEnded = true
			v.isSpeaking = false
			v.silenceCounter = 0
		}
	}

	return v.isSpeaking, speechStarted, speechEnded
}

// Reset clears detector state between listening windows.
func (v *VADDetector) Reset() {
	v.silenceCounter = 0
	v.isSpeaking = false
}

// IsSpeaking reports whether the detector is currently inside an utterance.
func (v *VADDetector) IsSpeaking() bool {
	return v.isSpeaking
}

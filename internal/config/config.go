package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the santa call gateway.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Deepgram API configuration (TTS and STT share the key)
	DeepgramAPIKey   string `envconfig:"DEEPGRAM_API_KEY" required:"true"`
	DeepgramSTTModel string `envconfig:"DEEPGRAM_STT_MODEL" default:"nova-2"`
	DeepgramLanguage string `envconfig:"DEEPGRAM_LANGUAGE" default:"en"`

	// Aura-2 voices for the two personas
	SantaVoice string `envconfig:"SANTA_VOICE" default:"aura-2-draco-en"` // British, warm, baritone
	ElfVoice   string `envconfig:"ELF_VOICE" default:"aura-2-iris-en"`    // young adult, cheerful

	// Santa voice modifications applied after synthesis
	SantaPitchSemitones float64 `envconfig:"SANTA_PITCH_SEMITONES" default:"-3"` // negative = deeper
	SantaSpeedFactor    float64 `envconfig:"SANTA_SPEED_FACTOR" default:"0.95"`  // < 1 = slower

	// Supabase call-record backend (status reporter)
	SupabaseURL        string `envconfig:"SUPABASE_URL" default:""`
	SupabaseServiceKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY" default:""`

	// Letter lookup API (optional; calls proceed without letters)
	LetterAPIURL string `envconfig:"LETTER_API_URL" default:""`

	// Bundled sound-effect directory
	AudioDir string `envconfig:"AUDIO_DIR" default:"audio"`

	// Session limits
	SessionMaxSeconds       int `envconfig:"SESSION_MAX_SECONDS" default:"300"`        // whole-call ceiling
	ActivityPhaseMaxSeconds int `envconfig:"ACTIVITY_PHASE_MAX_SECONDS" default:"120"` // fallback advance to santa
	ListenSeconds           int `envconfig:"LISTEN_SECONDS" default:"15"`              // wishes listening window

	// Audio processing configuration
	PlayoutBufferSize  int     `envconfig:"PLAYOUT_BUFFER_SIZE" default:"65536"`  // bytes between pacer and socket
	VADEnergyThreshold float64 `envconfig:"VAD_ENERGY_THRESHOLD" default:"500.0"` // RMS threshold for the listen window
	VADSilenceFrames   int     `envconfig:"VAD_SILENCE_FRAMES" default:"25"`      // frames of silence ending an answer

	// Resilience configuration
	CircuitBreakerMaxFailures  int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`
	CircuitBreakerResetTimeout int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // seconds
	RetryMaxAttempts           int `envconfig:"RETRY_MAX_ATTEMPTS" default:"2"`
	RetryInitialBackoff        int `envconfig:"RETRY_INITIAL_BACKOFF" default:"200"` // milliseconds
	ReconnectMaxAttempts       int `envconfig:"RECONNECT_MAX_ATTEMPTS" default:"5"`
	ReconnectBackoff           int `envconfig:"RECONNECT_BACKOFF" default:"1000"` // milliseconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from the environment, first merging a .env file
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration directly from environment variables,
// skipping the .env file (containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DeepgramAPIKey == "" {
		return nil, fmt.Errorf("DEEPGRAM_API_KEY is required")
	}
	if cfg.SantaSpeedFactor <= 0 {
		return nil, fmt.Errorf("SANTA_SPEED_FACTOR must be positive, got %v", cfg.SantaSpeedFactor)
	}
	if cfg.SessionMaxSeconds <= 0 {
		return nil, fmt.Errorf("SESSION_MAX_SECONDS must be positive, got %d", cfg.SessionMaxSeconds)
	}

	return &cfg, nil
}

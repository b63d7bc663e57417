package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
)

// assetFiles maps logical sound-effect names to bundled WAV files.
var assetFiles = map[string]string{
	"jingle":   "christmas-sleigh-bells.wav",
	"riser":    "christmas-themed-riser.wav",
	"twinkle":  "tree-twinkle.wav",
	"reindeer": "reindeer-snort.wav",
	"rustle":   "paper-rustle.wav",
}

// Store loads bundled sound effects by logical name, normalizes them to the
// pipeline format, and caches the decoded PCM.
type Store struct {
	dir        string
	sampleRate int
	logger     zerolog.Logger

	mu    sync.Mutex
	cache map[string][]byte
}

// NewStore creates an asset store rooted at dir, normalizing to sampleRate.
func NewStore(dir string, sampleRate int) *Store {
	return &Store{
		dir:        dir,
		sampleRate: sampleRate,
		logger:     observability.GetLogger().With().Str("component", "assets").Logger(),
		cache:      make(map[string][]byte),
	}
}

// Load returns mono 16-bit PCM at the store's sample rate for a logical
// asset name.
func (s *Store) Load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pcm, ok := s.cache[name]; ok {
		return pcm, nil
	}

	file, ok := assetFiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown audio asset %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %q: %w", name, err)
	}

	format, pcm, err := audio.DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %q: %w", name, err)
	}

	normalized := audio.NormalizePCM(pcm, format, s.sampleRate)
	s.cache[name] = normalized
	s.logger.Debug().Str("asset", name).Int("bytes", len(normalized)).Msg("Loaded audio asset")
	return normalized, nil
}

// Check verifies the asset directory exists and is readable. Used by the
// readiness probe.
func (s *Store) Check() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("asset directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset path %q is not a directory", s.dir)
	}
	return nil
}

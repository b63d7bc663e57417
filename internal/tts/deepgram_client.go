package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/observability"
)

const defaultSpeakURL = "https://api.deepgram.com/v1/speak"

// DeepgramClient synthesizes speech with Deepgram's Aura voices, returning
// raw linear16 PCM suitable for chunking into frames.
type DeepgramClient struct {
	apiKey     string
	apiURL     string
	voice      string
	sampleRate int
	httpClient *http.Client
	logger     zerolog.Logger
}

type speakRequest struct {
	Text string `json:"text"`
}

// NewDeepgramClient creates a synthesizer bound to one Aura voice.
func NewDeepgramClient(apiKey, voice string, sampleRate int) *DeepgramClient {
	return &DeepgramClient{
		apiKey:     apiKey,
		apiURL:     defaultSpeakURL,
		voice:      voice,
		sampleRate: sampleRate,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     observability.GetLogger().With().Str("component", "tts").Str("voice", voice).Logger(),
	}
}

// Synthesize renders text as raw 16-bit mono PCM at the client's sample rate.
func (c *DeepgramClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty synthesis text")
	}

	body, err := json.Marshal(speakRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	params := url.Values{}
	params.Set("model", c.voice)
	params.Set("encoding", "linear16")
	params.Set("container", "none")
	params.Set("sample_rate", strconv.Itoa(c.sampleRate))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("speak API returned status %d: %s", resp.StatusCode, msg)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("speak API returned empty audio")
	}
	// linear16 is two bytes per sample; drop a trailing odd byte.
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}

	c.logger.Debug().Int("bytes", len(pcm)).Int("chars", len(text)).Msg("Synthesized speech")
	return pcm, nil
}

// SampleRate reports the PCM sample rate the client requests from the API.
func (c *DeepgramClient) SampleRate() int {
	return c.sampleRate
}

// Close releases client resources.
func (c *DeepgramClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// HealthCheck probes the speak endpoint for readiness reporting.
func (c *DeepgramClient) HealthCheck(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.deepgram.com/v1/projects", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

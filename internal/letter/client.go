package letter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/resilience"
	"github.com/soniqlabs/callsanta-gateway/internal/script"
)

// Client fetches children's letters from the frontend API before a call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *resilience.RetryConfig
	logger     zerolog.Logger
}

type letterResponse struct {
	Letter *script.Letter `json:"letter"`
}

// NewClient creates a letter API client. An empty baseURL disables lookups.
func NewClient(baseURL string, maxAttempts int, initialBackoff time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: &resilience.RetryConfig{
			MaxAttempts:       maxAttempts,
			InitialBackoff:    initialBackoff,
			MaxBackoff:        5 * time.Second,
			BackoffMultiplier: 2.0,
		},
		logger: observability.GetLogger().With().Str("component", "letter").Logger(),
	}
}

// Fetch retrieves a letter by id. A missing letter, a lookup failure, or an
// unconfigured client all return nil: the call proceeds without letter lines.
func (c *Client) Fetch(ctx context.Context, letterID string) *script.Letter {
	if c.baseURL == "" || letterID == "" {
		return nil
	}

	var letter *script.Letter
	err := resilience.Retry(func() error {
		var err error
		letter, err = c.fetchOnce(ctx, letterID)
		return err
	}, c.retry, resilience.IsRetryableNetworkError)

	if err != nil {
		c.logger.Error().Err(err).Str("letter_id", letterID).Msg("Failed to fetch letter")
		return nil
	}
	return letter
}

func (c *Client) fetchOnce(ctx context.Context, letterID string) (*script.Letter, error) {
	endpoint := fmt.Sprintf("%s/api/letter?id=%s", c.baseURL, url.QueryEscape(letterID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("letter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("letter API returned status %d", resp.StatusCode)
	}

	var body letterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode letter response: %w", err)
	}
	return body.Letter, nil
}

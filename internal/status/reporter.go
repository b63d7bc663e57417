package status

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/observability"
)

// Call status values reported to the backend.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Reporter sends best-effort call status updates to the Supabase backend.
// Failures are logged and swallowed; the call never depends on a report.
type Reporter struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     zerolog.Logger
}

type updateCallParams struct {
	RoomName   string `json:"p_room_name"`
	Status     string `json:"p_status"`
	GiftWishes string `json:"p_gift_wishes"`
}

// NewReporter creates a status reporter. Empty credentials disable reporting.
func NewReporter(baseURL, serviceKey string) *Reporter {
	return &Reporter{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     observability.GetLogger().With().Str("component", "status").Logger(),
	}
}

// Report fires a status update in the background and returns immediately.
func (r *Reporter) Report(roomName, status, giftWishes string) {
	if r.baseURL == "" || r.serviceKey == "" || roomName == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r.send(ctx, roomName, status, giftWishes)
	}()
}

// ReportSync sends a status update and waits for the result. Used at call
// end so the final report is not lost to process shutdown.
func (r *Reporter) ReportSync(ctx context.Context, roomName, status, giftWishes string) {
	if r.baseURL == "" || r.serviceKey == "" || roomName == "" {
		return
	}
	r.send(ctx, roomName, status, giftWishes)
}

func (r *Reporter) send(ctx context.Context, roomName, status, giftWishes string) {
	err := r.post(ctx, roomName, status, giftWishes)
	observability.RecordStatusReport(err == nil)
	if err != nil {
		r.logger.Error().Err(err).Str("room", roomName).Str("status", status).Msg("Failed to update call status")
		return
	}
	r.logger.Info().Str("room", roomName).Str("status", status).Msg("Updated call status")
}

func (r *Reporter) post(ctx context.Context, roomName, status, giftWishes string) error {
	body, err := json.Marshal(updateCallParams{
		RoomName:   roomName,
		Status:     status,
		GiftWishes: giftWishes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status payload: %w", err)
	}

	endpoint := r.baseURL + "/rest/v1/rpc/update_santa_call"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.serviceKey)
	req.Header.Set("Authorization", "Bearer "+r.serviceKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("status API returned status %d", resp.StatusCode)
	}
	return nil
}

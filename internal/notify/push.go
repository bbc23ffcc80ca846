package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// httpPusher delivers push notifications through an external HTTP
// gateway. The gateway owns subscriptions and transport; this client
// only posts payloads.
type httpPusher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPPusher creates a push client for the given gateway.
func NewHTTPPusher(baseURL, apiKey string, logger zerolog.Logger) Pusher {
	return &httpPusher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
		logger:  logger.With().Str("component", "push").Logger(),
	}
}

type pushPayload struct {
	UserID    string            `json:"userId"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Icon      string            `json:"icon,omitempty"`
	Tag       string            `json:"tag,omitempty"`
	ActionURL string            `json:"actionUrl,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// Push posts one notification. The context carries the per-call
// timeout; a hung gateway cancels this call, not the caller's request.
func (p *httpPusher) Push(ctx context.Context, userID uuid.UUID, event Event) error {
	payload := pushPayload{
		UserID:    userID.String(),
		Title:     event.Title,
		Body:      event.Body,
		Icon:      "/icons/logo-192.png",
		Tag:       event.Name,
		ActionURL: event.ActionURL,
		Data:      event.Data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	p.logger.Debug().
		Str("user_id", userID.String()).
		Str("event", event.Name).
		Msg("push delivered")

	return nil
}

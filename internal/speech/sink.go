package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPSink speaks by posting to another assistant's /speak endpoint.
type HTTPSink struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSink creates a sink targeting baseURL (e.g. http://localhost:5000).
func NewHTTPSink(baseURL string) *HTTPSink {
	return &HTTPSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type speakRequest struct {
	Text string `json:"text"`
}

type speakResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Speak implements Speaker.
func (s *HTTPSink) Speak(ctx context.Context, text string) error {
	body, err := json.Marshal(speakRequest{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/speak", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create speak request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send speak request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read speak response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speak endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out speakResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("failed to parse speak response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("speak endpoint error: %s", out.Error)
	}
	return nil
}

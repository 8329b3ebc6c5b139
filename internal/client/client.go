// Package client talks to a running assistant server over its JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/assistant/internal/errors"
)

// Client is a thin wrapper over the assistant HTTP routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Reminder mirrors the server's reminder view.
type Reminder struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// AddResult is returned after a reminder is created.
type AddResult struct {
	Message   string   `json:"message"`
	TimeUntil string   `json:"time_until"`
	Reminder  Reminder `json:"reminder"`
}

// Popup is a reminder claimed through the popup poll.
type Popup struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// HistoryEntry is one recorded command.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Health is the server status report.
type Health struct {
	Server          string `json:"server"`
	RemindersActive int    `json:"reminders_active"`
	TTS             bool   `json:"tts"`
	SpeechInput     bool   `json:"speech_input_available"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Process sends a free-form command and returns the assistant's reply.
func (c *Client) Process(ctx context.Context, command string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/process", map[string]string{"command": command}, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// AddReminder creates a reminder from a label and a time phrase.
func (c *Client) AddReminder(ctx context.Context, label, timeSpec string) (*AddResult, error) {
	var resp AddResult
	body := map[string]string{"label": label, "time": timeSpec}
	if err := c.do(ctx, http.MethodPost, "/reminders", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddFromText creates a reminder from a sentence such as
// "remind me to stretch in 20 minutes".
func (c *Client) AddFromText(ctx context.Context, command string) (*AddResult, error) {
	var resp AddResult
	if err := c.do(ctx, http.MethodPost, "/reminders", map[string]string{"command": command}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListReminders returns pending reminders, or all of them when includeTriggered is set.
func (c *Client) ListReminders(ctx context.Context, includeTriggered bool) ([]Reminder, error) {
	var resp struct {
		Reminders []Reminder `json:"reminders"`
	}
	path := "/reminders?include_triggered=" + strconv.FormatBool(includeTriggered)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reminders, nil
}

func (c *Client) DeleteReminder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/reminders/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ClearReminders(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/reminders/clear", nil, nil)
}

// PollPopup claims the next fired reminder. ok is false when none is waiting.
func (c *Client) PollPopup(ctx context.Context) (Popup, bool, error) {
	var resp struct {
		Success bool `json:"success"`
		Popup
	}
	if err := c.do(ctx, http.MethodGet, "/trigger_popup", nil, &resp); err != nil {
		return Popup{}, false, err
	}
	if !resp.Success {
		return Popup{}, false, nil
	}
	return resp.Popup, true, nil
}

// History returns up to limit recent commands, oldest first. limit <= 0
// leaves the bound to the server.
func (c *Client) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	var resp struct {
		History []HistoryEntry `json:"history"`
	}
	path := "/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/history", nil, nil)
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach assistant server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error body back into an AssistantError so callers can
// branch on the code with errors.Is.
func decodeError(status int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return &errors.AssistantError{
			Code:    errors.ErrInternal,
			Status:  status,
			Message: fmt.Sprintf("server returned status %d: %s", status, strings.TrimSpace(string(data))),
		}
	}
	return &errors.AssistantError{
		Code:    errors.ErrorCode(body.Error),
		Status:  status,
		Message: body.Message,
	}
}

// Package search answers general questions from Serper web results,
// optionally condensed by an LLM provider.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSerperURL = "https://google.serper.dev/search"

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Response is the subset of a Serper response the assistant uses.
type Response struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	KnowledgeGraph struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
	Organic []Result `json:"organic"`
}

// SerperClient calls the Serper Google search API.
type SerperClient struct {
	apiKey     string
	url        string
	maxResults int
	client     *http.Client
}

// NewSerperClient creates a client. An empty url selects the public endpoint.
func NewSerperClient(apiKey, url string, maxResults int, timeout time.Duration) *SerperClient {
	if url == "" {
		url = defaultSerperURL
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SerperClient{
		apiKey:     apiKey,
		url:        url,
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is set.
func (c *SerperClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// Search runs query and returns at most maxResults organic hits.
func (c *SerperClient) Search(ctx context.Context, query string) (*Response, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: c.maxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if len(out.Organic) > c.maxResults {
		out.Organic = out.Organic[:c.maxResults]
	}
	return &out, nil
}

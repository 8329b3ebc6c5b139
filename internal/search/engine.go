package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/notexe/assistant/internal/api"
	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/logging"
)

// minContext is the shortest gathered text worth answering from.
const minContext = 25

const answerPrompt = `Return the answer EXACTLY in this format:

Answer: <one line direct answer>
Summary: <3-5 lines of explanation>

Question: %s

Web data:
%s`

// Engine answers questions from search results.
type Engine struct {
	serper   *SerperClient
	provider api.Provider
	model    config.ModelSettings
	logger   logging.Logger
}

// NewEngine creates an Engine. provider may be nil, in which case raw
// snippets are returned.
func NewEngine(serper *SerperClient, provider api.Provider, model config.ModelSettings, logger logging.Logger) *Engine {
	return &Engine{
		serper:   serper,
		provider: provider,
		model:    model,
		logger:   logging.OrNop(logger),
	}
}

// Answer searches for query and produces a user-facing reply.
func (e *Engine) Answer(ctx context.Context, query string) (string, error) {
	if !e.serper.Configured() {
		return "", errors.NewUnavailable("Web search is not configured. Please add a SERPER_API_KEY.")
	}

	resp, err := e.serper.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}

	lines := gather(resp)
	info := strings.TrimSpace(strings.Join(lines, "\n"))
	if len(info) < minContext {
		return "No clear answer found. Try rephrasing.", nil
	}

	if e.provider == nil {
		return snippetsReply(resp), nil
	}

	answer, err := api.Ask(ctx, e.provider, e.model, fmt.Sprintf(answerPrompt, query, info))
	if err != nil {
		e.logger.Warn("summary via %s failed, returning snippets: %v", e.provider.Name(), err)
		return snippetsReply(resp), nil
	}
	return answer, nil
}

// gather orders facts by confidence: knowledge graph, answer box, organic.
func gather(resp *Response) []string {
	var lines []string
	if kg := resp.KnowledgeGraph; kg.Title != "" {
		lines = append(lines, fmt.Sprintf("%s - %s", kg.Title, kg.Description))
	}
	if ab := resp.AnswerBox; ab.Answer != "" {
		lines = append(lines, "ANSWER: "+ab.Answer)
	} else if ab.Snippet != "" {
		lines = append(lines, "ANSWER: "+ab.Snippet)
	}
	for _, r := range resp.Organic {
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", r.Title, r.Snippet))
	}
	return lines
}

func snippetsReply(resp *Response) string {
	var b strings.Builder
	b.WriteString("Here are some results I found:")
	if ab := resp.AnswerBox; ab.Answer != "" {
		fmt.Fprintf(&b, "\n%s", ab.Answer)
	}
	for _, r := range resp.Organic {
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		fmt.Fprintf(&b, "\n- %s: %s", r.Title, r.Snippet)
	}
	return b.String()
}

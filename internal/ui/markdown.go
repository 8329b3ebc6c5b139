package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be built.
func RenderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimSpace(rendered)
}

// LooksLikeMarkdown reports whether text carries markup worth rendering.
// Search summaries come back as "Answer: ...\nSummary: ..." or as bullet lists.
func LooksLikeMarkdown(text string) bool {
	for _, marker := range []string{"\n- ", "\n* ", "**", "`", "\n#"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

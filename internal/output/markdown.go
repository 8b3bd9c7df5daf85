package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

var plainMarkdown bool

// RenderMarkdown renders a task body for the terminal. With color disabled,
// or when rendering fails, the body is returned as written.
func RenderMarkdown(body string, width int) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	if plainMarkdown {
		return body
	}
	if width <= 0 {
		width = defaultWrap
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle("dark"),
	)
	if err != nil {
		return body
	}
	out, err := renderer.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n")
}

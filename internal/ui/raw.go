package ui

import (
	"strings"
)

// RenderRawBox renders unstyled text, such as a JSON payload, in a muted box
func RenderRawBox(title, content string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{
		RawTitleStyle.Render(title),
		RawContentStyle.Render(strings.TrimRight(content, "\n")),
	}
	return RawBoxStyle(width).Render(strings.Join(lines, "\n"))
}

package picker

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func renderPromptLine(width int, inputView string) string {
	if width < 10 {
		width = 10
	}

	// Text inputs must render as a single visual line; stray newlines (or
	// ANSI overflow from cursor styling) trigger wrapping that looks like
	// newline insertion while typing.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		width,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
	)
	if xansi.StringWidth(line) > width {
		// Never exceed the terminal width; terminate ANSI styling to prevent bleed.
		line = xansi.Cut(line, 0, width) + "\x1b[0m"
	}
	return line
}

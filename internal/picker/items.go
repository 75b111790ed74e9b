package picker

import (
	"strings"

	"orgnav-cli/internal/navigate"
)

type candidateItem struct {
	c navigate.Candidate
}

func (i candidateItem) Title() string       { return i.c.Label }
func (i candidateItem) Description() string { return "" }

func (i candidateItem) FilterValue() string {
	// Filter on the heading text, not the marker prefix, so typing "*" never
	// matches everything.
	return strings.TrimLeft(i.c.Label, "* \t")
}

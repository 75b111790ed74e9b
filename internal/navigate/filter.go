package navigate

import "orgnav-cli/internal/org"

// FilterByDepth keeps the positions whose heading level falls inside the
// inclusive [minLevel, maxLevel] window, preserving document order. A nil
// bound is unbounded on that side; FilterByDepth(ps, nil, nil) returns ps
// unchanged (copied).
func FilterByDepth(doc *org.Document, positions []org.Position, minLevel, maxLevel *int) ([]org.Position, error) {
	out := make([]org.Position, 0, len(positions))
	for _, p := range positions {
		lvl, err := doc.Level(p)
		if err != nil {
			return nil, err
		}
		if minLevel != nil && lvl < *minLevel {
			continue
		}
		if maxLevel != nil && lvl > *maxLevel {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

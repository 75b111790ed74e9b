package org

import "fmt"

// StalePositionError reports an operation against a Position the document no
// longer knows about.
type StalePositionError struct {
	Pos  Position
	Path string
}

func (e StalePositionError) Error() string {
	return fmt.Sprintf("stale position %d in %s", int(e.Pos), e.Path)
}

// DocumentChangedError reports that the file changed outside this process,
// so every previously issued Position is invalid until the caller reloads.
type DocumentChangedError struct {
	Path string
}

func (e DocumentChangedError) Error() string {
	return fmt.Sprintf("document changed on disk: %s (reload required)", e.Path)
}

// HeadingNotFoundError reports a failed outline-path lookup.
type HeadingNotFoundError struct {
	Path    string
	Segment string
}

func (e HeadingNotFoundError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("heading not found: %q (missing segment %q)", e.Path, e.Segment)
	}
	return fmt.Sprintf("heading not found: %q", e.Path)
}

// RefileCycleError reports an attempt to refile a heading into its own subtree.
type RefileCycleError struct {
	Source Position
	Dest   Position
}

func (e RefileCycleError) Error() string {
	return "refile destination is inside the source subtree"
}

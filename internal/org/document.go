package org

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
)

// Position identifies a heading in a Document. Positions are opaque and stay
// valid across this package's own mutations (rename, refile, clock-in); they
// are invalidated wholesale when the underlying file changes outside our
// control (see Invalidate).
//
// The zero value means "no position" (whole document / no parent).
type Position int

// None is the zero Position.
const None Position = 0

type heading struct {
	id    Position
	level int
	text  string
	body  []string
}

// Document is an org-style outline: lines of `*`-marker headings with body
// lines attached to the nearest preceding heading.
type Document struct {
	path     string
	preamble []string
	headings []*heading
	nextID   Position

	invalidated atomic.Bool
	savedSum    atomic.Value // [sha256.Size]byte of the last Save
}

var headingRe = regexp.MustCompile(`^(\*+)[ \t]+(.*)$`)

// Parse reads an org document. name is used for error messages and Save.
func Parse(name string, r io.Reader) (*Document, error) {
	d := &Document{path: name, nextID: 1}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var cur *heading
	for sc.Scan() {
		line := sc.Text()
		if m := headingRe.FindStringSubmatch(line); m != nil {
			cur = &heading{
				id:    d.nextID,
				level: len(m[1]),
				text:  strings.TrimSpace(m[2]),
			}
			d.nextID++
			d.headings = append(d.headings, cur)
			continue
		}
		if cur == nil {
			d.preamble = append(d.preamble, line)
			continue
		}
		cur.body = append(cur.body, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}

// Load parses the org file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

// Path returns the file path the document was loaded from.
func (d *Document) Path() string { return d.path }

// Invalidate marks every previously issued Position stale. Called by the
// file watcher when the document changes on disk; subsequent operations fail
// with DocumentChangedError until the caller reloads.
func (d *Document) Invalidate() { d.invalidated.Store(true) }

// Invalidated reports whether the document has been invalidated.
func (d *Document) Invalidated() bool { return d.invalidated.Load() }

func (d *Document) check(pos Position) (int, *heading, error) {
	if d.invalidated.Load() {
		return 0, nil, DocumentChangedError{Path: d.path}
	}
	for i, h := range d.headings {
		if h.id == pos {
			return i, h, nil
		}
	}
	return 0, nil, StalePositionError{Pos: pos, Path: d.path}
}

// Level returns the heading level at pos (>= 1).
func (d *Document) Level(pos Position) (int, error) {
	_, h, err := d.check(pos)
	if err != nil {
		return 0, err
	}
	return h.level, nil
}

// HeadingText returns the heading's display text, without marker decoration.
func (d *Document) HeadingText(pos Position) (string, error) {
	_, h, err := d.check(pos)
	if err != nil {
		return "", err
	}
	return h.text, nil
}

// Parent returns the nearest preceding heading with a smaller level, or None
// for root headings.
func (d *Document) Parent(pos Position) (Position, error) {
	i, h, err := d.check(pos)
	if err != nil {
		return None, err
	}
	for j := i - 1; j >= 0; j-- {
		if d.headings[j].level < h.level {
			return d.headings[j].id, nil
		}
	}
	return None, nil
}

// Ancestors returns the chain from pos up to the document root, nearest
// first. pos itself is the first element.
func (d *Document) Ancestors(pos Position) ([]Position, error) {
	if _, _, err := d.check(pos); err != nil {
		return nil, err
	}
	out := []Position{pos}
	cur := pos
	for {
		p, err := d.Parent(cur)
		if err != nil {
			return nil, err
		}
		if p == None {
			return out, nil
		}
		out = append(out, p)
		cur = p
	}
}

// Descendants returns, in document order, every heading strictly inside the
// subtree rooted at root. root == None means every heading in the document.
func (d *Document) Descendants(root Position) ([]Position, error) {
	if d.invalidated.Load() {
		return nil, DocumentChangedError{Path: d.path}
	}
	if root == None {
		out := make([]Position, 0, len(d.headings))
		for _, h := range d.headings {
			out = append(out, h.id)
		}
		return out, nil
	}
	i, h, err := d.check(root)
	if err != nil {
		return nil, err
	}
	var out []Position
	for j := i + 1; j < len(d.headings) && d.headings[j].level > h.level; j++ {
		out = append(out, d.headings[j].id)
	}
	return out, nil
}

// subtreeEnd returns the index one past the last heading of pos's subtree.
func (d *Document) subtreeEnd(i int) int {
	level := d.headings[i].level
	j := i + 1
	for j < len(d.headings) && d.headings[j].level > level {
		j++
	}
	return j
}

// Compare orders two positions by document order (-1, 0, 1).
func (d *Document) Compare(a, b Position) (int, error) {
	ia, _, err := d.check(a)
	if err != nil {
		return 0, err
	}
	ib, _, err := d.check(b)
	if err != nil {
		return 0, err
	}
	switch {
	case ia < ib:
		return -1, nil
	case ia > ib:
		return 1, nil
	default:
		return 0, nil
	}
}

// OutlinePath returns the heading-text chain from the root down to pos.
func (d *Document) OutlinePath(pos Position) ([]string, error) {
	chain, err := d.Ancestors(pos)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		t, err := d.HeadingText(chain[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// FindPath resolves a root-to-heading text chain (e.g. ["A", "A.1"]) to a
// Position. Each step matches the first child whose text equals the segment.
func (d *Document) FindPath(path []string) (Position, error) {
	if d.invalidated.Load() {
		return None, DocumentChangedError{Path: d.path}
	}
	cur := None
	for _, seg := range path {
		seg = strings.TrimSpace(seg)
		found := None
		kids, err := d.Descendants(cur)
		if err != nil {
			return None, err
		}
		for _, p := range kids {
			parent, err := d.Parent(p)
			if err != nil {
				return None, err
			}
			if parent != cur {
				continue
			}
			_, h, err := d.check(p)
			if err != nil {
				return None, err
			}
			if h.text == seg {
				found = p
				break
			}
		}
		if found == None {
			return None, HeadingNotFoundError{Path: strings.Join(path, "/"), Segment: seg}
		}
		cur = found
	}
	if cur == None {
		return None, HeadingNotFoundError{Path: strings.Join(path, "/")}
	}
	return cur, nil
}

// Line returns the 1-based line number of the heading in the serialized
// document (for editor jump integration).
func (d *Document) Line(pos Position) (int, error) {
	i, _, err := d.check(pos)
	if err != nil {
		return 0, err
	}
	line := len(d.preamble)
	for j := 0; j < i; j++ {
		line += 1 + len(d.headings[j].body)
	}
	return line + 1, nil
}

// String serializes the document back to org text.
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.preamble {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for _, h := range d.headings {
		b.WriteString(strings.Repeat("*", h.level))
		b.WriteByte(' ')
		b.WriteString(h.text)
		b.WriteByte('\n')
		for _, l := range h.body {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Save writes the document back to its file. The content hash is recorded
// first so a watcher observing the write can tell it apart from an external
// edit (see selfWrote).
func (d *Document) Save() error {
	if d.invalidated.Load() {
		return DocumentChangedError{Path: d.path}
	}
	content := []byte(d.String())
	d.savedSum.Store(sha256.Sum256(content))
	return os.WriteFile(d.path, content, 0o644)
}

// selfWrote reports whether data is byte-identical to the last Save. The file
// watcher uses this to skip events caused by this package's own writes.
func (d *Document) selfWrote(data []byte) bool {
	sum, ok := d.savedSum.Load().([sha256.Size]byte)
	return ok && sum == sha256.Sum256(data)
}

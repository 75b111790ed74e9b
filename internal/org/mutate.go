package org

import (
	"strings"
	"time"
)

// Rename replaces the heading text at pos. The position stays valid.
func (d *Document) Rename(pos Position, text string) error {
	_, h, err := d.check(pos)
	if err != nil {
		return err
	}
	h.text = strings.TrimSpace(text)
	return nil
}

// CreateChild inserts a new heading as the last child of parent and returns
// its Position. parent == None appends a new root heading at the end of the
// document.
func (d *Document) CreateChild(parent Position, text string) (Position, error) {
	if d.invalidated.Load() {
		return None, DocumentChangedError{Path: d.path}
	}
	level := 1
	insert := len(d.headings)
	if parent != None {
		i, h, err := d.check(parent)
		if err != nil {
			return None, err
		}
		level = h.level + 1
		insert = d.subtreeEnd(i)
	}
	nh := &heading{id: d.nextID, level: level, text: strings.TrimSpace(text)}
	d.nextID++
	d.headings = append(d.headings, nil)
	copy(d.headings[insert+1:], d.headings[insert:])
	d.headings[insert] = nh
	return nh.id, nil
}

// Refile moves the subtree rooted at src to become the last child of dest.
// With keep, the original stays in place and a duplicate (with fresh
// positions) is inserted under dest instead. Moving a subtree into itself is
// an error.
func (d *Document) Refile(src, dest Position, keep bool) error {
	si, sh, err := d.check(src)
	if err != nil {
		return err
	}
	di, dh, err := d.check(dest)
	if err != nil {
		return err
	}
	send := d.subtreeEnd(si)
	if di >= si && di < send {
		return RefileCycleError{Source: src, Dest: dest}
	}

	delta := dh.level + 1 - sh.level
	block := make([]*heading, send-si)
	if keep {
		for k, h := range d.headings[si:send] {
			body := make([]string, len(h.body))
			copy(body, h.body)
			block[k] = &heading{id: d.nextID, level: h.level + delta, text: h.text, body: body}
			d.nextID++
		}
	} else {
		copy(block, d.headings[si:send])
		for _, h := range block {
			h.level += delta
		}
	}

	rest := d.headings
	if !keep {
		rest = append(append([]*heading{}, d.headings[:si]...), d.headings[send:]...)
	}

	// Destination index may have shifted after removing the source block.
	dIdx := -1
	for i, h := range rest {
		if h.id == dest {
			dIdx = i
			break
		}
	}
	if dIdx < 0 {
		return StalePositionError{Pos: dest, Path: d.path}
	}
	dEnd := dIdx + 1
	for dEnd < len(rest) && rest[dEnd].level > rest[dIdx].level {
		dEnd++
	}

	out := make([]*heading, 0, len(rest)+len(block))
	out = append(out, rest[:dEnd]...)
	out = append(out, block...)
	out = append(out, rest[dEnd:]...)
	d.headings = out
	return nil
}

const clockStampLayout = "2006-01-02 Mon 15:04"

// ClockIn records a clock start stamp in the heading's LOGBOOK drawer,
// creating the drawer if needed.
func (d *Document) ClockIn(pos Position, now time.Time) error {
	_, h, err := d.check(pos)
	if err != nil {
		return err
	}
	stamp := "CLOCK: [" + now.Format(clockStampLayout) + "]"
	for i, line := range h.body {
		if strings.TrimSpace(line) == ":LOGBOOK:" {
			body := make([]string, 0, len(h.body)+1)
			body = append(body, h.body[:i+1]...)
			body = append(body, stamp)
			body = append(body, h.body[i+1:]...)
			h.body = body
			return nil
		}
	}
	drawer := []string{":LOGBOOK:", stamp, ":END:"}
	h.body = append(drawer, h.body...)
	return nil
}

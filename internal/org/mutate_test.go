package org

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRename_PreservesPosition(t *testing.T) {
	d := parseSample(t)
	a1 := mustFind(t, d, "A", "A.1")

	if err := d.Rename(a1, "A.one"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	text, err := d.HeadingText(a1)
	if err != nil {
		t.Fatalf("position invalidated by rename: %v", err)
	}
	if text != "A.one" {
		t.Fatalf("text = %q", text)
	}
	// The child is still reachable under the new name.
	if _, err := d.FindPath([]string{"A", "A.one", "A.1.a"}); err != nil {
		t.Fatalf("child lookup after rename: %v", err)
	}
}

func TestRefile_MovesSubtreeUnderDest(t *testing.T) {
	d := parseSample(t)
	a1 := mustFind(t, d, "A", "A.1")
	b := mustFind(t, d, "B")

	if err := d.Refile(a1, b, false); err != nil {
		t.Fatalf("refile: %v", err)
	}

	// Gone from the old location, present (with subtree) under B.
	if _, err := d.FindPath([]string{"A", "A.1"}); err == nil {
		t.Fatalf("source still present at old location")
	}
	moved, err := d.FindPath([]string{"B", "A.1"})
	if err != nil {
		t.Fatalf("moved heading not under B: %v", err)
	}
	if moved != a1 {
		t.Fatalf("refile changed the position: %d != %d", moved, a1)
	}
	if lvl, _ := d.Level(moved); lvl != 2 {
		t.Fatalf("moved level = %d, want 2", lvl)
	}
	grand, err := d.FindPath([]string{"B", "A.1", "A.1.a"})
	if err != nil {
		t.Fatalf("subtree did not move: %v", err)
	}
	if lvl, _ := d.Level(grand); lvl != 3 {
		t.Fatalf("grandchild level = %d, want 3", lvl)
	}
}

func TestRefile_KeepLeavesDuplicate(t *testing.T) {
	d := parseSample(t)
	a1 := mustFind(t, d, "A", "A.1")
	b := mustFind(t, d, "B")

	if err := d.Refile(a1, b, true); err != nil {
		t.Fatalf("refile keep: %v", err)
	}

	orig, err := d.FindPath([]string{"A", "A.1"})
	if err != nil {
		t.Fatalf("original gone after refile --keep: %v", err)
	}
	if orig != a1 {
		t.Fatalf("original position changed")
	}
	dup, err := d.FindPath([]string{"B", "A.1"})
	if err != nil {
		t.Fatalf("duplicate missing: %v", err)
	}
	if dup == a1 {
		t.Fatalf("duplicate shares the original position")
	}
}

func TestRefile_IntoOwnSubtreeFails(t *testing.T) {
	d := parseSample(t)
	a := mustFind(t, d, "A")
	a1a := mustFind(t, d, "A", "A.1", "A.1.a")

	err := d.Refile(a, a1a, false)
	var cyc RefileCycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected RefileCycleError, got %v", err)
	}
}

func TestClockIn_CreatesAndAppendsToDrawer(t *testing.T) {
	d := parseSample(t)
	a := mustFind(t, d, "A")
	now := time.Date(2026, 8, 23, 14, 5, 0, 0, time.UTC)

	if err := d.ClockIn(a, now); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	out := d.String()
	if !strings.Contains(out, ":LOGBOOK:\nCLOCK: [2026-08-23 Sun 14:05]\n:END:") {
		t.Fatalf("missing drawer:\n%s", out)
	}

	// Second clock-in reuses the drawer.
	if err := d.ClockIn(a, now.Add(time.Hour)); err != nil {
		t.Fatalf("clock in again: %v", err)
	}
	if strings.Count(d.String(), ":LOGBOOK:") != 1 {
		t.Fatalf("drawer duplicated:\n%s", d.String())
	}
	if strings.Count(d.String(), "CLOCK: [") != 2 {
		t.Fatalf("expected two clock lines:\n%s", d.String())
	}
}

func TestCreateChild_LastChildAtLevelPlusOne(t *testing.T) {
	d := parseSample(t)
	a := mustFind(t, d, "A")

	child, err := d.CreateChild(a, "A.3")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if lvl, _ := d.Level(child); lvl != 2 {
		t.Fatalf("child level = %d", lvl)
	}
	p, err := d.Parent(child)
	if err != nil || p != a {
		t.Fatalf("child parent = %d, %v", p, err)
	}

	// Inserted after A's existing subtree, before B.
	ds, err := d.Descendants(a)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	last, _ := d.HeadingText(ds[len(ds)-1])
	if last != "A.3" {
		t.Fatalf("last descendant = %q, want A.3", last)
	}
}

func TestCreateChild_NoParentAppendsRoot(t *testing.T) {
	d := parseSample(t)
	root, err := d.CreateChild(None, "C")
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if lvl, _ := d.Level(root); lvl != 1 {
		t.Fatalf("root level = %d", lvl)
	}
	if !strings.HasSuffix(d.String(), "* C\n") {
		t.Fatalf("root not appended:\n%s", d.String())
	}
}

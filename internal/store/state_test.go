package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func testStore(t *testing.T) Store {
	t.Helper()
	return Store{Path: filepath.Join(t.TempDir(), "state.sqlite")}
}

func TestRefileMark_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, ok, err := s.LoadRefileMark(ctx, "notes.org"); err != nil || ok {
		t.Fatalf("expected no mark, got ok=%v err=%v", ok, err)
	}

	if err := s.SaveRefileMark(ctx, "notes.org", []string{"projects", "home"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, ok, err := s.LoadRefileMark(ctx, "notes.org")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if strings.Join(path, "/") != "projects/home" {
		t.Fatalf("mark = %v", path)
	}

	// Marks are per document.
	if _, ok, err := s.LoadRefileMark(ctx, "other.org"); err != nil || ok {
		t.Fatalf("mark leaked across documents: ok=%v err=%v", ok, err)
	}

	// A later refile overwrites the mark.
	if err := s.SaveRefileMark(ctx, "notes.org", []string{"archive"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, _, err = s.LoadRefileMark(ctx, "notes.org")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(path, "/") != "archive" {
		t.Fatalf("mark not replaced: %v", path)
	}
}

func TestRecentPicks_NewestFirstAndPruned(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, h := range []string{"a", "b", "c", "d"} {
		if err := s.AddRecentPick(ctx, "notes.org", []string{h}, 3); err != nil {
			t.Fatalf("add %s: %v", h, err)
		}
	}

	got, err := s.RecentPicks(ctx, "notes.org", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected pruning to 3, got %d", len(got))
	}
	if got[0][0] != "d" {
		t.Fatalf("newest first expected, got %v", got)
	}
}

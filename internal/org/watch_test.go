package org

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func watchedDoc(t *testing.T) (*Document, chan struct{}) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.org")
	if err := os.WriteFile(path, []byte("* A\n** A.1\n* B\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	changed := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, doc, func() { changed <- struct{}{} })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Let the watcher arm before the test writes anything.
	time.Sleep(100 * time.Millisecond)
	return doc, changed
}

func TestWatch_OwnSaveDoesNotInvalidate(t *testing.T) {
	doc, changed := watchedDoc(t)

	a, err := doc.FindPath([]string{"A"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := doc.Rename(a, "A renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case <-changed:
		t.Fatalf("own save reported as an external change")
	case <-time.After(500 * time.Millisecond):
	}
	if doc.Invalidated() {
		t.Fatalf("own save invalidated the document")
	}
	if text, err := doc.HeadingText(a); err != nil || text != "A renamed" {
		t.Fatalf("position unusable after own save: %q, %v", text, err)
	}
}

func TestWatch_ExternalEditInvalidates(t *testing.T) {
	doc, changed := watchedDoc(t)

	if err := os.WriteFile(doc.Path(), []byte("* rewritten\n"), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatalf("external edit never observed")
	}
	if !doc.Invalidated() {
		t.Fatalf("external edit did not invalidate the document")
	}
}

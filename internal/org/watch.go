package org

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the document when its file changes on disk and reports
// each change through onChange (which may be nil). It blocks until ctx is
// done or the watcher fails.
//
// Writes made through Save are recognized by content and skipped, so a
// session's own mutations never invalidate the document it is working on.
func Watch(ctx context.Context, doc *Document, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors commonly replace files via rename, which
	// drops a watch held on the file itself.
	dir := filepath.Dir(doc.Path())
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(doc.Path())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if data, err := os.ReadFile(target); err == nil && doc.selfWrote(data) {
				continue
			}
			doc.Invalidate()
			if onChange != nil {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

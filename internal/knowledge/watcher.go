package knowledge

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher ingests documents dropped into a directory while it runs.
type Watcher struct {
	store *ChromemStore
}

// NewWatcher creates a watcher feeding the given store.
func NewWatcher(store *ChromemStore) *Watcher {
	return &Watcher{store: store}
}

// Watch blocks, ingesting supported files created or modified under dir
// until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Printf("[knowledge] watching %s for documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !ingestable(event.Name) {
				continue
			}
			if err := w.store.IngestFile(ctx, event.Name); err != nil {
				log.Printf("[knowledge] ingest %s failed: %v", event.Name, err)
				continue
			}
			log.Printf("[knowledge] ingested %s", filepath.Base(event.Name))
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[knowledge] watch error: %v", err)
		}
	}
}

func ingestable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv":
		return true
	default:
		return false
	}
}

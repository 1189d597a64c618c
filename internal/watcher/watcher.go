package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	accept        Filter
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	sem           *semaphore.Weighted
	settle        time.Duration
	wg            sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]bool
}

// Start begins monitoring the input directory for new transcript files
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)

	if err := w.scanExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return w.drain(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// CREATE covers new files, RENAME into the directory arrives as CREATE too
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.wants(event.Name) {
				w.logger.Debug(ctx, "Ignoring unsupported file: %s", event.Name)
				continue
			}
			w.logger.Info(ctx, "New transcript detected: %s", event.Name)

			// Small delay to ensure file is fully written
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return w.drain(ctx)
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				return w.drain(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) drain(ctx context.Context) error {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "File watcher stopped")
	return ctx.Err()
}

// scanExisting queues files that were dropped while the watcher was down.
func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(w.inputDir, e.Name())
		if e.IsDir() || !w.wants(path) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)

	if len(files) > 0 {
		w.logger.Info(ctx, "Found %d existing files to process", len(files))
	}
	for _, f := range files {
		if err := w.dispatch(ctx, f); err != nil {
			return w.drain(ctx)
		}
	}
	return nil
}

// dispatch runs the handler in a goroutine once a slot is free. It blocks
// while maxConcurrent files are in progress.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.inFlight[path] {
		w.mu.Unlock()
		return nil
	}
	w.inFlight[path] = true
	w.mu.Unlock()

	if err := w.sem.Acquire(ctx, 1); err != nil {
		w.done(path)
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.Release(1)
		defer w.done(path)

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) done(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

func (w *implWatcher) wants(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return w.accept == nil || w.accept(path)
}

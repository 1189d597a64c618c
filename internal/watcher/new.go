package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// settleDelay gives writers time to finish a file before it is read.
const settleDelay = 500 * time.Millisecond

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, accept Filter, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		accept:        accept,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
		settle:        settleDelay,
		inFlight:      make(map[string]bool),
	}, nil
}

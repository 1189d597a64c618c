package watcher

import "context"

// Watcher defines the interface for file system monitoring
type Watcher interface {
	// Start handles files already in the directory, then new ones as they
	// appear, until ctx is cancelled.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error

// Filter reports whether a file should be handed to the EventHandler.
type Filter func(filePath string) bool

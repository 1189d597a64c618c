package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/export"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Pipeline turns one input file into an exported summary.
type Pipeline interface {
	// Process loads path, summarizes it, writes the outputs and archives the input.
	Process(ctx context.Context, path string) (*Outcome, error)
	// Handle is Process for callers that only need the error, such as the watcher.
	Handle(ctx context.Context, path string) error
	// IsSupported reports whether path has an extension the pipeline can read.
	IsSupported(path string) bool
}

// Outcome is what one Process call produced.
type Outcome struct {
	Transcript *transcript.Transcript
	Result     *mapreduce.Result
	Files      export.Files
	Archived   string
}

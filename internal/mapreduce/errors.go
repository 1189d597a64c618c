package mapreduce

import "errors"

var (
	// ErrAllChunksFailed is returned when no chunk summary is left to combine.
	ErrAllChunksFailed = errors.New("all chunk processing failed")
	// ErrNilTranscript is returned when Process is called without input.
	ErrNilTranscript = errors.New("transcript is nil")
	// ErrEmptySummary is recorded when a summarizer returns nothing.
	ErrEmptySummary = errors.New("summarizer returned no summary")
)

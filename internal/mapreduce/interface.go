package mapreduce

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Processor summarizes transcripts of any length with a bounded-context model.
type Processor interface {
	// Process summarizes t in one call when it fits the model, otherwise in
	// chunks that are summarized one at a time and then combined. progress
	// may be nil.
	Process(ctx context.Context, t *transcript.Transcript, summarize SummarizeFunc, opts Options, progress ProgressFunc) (*Result, error)
}

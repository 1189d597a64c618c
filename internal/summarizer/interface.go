package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Summarizer turns a transcript, chunk or combining transcript into a summary.
// Summarize has the shape of mapreduce.SummarizeFunc.
type Summarizer interface {
	Summarize(ctx context.Context, t *transcript.Transcript, opts mapreduce.CallOptions) (*mapreduce.Summary, error)
	Provider() string
}

package export

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Exporter writes a summary result to disk in the configured formats.
type Exporter interface {
	Export(ctx context.Context, name string, t *transcript.Transcript, res *mapreduce.Result) (Files, error)
}

// Files lists the paths written by one Export call. Formats that are not
// enabled stay empty.
type Files struct {
	Markdown string `json:"markdown,omitempty"`
	JSON     string `json:"json,omitempty"`
	Docx     string `json:"docx,omitempty"`
}

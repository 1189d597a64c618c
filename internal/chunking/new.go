package chunking

import "github.com/nguyentantai21042004/caption-digest/internal/transcript"

type implChunker struct {
	cfg      Config
	renderer transcript.Renderer
}

// New creates a Chunker. A nil renderer uses transcript.LineRenderer.
func New(cfg Config, r transcript.Renderer) Chunker {
	if r == nil {
		r = transcript.LineRenderer{}
	}
	return &implChunker{
		cfg:      cfg.withDefaults(),
		renderer: r,
	}
}

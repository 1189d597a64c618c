package mapreduce

import (
	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

type implProcessor struct {
	chunker  chunking.Chunker
	renderer transcript.Renderer
	logger   logger.Logger
}

// New creates a Processor. The renderer formats the combining transcript.
func New(chunker chunking.Chunker, r transcript.Renderer, log logger.Logger) Processor {
	if r == nil {
		r = transcript.LineRenderer{}
	}
	return &implProcessor{
		chunker:  chunker,
		renderer: r,
		logger:   log,
	}
}

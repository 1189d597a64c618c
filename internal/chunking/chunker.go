package chunking

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

func (c *implChunker) Analyze(t *transcript.Transcript, provider, model string, maxTokensPerChunk int) Analysis {
	return Analyze(t, provider, model, maxTokensPerChunk, c.cfg)
}

func (c *implChunker) Chunk(t *transcript.Transcript, strategy Strategy, maxTokens int) ([]Chunk, error) {
	if t == nil {
		return nil, ErrNoSections
	}
	groups, err := Partition(t.Sections, strategy, maxTokens, c.cfg, c.renderer)
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", strategy, err)
	}

	chunks := make([]Chunk, len(groups))
	for i, g := range groups {
		chunks[i] = newChunk(g, t, strategy, c.renderer)
	}
	return chunks, nil
}

func (c *implChunker) AddOverlap(chunks []Chunk, original *transcript.Transcript) []Chunk {
	return AddOverlap(chunks, original, c.cfg, c.renderer)
}

func (c *implChunker) Enrich(chunks []Chunk, original *transcript.Transcript, strategy Strategy) []Chunk {
	return Enrich(chunks, original, strategy, c.renderer)
}

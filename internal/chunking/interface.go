package chunking

import "github.com/nguyentantai21042004/caption-digest/internal/transcript"

// Chunker analyses transcripts and cuts them into token-bounded chunks.
type Chunker interface {
	// Analyze reports whether t needs chunking for provider/model.
	Analyze(t *transcript.Transcript, provider, model string, maxTokensPerChunk int) Analysis
	// Chunk partitions t into raw chunks of at most maxTokens each.
	Chunk(t *transcript.Transcript, strategy Strategy, maxTokens int) ([]Chunk, error)
	// AddOverlap prepends predecessor context to every chunk but the first.
	AddOverlap(chunks []Chunk, original *transcript.Transcript) []Chunk
	// Enrich attaches index, token and range metadata.
	Enrich(chunks []Chunk, original *transcript.Transcript, strategy Strategy) []Chunk
}

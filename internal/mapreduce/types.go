package mapreduce

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// ProcessingMethod marks results produced by the chunked path.
const ProcessingMethod = "large_transcript_chunked"

// PromptType tells the summarizer which kind of input it receives.
type PromptType string

const (
	// PromptFull is a whole transcript summarized in one call.
	PromptFull PromptType = ""
	// PromptSection is one chunk of a larger transcript.
	PromptSection PromptType = "section"
	// PromptCombine is the list of chunk summaries to merge.
	PromptCombine PromptType = "combine"
)

// Options controls one processing run.
type Options struct {
	Provider          string            `json:"provider"`
	Model             string            `json:"model"`
	Strategy          chunking.Strategy `json:"strategy,omitempty"`
	MaxTokensPerChunk int               `json:"maxTokensPerChunk,omitempty"`
	PreserveContext   bool              `json:"preserveContext"`
	Language          string            `json:"language,omitempty"`
}

// DefaultOptions returns options with boundary context enabled.
func DefaultOptions() Options {
	return Options{PreserveContext: true}
}

// CallOptions is passed to every summarizer call.
type CallOptions struct {
	Provider   string     `json:"provider"`
	Model      string     `json:"model"`
	Language   string     `json:"language,omitempty"`
	PromptType PromptType `json:"promptType,omitempty"`

	IsChunk     bool            `json:"isChunk,omitempty"`
	ChunkIndex  int             `json:"chunkIndex,omitempty"`
	TotalChunks int             `json:"totalChunks,omitempty"`
	Chunk       *chunking.Chunk `json:"-"`

	IsCombining   bool `json:"isCombining,omitempty"`
	TotalSections int  `json:"totalSections,omitempty"`
}

// Usage reports token consumption of a summarizer call.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Summary is the output of one summarizer call. Extra carries anything the
// summarizer wants forwarded untouched.
type Summary struct {
	Text     string         `json:"text"`
	Provider string         `json:"provider,omitempty"`
	Model    string         `json:"model,omitempty"`
	Usage    *Usage         `json:"usage,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// SummarizeFunc summarizes a transcript, a chunk or a combining transcript.
// Timeouts and retries are its own business.
type SummarizeFunc func(ctx context.Context, t *transcript.Transcript, opts CallOptions) (*Summary, error)

// ChunkSummary is the outcome of summarizing one chunk. Exactly one of
// Summary and Error is set.
type ChunkSummary struct {
	ChunkIndex int                `json:"chunkIndex"`
	TimeRange  chunking.TimeRange `json:"timeRange"`
	Speakers   []string           `json:"speakers"`
	TokenCount int                `json:"tokenCount"`
	Summary    *Summary           `json:"summary,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Succeeded reports whether the chunk produced a summary.
func (c ChunkSummary) Succeeded() bool {
	return c.Error == "" && c.Summary != nil
}

// ChunkingSummary aggregates chunk sizes.
type ChunkingSummary struct {
	Strategy     chunking.Strategy `json:"strategy"`
	TotalTokens  int               `json:"totalTokens"`
	AvgChunkSize int               `json:"avgChunkSize"`
}

// ChunkDetail describes one chunk in the final result.
type ChunkDetail struct {
	ChunkIndex int                `json:"chunkIndex"`
	TimeRange  chunking.TimeRange `json:"timeRange"`
	Speakers   []string           `json:"speakers"`
	TokenCount int                `json:"tokenCount"`
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
}

// ProcessingMetadata is attached to results of the chunked path.
type ProcessingMetadata struct {
	ProcessingMethod string             `json:"processingMethod"`
	ChunksProcessed  int                `json:"chunksProcessed"`
	ChunksFailed     int                `json:"chunksFailed"`
	ChunkingSummary  ChunkingSummary    `json:"chunkingSummary"`
	ChunkDetails     []ChunkDetail      `json:"chunkDetails"`
	Analysis         *chunking.Analysis `json:"analysis,omitempty"`
}

// Result is the combined summary. Metadata is nil when the transcript was
// summarized in a single call.
type Result struct {
	Summary
	Metadata *ProcessingMetadata `json:"metadata,omitempty"`
}

// Stage is a processing phase reported to progress callbacks.
type Stage string

const (
	StageChunking  Stage = "chunking"
	StageCombining Stage = "combining"
	StageComplete  Stage = "complete"
)

// ChunkInfo describes the chunk being processed.
type ChunkInfo struct {
	TimeRange  chunking.TimeRange `json:"timeRange"`
	Speakers   []string           `json:"speakers"`
	TokenCount int                `json:"tokenCount"`
}

// Progress is a progress event. Result is set on StageComplete.
type Progress struct {
	Stage     Stage      `json:"stage"`
	Current   int        `json:"current"`
	Total     int        `json:"total"`
	Message   string     `json:"message"`
	ChunkInfo *ChunkInfo `json:"chunkInfo,omitempty"`
	Result    *Result    `json:"-"`
}

// ProgressFunc receives progress events synchronously, in order.
type ProgressFunc func(Progress)

package chunking

import (
	"math"

	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Complexity is a coarse size classification used to pick a default strategy.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

const (
	highSpeakers   = 5
	highTokens     = 50000
	highSections   = 200
	mediumSpeakers = 2
	mediumTokens   = 20000
	mediumSections = 50

	// longUtteranceTokens is the average section size that favours speaker-turn chunking.
	longUtteranceTokens = 100
	// manySections favours time-based chunking.
	manySections = 100
)

// Analysis reports whether and how a transcript should be chunked.
type Analysis struct {
	TokenCount          int        `json:"tokenCount"`
	ContextLimit        int        `json:"contextLimit"`
	SafeLimit           int        `json:"safeLimit"`
	NeedsChunking       bool       `json:"needsChunking"`
	RecommendedStrategy Strategy   `json:"recommendedStrategy"`
	EstimatedChunks     int        `json:"estimatedChunks"`
	Complexity          Complexity `json:"complexity"`
	ForcedChunking      bool       `json:"forcedChunking"`
}

// EffectiveLimit is the per-chunk token ceiling the analysis implies.
func (a Analysis) EffectiveLimit(maxTokensPerChunk int) int {
	if a.ForcedChunking {
		return maxTokensPerChunk
	}
	if maxTokensPerChunk > 0 && maxTokensPerChunk < a.SafeLimit {
		return maxTokensPerChunk
	}
	return a.SafeLimit
}

// Analyze decides whether t fits the model behind provider/model.
// A positive maxTokensPerChunk below the transcript size forces chunking.
func Analyze(t *transcript.Transcript, provider, model string, maxTokensPerChunk int, cfg Config) Analysis {
	cfg = cfg.withDefaults()

	content := t.Content
	if content == "" {
		content = transcript.LineRenderer{}.Render(t.Sections)
	}

	a := Analysis{
		TokenCount:   tokens.Estimate(content),
		ContextLimit: ContextLimit(provider, model),
	}
	a.SafeLimit = int(math.Floor(float64(a.ContextLimit) * cfg.SafetyMargin))
	a.ForcedChunking = maxTokensPerChunk > 0 && maxTokensPerChunk < a.TokenCount
	a.NeedsChunking = a.ForcedChunking || a.TokenCount > a.SafeLimit

	limit := a.SafeLimit
	if a.ForcedChunking {
		limit = maxTokensPerChunk
	}
	if limit > 0 {
		a.EstimatedChunks = int(math.Ceil(float64(a.TokenCount) / float64(limit)))
	}
	if a.EstimatedChunks < 1 {
		a.EstimatedChunks = 1
	}

	speakers := len(t.Metadata.Participants)
	if speakers == 0 {
		speakers = len(transcript.Speakers(t.Sections))
	}
	a.Complexity = complexity(speakers, a.TokenCount, len(t.Sections))
	a.RecommendedStrategy = recommend(speakers, a.TokenCount, len(t.Sections))
	return a
}

func complexity(speakers, tokenCount, sections int) Complexity {
	switch {
	case speakers > highSpeakers || tokenCount > highTokens || sections > highSections:
		return ComplexityHigh
	case speakers > mediumSpeakers || tokenCount > mediumTokens || sections > mediumSections:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}

func recommend(speakers, tokenCount, sections int) Strategy {
	avg := 0
	if sections > 0 {
		avg = tokenCount / sections
	}
	switch {
	case speakers <= 2 && avg > longUtteranceTokens:
		return StrategySpeaker
	case sections > manySections:
		return StrategyTime
	default:
		return StrategyHybrid
	}
}

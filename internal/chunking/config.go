package chunking

import (
	"fmt"
	"time"
)

// Strategy names a boundary selection algorithm.
type Strategy string

const (
	StrategySpeaker  Strategy = "speaker"
	StrategyTime     Strategy = "time"
	StrategySemantic Strategy = "semantic"
	StrategyHybrid   Strategy = "hybrid"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategySpeaker, StrategyTime, StrategySemantic, StrategyHybrid}

// ParseStrategy validates a strategy name. An empty name is returned as is
// and means "use the recommended strategy".
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return "", nil
	}
	for _, s := range Strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Heuristic thresholds. They tune summary quality only; partitioning stays
// correct for any value in range.
const (
	// DefaultSafetyMargin is the share of the context window given to the transcript.
	DefaultSafetyMargin = 0.8
	// DefaultOverlapRatio is the share of a chunk's sections repeated in the next chunk.
	DefaultOverlapRatio = 0.15
	// DefaultLongPause separates topics in the semantic detector.
	DefaultLongPause = 30 * time.Second
	// DefaultShortPause separates turns in the natural break detector.
	DefaultShortPause = 10 * time.Second
	// DefaultMonologueTokens is the size after which a speaker change counts as a topic break.
	DefaultMonologueTokens = 200
	// DefaultEarlyCloseRatio lets the semantic strategy close a chunk at a break.
	DefaultEarlyCloseRatio = 0.7
	// DefaultNearLimitRatio lets the hybrid strategy close a chunk at a natural break.
	DefaultNearLimitRatio = 0.8
)

// OverlapPrefix tags text repeated from the previous chunk.
const OverlapPrefix = "[Context from previous section] "

// DefaultTransitionMarkers are phrases that usually open a new topic.
var DefaultTransitionMarkers = []string{
	// English
	"next", "now", "moving on", "let's move on", "next topic", "another thing",
	"in conclusion", "to summarize", "to sum up", "finally",
	// Chinese
	"接下來", "接下来", "下一個", "下一个", "現在", "现在", "另外", "總結", "总结", "最後", "最后", "首先",
	// Japanese
	"次に", "それでは", "さて",
	// Spanish, French
	"ahora", "siguiente", "maintenant", "ensuite",
}

// Config holds the chunking heuristics. It is read-only once built.
type Config struct {
	SafetyMargin      float64
	OverlapRatio      float64
	LongPause         time.Duration
	ShortPause        time.Duration
	MonologueTokens   int
	EarlyCloseRatio   float64
	NearLimitRatio    float64
	TransitionMarkers []string

	// Breaks overrides the semantic break detector. Nil uses a
	// KeywordBreakDetector built from the fields above.
	Breaks BreakDetector
}

// DefaultConfig returns the stock heuristics.
func DefaultConfig() Config {
	return Config{
		SafetyMargin:      DefaultSafetyMargin,
		OverlapRatio:      DefaultOverlapRatio,
		LongPause:         DefaultLongPause,
		ShortPause:        DefaultShortPause,
		MonologueTokens:   DefaultMonologueTokens,
		EarlyCloseRatio:   DefaultEarlyCloseRatio,
		NearLimitRatio:    DefaultNearLimitRatio,
		TransitionMarkers: DefaultTransitionMarkers,
	}
}

// withDefaults replaces zero values with the stock heuristics.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SafetyMargin <= 0 || c.SafetyMargin > 1 {
		c.SafetyMargin = d.SafetyMargin
	}
	if c.OverlapRatio <= 0 || c.OverlapRatio >= 1 {
		c.OverlapRatio = d.OverlapRatio
	}
	if c.LongPause <= 0 {
		c.LongPause = d.LongPause
	}
	if c.ShortPause <= 0 {
		c.ShortPause = d.ShortPause
	}
	if c.MonologueTokens <= 0 {
		c.MonologueTokens = d.MonologueTokens
	}
	if c.EarlyCloseRatio <= 0 || c.EarlyCloseRatio > 1 {
		c.EarlyCloseRatio = d.EarlyCloseRatio
	}
	if c.NearLimitRatio <= 0 || c.NearLimitRatio > 1 {
		c.NearLimitRatio = d.NearLimitRatio
	}
	if c.TransitionMarkers == nil {
		c.TransitionMarkers = d.TransitionMarkers
	}
	if c.Breaks == nil {
		c.Breaks = NewKeywordBreakDetector(c.TransitionMarkers, c.LongPause, c.MonologueTokens)
	}
	return c
}

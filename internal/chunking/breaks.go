package chunking

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// BreakDetector decides whether a chunk may start at section.
// prev and next are nil at the edges of the transcript.
type BreakDetector interface {
	IsBreakPoint(section transcript.Section, prev, next *transcript.Section) bool
}

// BreakFunc adapts a function to BreakDetector.
type BreakFunc func(section transcript.Section, prev, next *transcript.Section) bool

// IsBreakPoint implements BreakDetector.
func (f BreakFunc) IsBreakPoint(section transcript.Section, prev, next *transcript.Section) bool {
	return f(section, prev, next)
}

// KeywordBreakDetector finds topic changes from transition phrases, long
// pauses and a speaker change after a monologue.
type KeywordBreakDetector struct {
	latin           *regexp.Regexp
	phrases         []string
	longPause       time.Duration
	monologueTokens int
}

// NewKeywordBreakDetector builds a detector. Alphabetic markers match whole
// words case-insensitively; other markers match as substrings.
func NewKeywordBreakDetector(markers []string, longPause time.Duration, monologueTokens int) *KeywordBreakDetector {
	d := &KeywordBreakDetector{
		longPause:       longPause,
		monologueTokens: monologueTokens,
	}

	var words []string
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if isLatin(m) {
			words = append(words, regexp.QuoteMeta(strings.ToLower(m)))
			continue
		}
		d.phrases = append(d.phrases, m)
	}
	if len(words) > 0 {
		d.latin = regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
	}
	return d
}

// IsBreakPoint implements BreakDetector.
func (d *KeywordBreakDetector) IsBreakPoint(section transcript.Section, prev, _ *transcript.Section) bool {
	if d.HasMarker(section.Text) {
		return true
	}
	if prev == nil {
		return false
	}
	if gap(*prev, section) > d.longPause {
		return true
	}
	return prev.Speaker != section.Speaker && tokens.Estimate(prev.Text) > d.monologueTokens
}

// HasMarker reports whether text contains a transition marker.
func (d *KeywordBreakDetector) HasMarker(text string) bool {
	if d.latin != nil && d.latin.MatchString(text) {
		return true
	}
	for _, p := range d.phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// NaturalBreakDetector extends a semantic detector with plain speaker
// changes and short pauses.
type NaturalBreakDetector struct {
	Semantic   BreakDetector
	ShortPause time.Duration
}

// IsBreakPoint implements BreakDetector.
func (d NaturalBreakDetector) IsBreakPoint(section transcript.Section, prev, next *transcript.Section) bool {
	if d.Semantic != nil && d.Semantic.IsBreakPoint(section, prev, next) {
		return true
	}
	if prev == nil {
		return false
	}
	return prev.Speaker != section.Speaker || gap(*prev, section) > d.ShortPause
}

// gap is the silence between the end of prev and the start of s.
func gap(prev, s transcript.Section) time.Duration {
	return transcript.Offset(s.StartTime) - transcript.Offset(prev.EndTime)
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > unicode.MaxLatin1 {
			return false
		}
	}
	return true
}

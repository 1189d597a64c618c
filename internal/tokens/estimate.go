// Package tokens approximates how many model tokens a piece of text consumes.
// It is a heuristic, not a tokenizer: callers must keep a safety margin.
package tokens

import (
	"math"
	"unicode"
	"unicode/utf8"
)

const (
	// CharsPerToken is the average characters per token for alphabetic scripts.
	CharsPerToken = 4.0
	// DenseCharsPerToken is used when the text contains CJK ideographs or kana.
	DenseCharsPerToken = 2.5
)

// Estimate returns the approximate token count of text.
func Estimate(text string) int {
	return Counter{}.Add(text).Tokens()
}

// IsDense reports whether text contains any CJK rune.
func IsDense(text string) bool {
	for _, r := range text {
		if isDenseRune(r) {
			return true
		}
	}
	return false
}

func isDenseRune(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r)
}

// Counter accumulates newline-joined lines so a running estimate matches
// Estimate(strings.Join(lines, "\n")) exactly. The zero value is empty.
type Counter struct {
	runes int
	lines int
	dense bool
}

// Add returns a counter with text appended as a new line.
func (c Counter) Add(text string) Counter {
	if c.lines > 0 {
		c.runes++
	}
	c.lines++
	c.runes += utf8.RuneCountInString(text)
	if !c.dense {
		c.dense = IsDense(text)
	}
	return c
}

// Lines returns how many lines were added.
func (c Counter) Lines() int { return c.lines }

// Tokens returns the estimate for everything added so far.
func (c Counter) Tokens() int {
	if c.runes == 0 {
		return 0
	}
	divisor := CharsPerToken
	if c.dense {
		divisor = DenseCharsPerToken
	}
	return int(math.Ceil(float64(c.runes) / divisor))
}

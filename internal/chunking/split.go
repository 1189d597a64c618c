package chunking

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

var reSentence = regexp.MustCompile(`[^.!?。！？]*[.!?。！？]+["'”’」』)]*\s*|[^.!?。！？]+$`)

// splitSentences splits text after each terminator, keeping trailing spaces
// with the sentence they follow.
func splitSentences(text string) []string {
	parts := reSentence.FindAllString(text, -1)
	if len(parts) == 0 && strings.TrimSpace(text) != "" {
		return []string{text}
	}
	return parts
}

// SplitOversized splits a section whose rendered line exceeds maxTokens into
// fragments at sentence boundaries. A sentence that still does not fit is
// split between words. Fragments keep the parent's speaker and time range.
func SplitOversized(s transcript.Section, maxTokens int, r transcript.Renderer) []transcript.Section {
	if r == nil {
		r = transcript.LineRenderer{}
	}

	fits := func(text string) bool {
		frag := s
		frag.Text = strings.TrimSpace(text)
		return tokens.Estimate(r.RenderSection(frag)) <= maxTokens
	}

	var texts []string
	var cur string
	emit := func() {
		if t := strings.TrimSpace(cur); t != "" {
			texts = append(texts, t)
		}
		cur = ""
	}

	for _, sentence := range splitSentences(s.Text) {
		if fits(cur + sentence) {
			cur += sentence
			continue
		}
		emit()
		if fits(sentence) {
			cur = sentence
			continue
		}
		for _, word := range strings.Fields(sentence) {
			candidate := word
			if cur != "" {
				candidate = strings.TrimSpace(cur) + " " + word
			}
			if cur == "" || fits(candidate) {
				cur = candidate
				continue
			}
			emit()
			cur = word
		}
		emit()
	}
	emit()

	frags := make([]transcript.Section, len(texts))
	for i, t := range texts {
		frag := s
		frag.Text = t
		frag.IsSplit = true
		frags[i] = frag
	}
	return frags
}

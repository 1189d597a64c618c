package chunking

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

func ts(d time.Duration) string {
	return transcript.FormatTimestamp(d)
}

// pad returns text padded with "x" to exactly n runes.
func pad(text string, n int) string {
	if len(text) >= n {
		return text[:n]
	}
	return text + strings.Repeat("x", n-len(text))
}

func sec(speaker string, start, end time.Duration, text string) transcript.Section {
	return transcript.Section{Speaker: speaker, StartTime: ts(start), EndTime: ts(end), Text: text, Confidence: 1}
}

// evenSections builds n sections of 40-char text, five seconds apart.
func evenSections(n int, speaker func(i int) string) []transcript.Section {
	out := make([]transcript.Section, n)
	for i := range out {
		start := time.Duration(i) * 5 * time.Second
		out[i] = sec(speaker(i), start, start+5*time.Second, pad(fmt.Sprintf("line %d", i), 40))
	}
	return out
}

func same(speaker string) func(int) string {
	return func(int) string { return speaker }
}

func groupTokens(g []transcript.Section) int {
	return tokens.Estimate(transcript.LineRenderer{}.Render(g))
}

func flatten(groups [][]transcript.Section) []transcript.Section {
	var out []transcript.Section
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func texts(sections []transcript.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Text
	}
	return out
}

func tr(sections []transcript.Section) *transcript.Transcript {
	t := transcript.FromSections(sections, nil)
	t.Metadata.Language = "en"
	return t
}

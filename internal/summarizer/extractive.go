package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// maxKeyPoints bounds the bullets an extractive summary picks per call.
const maxKeyPoints = 12

// implExtractive builds summaries from the transcript itself without a model.
// It keeps the pipeline usable offline and in tests.
type implExtractive struct{}

func (implExtractive) Provider() string { return "extractive" }

func (e implExtractive) Summarize(ctx context.Context, t *transcript.Transcript, opts mapreduce.CallOptions) (*mapreduce.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	if opts.IsCombining || opts.PromptType == mapreduce.PromptCombine {
		text = combineExtract(t)
	} else {
		text = keyPoints(t)
	}
	if text == "" {
		return nil, fmt.Errorf("nothing to extract from %d sections", len(t.Sections))
	}

	in := tokens.Estimate(t.Content)
	out := tokens.Estimate(text)
	return &mapreduce.Summary{
		Text:     text,
		Provider: e.Provider(),
		Usage:    &mapreduce.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}, nil
}

// keyPoints takes the first sentence of evenly spaced sections, skipping
// overlap context.
func keyPoints(t *transcript.Transcript) string {
	own := make([]transcript.Section, 0, len(t.Sections))
	for _, s := range t.Sections {
		if !s.IsOverlap && strings.TrimSpace(s.Text) != "" {
			own = append(own, s)
		}
	}
	if len(own) == 0 {
		return ""
	}

	step := 1
	if len(own) > maxKeyPoints {
		step = (len(own) + maxKeyPoints - 1) / maxKeyPoints
	}

	var b strings.Builder
	b.WriteString("### Key points\n")
	for i := 0; i < len(own); i += step {
		s := own[i]
		who := s.Speaker
		if who == "" {
			who = "Unknown"
		}
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", who, s.StartTime, firstSentence(s.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

// combineExtract lays the section summaries out under their time ranges.
func combineExtract(t *transcript.Transcript) string {
	if len(t.Sections) == 0 {
		return strings.TrimSpace(t.Content)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Overview\n\nSummary of %d sections", len(t.Sections))
	if len(t.Metadata.Participants) > 0 {
		fmt.Fprintf(&b, " with %s", strings.Join(t.Metadata.Participants, ", "))
	}
	b.WriteString(".\n")
	for _, s := range t.Sections {
		fmt.Fprintf(&b, "\n## %s - %s\n\n%s\n", s.StartTime, s.EndTime, strings.TrimSpace(s.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?。！？"); i >= 0 {
		_, size := utf8.DecodeRuneInString(text[i:])
		return text[:i+size]
	}
	return text
}

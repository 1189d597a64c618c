package summarizer

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

const systemPrompt = `You are an expert meeting and lecture analyst. You write faithful, detailed
summaries of spoken transcripts in %s. Use markdown: headings, bullet points and bold for key terms.
Keep technical terms in their original language. Never invent content that is not in the transcript.`

const fullPrompt = `Summarize the transcript below.

Requirements:
- Start with a one-sentence overview of the topic
- List every main point and decision in the order they appear
- Attribute important statements to their speakers
- End with an "Action items" section if any follow-ups were agreed

Transcript (%s, speakers: %s):
---
%s
---`

const sectionPrompt = `This is section %d of %d of a longer transcript (%s, speakers: %s).
Summarize only this section. It will later be merged with the summaries of the other sections.
Lines marked "%s" repeat the end of the previous section for continuity only; do not
summarize them again.

Requirements:
- List the main points, decisions and open questions of this section in order
- Attribute important statements to their speakers
- Be concise; do not add an introduction or conclusion

Section transcript:
---
%s
---`

const combinePrompt = `Below are summaries of %d consecutive sections of one transcript, in order.
Merge them into one cohesive summary of the whole conversation.

Requirements:
- Start with a one-sentence overview of the topic
- Remove repetition between sections and keep the chronological flow
- Keep every decision and action item
- End with an "Action items" section if any follow-ups were agreed

Section summaries:
---
%s
---`

var languageNames = map[string]string{
	"en": "English",
	"vi": "Vietnamese",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if code == "" {
		return "English"
	}
	return code
}

// buildPrompt returns the system and user messages for one call.
func buildPrompt(t *transcript.Transcript, opts mapreduce.CallOptions) (string, string) {
	language := opts.Language
	if language == "" {
		language = t.Metadata.Language
	}
	system := fmt.Sprintf(systemPrompt, languageName(language))

	speakers := strings.Join(t.Metadata.Participants, ", ")
	if speakers == "" {
		speakers = "unknown"
	}

	switch {
	case opts.IsCombining || opts.PromptType == mapreduce.PromptCombine:
		return system, fmt.Sprintf(combinePrompt, opts.TotalSections, t.Content)
	case opts.IsChunk || opts.PromptType == mapreduce.PromptSection:
		span := t.Metadata.StartTime + " - " + t.Metadata.EndTime
		if opts.Chunk != nil {
			span = opts.Chunk.TimeRange.String()
			speakers = strings.Join(opts.Chunk.Speakers, ", ")
		}
		return system, fmt.Sprintf(sectionPrompt,
			opts.ChunkIndex+1, opts.TotalChunks, span, speakers,
			strings.TrimSpace(chunking.OverlapPrefix), t.Content)
	default:
		duration := t.Metadata.Duration
		if duration == "" {
			duration = "unknown length"
		}
		return system, fmt.Sprintf(fullPrompt, duration, speakers, t.Content)
	}
}

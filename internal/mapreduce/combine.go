package mapreduce

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// combiningSpeaker attributes combining sections to no real participant.
const combiningSpeaker = "Summary"

// combiningTranscript lays out the successful chunk summaries as numbered
// sections. Content holds the text sent to the combine call; Sections keep the
// per-chunk ranges so the summarizer can still see the timeline.
func (p *implProcessor) combiningTranscript(original *transcript.Transcript, succeeded []ChunkSummary) *transcript.Transcript {
	var b strings.Builder
	sections := make([]transcript.Section, 0, len(succeeded))
	for i, cs := range succeeded {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## Section %d (%s)\n", i+1, cs.TimeRange)
		fmt.Fprintf(&b, "Speakers: %s\n\n", strings.Join(cs.Speakers, ", "))
		b.WriteString(strings.TrimSpace(cs.Summary.Text))

		sections = append(sections, transcript.Section{
			Speaker:    combiningSpeaker,
			StartTime:  cs.TimeRange.Start,
			EndTime:    cs.TimeRange.End,
			Text:       strings.TrimSpace(cs.Summary.Text),
			Confidence: 1,
		})
	}

	t := transcript.FromSections(sections, p.renderer)
	t.Content = b.String()
	t.Metadata.Title = original.Metadata.Title
	t.Metadata.Language = original.Metadata.Language
	t.Metadata.Participants = append([]string(nil), original.Metadata.Participants...)
	if len(t.Metadata.Participants) == 0 {
		t.Metadata.Participants = transcript.Speakers(original.Sections)
	}
	t.Metadata.Duration = original.Metadata.Duration
	return t
}

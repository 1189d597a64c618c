package transcript

import (
	"errors"
	"strings"
)

// ErrEmptyTranscript is returned when there is nothing to format.
var ErrEmptyTranscript = errors.New("transcript has no entries")

// Format groups consecutive entries from the same speaker into sections and
// builds the transcript metadata and content.
func Format(entries []Entry, language string, r Renderer) (*Transcript, error) {
	if r == nil {
		r = LineRenderer{}
	}

	var sections []Section
	var merged int
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}

		if n := len(sections); n > 0 && sections[n-1].Speaker == e.Speaker {
			last := &sections[n-1]
			last.Text += " " + text
			last.EndTime = e.EndTime
			merged++
			last.Confidence += (e.Confidence - last.Confidence) / float64(merged)
			continue
		}

		merged = 1
		sections = append(sections, Section{
			Speaker:    e.Speaker,
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
			Text:       text,
			Confidence: e.Confidence,
		})
	}

	if len(sections) == 0 {
		return nil, ErrEmptyTranscript
	}

	t := FromSections(sections, r)
	t.Metadata.TotalEntries = len(entries)
	t.Metadata.Language = language
	return t, nil
}

// FromSections builds a transcript around already formatted sections.
func FromSections(sections []Section, r Renderer) *Transcript {
	if r == nil {
		r = LineRenderer{}
	}
	t := &Transcript{
		Content:  r.Render(sections),
		Sections: sections,
	}
	t.Metadata.Participants = Speakers(sections)
	t.Metadata.TotalEntries = len(sections)
	if len(sections) > 0 {
		t.Metadata.StartTime = sections[0].StartTime
		t.Metadata.EndTime = sections[len(sections)-1].EndTime
		t.Metadata.Duration = FormatTimestamp(Span(t.Metadata.StartTime, t.Metadata.EndTime))
	}
	return t
}

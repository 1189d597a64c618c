package chunking

import (
	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Enrich attaches index, strategy, token count, speakers, time range and the
// originating transcript's identifier to each chunk. Token counts cover the
// full content including overlap; speakers and time range cover own sections.
// A nil original leaves SourceID, title and language empty.
func Enrich(chunks []Chunk, original *transcript.Transcript, strategy Strategy, r transcript.Renderer) []Chunk {
	sourceID := SourceID(original, r)

	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		own := c.OwnSections()

		c.ChunkIndex = i
		c.TotalChunks = len(chunks)
		c.Strategy = strategy
		c.TokenCount = tokens.Estimate(c.Content)
		c.Speakers = transcript.Speakers(own)
		c.SourceID = sourceID

		if len(own) > 0 {
			start, end := own[0].StartTime, own[len(own)-1].EndTime
			c.TimeRange = TimeRange{
				Start:    start,
				End:      end,
				Duration: transcript.FormatTimestamp(transcript.Span(start, end)),
			}
		}

		c.Metadata.Participants = c.Speakers
		c.Metadata.StartTime = c.TimeRange.Start
		c.Metadata.EndTime = c.TimeRange.End
		c.Metadata.Duration = c.TimeRange.Duration
		c.Metadata.TotalEntries = len(own)
		if original != nil {
			c.Metadata.Title = original.Metadata.Title
			c.Metadata.Language = original.Metadata.Language
		}

		out[i] = c
	}
	return out
}

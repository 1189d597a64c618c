package chunking

import (
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// TimeRange is the span covered by a chunk's own sections.
type TimeRange struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
}

// String renders the range as "start - end".
func (r TimeRange) String() string {
	return r.Start + " - " + r.End
}

// Chunk is a transcript scoped to a contiguous run of sections, plus the
// metadata used for progress reporting and recombination.
type Chunk struct {
	transcript.Transcript

	ChunkIndex      int       `json:"chunkIndex"`
	TotalChunks     int       `json:"totalChunks"`
	Strategy        Strategy  `json:"chunkingStrategy"`
	TokenCount      int       `json:"tokenCount"`
	Speakers        []string  `json:"speakers"`
	TimeRange       TimeRange `json:"timeRange"`
	SourceID        string    `json:"sourceId"`
	HasOverlap      bool      `json:"hasOverlap,omitempty"`
	OverlapSections int       `json:"overlapSections,omitempty"`
}

// OwnSections returns the sections that are not overlap context.
func (c Chunk) OwnSections() []transcript.Section {
	own := make([]transcript.Section, 0, len(c.Sections))
	for _, s := range c.Sections {
		if !s.IsOverlap {
			own = append(own, s)
		}
	}
	return own
}

// sourceNamespace scopes transcript identifiers.
var sourceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("caption-digest/transcript"))

// SourceID derives a stable identifier from the transcript content. A nil
// transcript has no identifier.
func SourceID(t *transcript.Transcript, r transcript.Renderer) string {
	if t == nil {
		return ""
	}
	content := t.Content
	if content == "" {
		if r == nil {
			r = transcript.LineRenderer{}
		}
		content = r.Render(t.Sections)
	}
	return uuid.NewSHA1(sourceNamespace, []byte(content)).String()
}

func newChunk(group []transcript.Section, original *transcript.Transcript, strategy Strategy, r transcript.Renderer) Chunk {
	sections := append([]transcript.Section(nil), group...)
	t := transcript.FromSections(sections, r)
	t.Metadata.Title = original.Metadata.Title
	t.Metadata.Language = original.Metadata.Language
	return Chunk{
		Transcript: *t,
		Strategy:   strategy,
	}
}

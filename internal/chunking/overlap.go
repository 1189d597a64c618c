package chunking

import (
	"math"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// AddOverlap prepends the tail of each chunk's predecessor to it as context.
// At least one section is carried when the predecessor has any. The first
// chunk is left as is. Input chunks are not modified.
func AddOverlap(chunks []Chunk, original *transcript.Transcript, cfg Config, r transcript.Renderer) []Chunk {
	cfg = cfg.withDefaults()
	if r == nil {
		r = transcript.LineRenderer{}
	}

	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = c
		own := c.OwnSections()
		out[i].Sections = own
		out[i].HasOverlap = false
		out[i].OverlapSections = 0

		if i > 0 {
			prev := chunks[i-1].OwnSections()
			if n := overlapCount(len(prev), cfg.OverlapRatio); n > 0 {
				sections := make([]transcript.Section, 0, n+len(own))
				for _, s := range prev[len(prev)-n:] {
					s.IsOverlap = true
					s.Text = OverlapPrefix + s.Text
					sections = append(sections, s)
				}
				out[i].Sections = append(sections, own...)
				out[i].HasOverlap = true
				out[i].OverlapSections = n
			}
		}

		out[i].Content = r.Render(out[i].Sections)
		if original != nil && out[i].Metadata.Language == "" {
			out[i].Metadata.Language = original.Metadata.Language
		}
	}
	return out
}

func overlapCount(sections int, ratio float64) int {
	if sections == 0 {
		return 0
	}
	n := int(math.Floor(float64(sections) * ratio))
	if n < 1 {
		n = 1
	}
	if n > sections {
		n = sections
	}
	return n
}

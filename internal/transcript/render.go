package transcript

import "strings"

// Renderer turns sections into the content string handed to a summarizer.
type Renderer interface {
	RenderSection(s Section) string
	Render(sections []Section) string
}

// LineRenderer renders each section as "[start] speaker: text".
type LineRenderer struct{}

// RenderSection renders a single section line.
func (LineRenderer) RenderSection(s Section) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(s.StartTime)
	b.WriteString("] ")
	if s.Speaker != "" {
		b.WriteString(s.Speaker)
		b.WriteString(": ")
	}
	b.WriteString(s.Text)
	return b.String()
}

// Render renders sections as newline-joined lines.
func (r LineRenderer) Render(sections []Section) string {
	lines := make([]string, len(sections))
	for i, s := range sections {
		lines[i] = r.RenderSection(s)
	}
	return strings.Join(lines, "\n")
}

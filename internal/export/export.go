package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

func (e *implExporter) Export(ctx context.Context, name string, t *transcript.Transcript, res *mapreduce.Result) (Files, error) {
	var files Files
	if res == nil {
		return files, fmt.Errorf("export %s: nil result", name)
	}
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return files, fmt.Errorf("create output dir: %w", err)
	}

	title := name
	if t != nil && t.Metadata.Title != "" {
		title = t.Metadata.Title
	}
	now := e.now()
	md := renderMarkdown(title, t, res, now)
	base := filepath.Join(e.outputDir, name)

	if e.formats[FormatMarkdown] {
		files.Markdown = base + ".md"
		if err := os.WriteFile(files.Markdown, []byte(md), 0644); err != nil {
			return files, fmt.Errorf("write markdown: %w", err)
		}
	}

	if e.formats[FormatJSON] {
		files.JSON = base + ".json"
		data, err := json.MarshalIndent(newDocument(title, t, res, now), "", "  ")
		if err != nil {
			return files, fmt.Errorf("marshal json: %w", err)
		}
		if err := os.WriteFile(files.JSON, data, 0644); err != nil {
			return files, fmt.Errorf("write json: %w", err)
		}
	}

	if e.formats[FormatDocx] {
		files.Docx = base + ".docx"
		if err := markdownToDocx(title, md, files.Docx); err != nil {
			return files, fmt.Errorf("write docx: %w", err)
		}
	}

	e.logger.Debug(ctx, "Exported %s: %+v", name, files)
	return files, nil
}

// renderMarkdown lays out the summary followed by processing details for
// chunked results.
func renderMarkdown(title string, t *transcript.Transcript, res *mapreduce.Result, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n", title, now.Format("2006-01-02 15:04"))

	if t != nil {
		if len(t.Metadata.Participants) > 0 {
			fmt.Fprintf(&b, "**Participants:** %s\n\n", strings.Join(t.Metadata.Participants, ", "))
		}
		if t.Metadata.Duration != "" {
			fmt.Fprintf(&b, "**Duration:** %s\n\n", t.Metadata.Duration)
		}
	}

	b.WriteString(strings.TrimSpace(res.Text))
	b.WriteString("\n")

	if m := res.Metadata; m != nil {
		b.WriteString("\n---\n\n## Processing details\n\n")
		fmt.Fprintf(&b, "- Method: %s\n", m.ProcessingMethod)
		fmt.Fprintf(&b, "- Strategy: %s\n", m.ChunkingSummary.Strategy)
		fmt.Fprintf(&b, "- Chunks: %d processed, %d failed\n", m.ChunksProcessed, m.ChunksFailed)
		fmt.Fprintf(&b, "- Tokens: %d total, %d average per chunk\n", m.ChunkingSummary.TotalTokens, m.ChunkingSummary.AvgChunkSize)
		for _, d := range m.ChunkDetails {
			status := "ok"
			if !d.Success {
				status = "failed: " + d.Error
			}
			fmt.Fprintf(&b, "- Section %d (%s): %s\n", d.ChunkIndex+1, d.TimeRange, status)
		}
	}
	return b.String()
}

type document struct {
	Title       string               `json:"title"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Source      *transcript.Metadata `json:"source,omitempty"`
	Result      *mapreduce.Result    `json:"result"`
}

func newDocument(title string, t *transcript.Transcript, res *mapreduce.Result, now time.Time) document {
	d := document{Title: title, GeneratedAt: now, Result: res}
	if t != nil {
		m := t.Metadata
		d.Source = &m
	}
	return d
}

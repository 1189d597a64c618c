package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var reSpeakerPrefix = regexp.MustCompile(`^([^:\[\]]{1,40}):\s+(.+)$`)

// Load reads a transcript file. Supported inputs are a formatted transcript
// or an entry array in JSON, and SRT subtitles.
func Load(path, language string, r Renderer) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return Format(ParseSRT(string(data)), language, r)
	case ".json":
		return DecodeJSON(data, language, r)
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", filepath.Ext(path))
	}
}

// DecodeJSON accepts either a formatted transcript object or an array of entries.
func DecodeJSON(data []byte, language string, r Renderer) (*Transcript, error) {
	if r == nil {
		r = LineRenderer{}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
		return Format(entries, language, r)
	}

	var t Transcript
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return Normalize(&t, language, r)
}

// Normalize fills derived fields of a transcript decoded from an external
// source and rejects transcripts with no sections.
func Normalize(t *Transcript, language string, r Renderer) (*Transcript, error) {
	if t == nil || len(t.Sections) == 0 {
		return nil, ErrEmptyTranscript
	}
	if r == nil {
		r = LineRenderer{}
	}

	built := FromSections(t.Sections, r)
	if t.Content == "" {
		t.Content = built.Content
	}
	if len(t.Metadata.Participants) == 0 {
		t.Metadata.Participants = built.Metadata.Participants
	}
	if t.Metadata.StartTime == "" {
		t.Metadata.StartTime = built.Metadata.StartTime
	}
	if t.Metadata.EndTime == "" {
		t.Metadata.EndTime = built.Metadata.EndTime
	}
	if t.Metadata.Duration == "" {
		t.Metadata.Duration = built.Metadata.Duration
	}
	if t.Metadata.TotalEntries == 0 {
		t.Metadata.TotalEntries = len(t.Sections)
	}
	if t.Metadata.Language == "" {
		t.Metadata.Language = language
	}
	return t, nil
}

// ParseSRT parses SRT cues into entries. A "Name: text" prefix on a cue is
// taken as the speaker.
func ParseSRT(content string) []Entry {
	//	1
	//	00:00:00,000 --> 00:00:01,830
	//	Alice: I'm happy to
	//	have you here today.
	var entries []Entry
	var cur *Entry

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		if strings.Contains(line, "-->") {
			flush()
			parts := strings.SplitN(line, "-->", 2)
			cur = &Entry{
				StartTime:  normalizeTimestamp(parts[0]),
				EndTime:    normalizeTimestamp(parts[1]),
				Confidence: 1,
			}
			continue
		}

		if cur == nil {
			// sequence number
			continue
		}

		if cur.Text == "" {
			if m := reSpeakerPrefix.FindStringSubmatch(line); m != nil {
				cur.Speaker = strings.TrimSpace(m[1])
				line = m[2]
			}
			cur.Text = line
			continue
		}
		cur.Text += " " + line
	}
	flush()

	return entries
}

func normalizeTimestamp(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	d, err := ParseTimestamp(fields[0])
	if err != nil {
		return strings.TrimSpace(s)
	}
	return FormatTimestamp(d)
}

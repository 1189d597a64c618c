package transcript

// Section is one contiguous, speaker-attributed utterance block.
type Section struct {
	Speaker    string  `json:"speaker"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`

	// IsOverlap marks a section repeated from the previous chunk as context.
	IsOverlap bool `json:"isOverlap,omitempty"`
	// IsSplit marks a fragment of a section that was too large for one chunk.
	IsSplit bool `json:"isSplit,omitempty"`
}

// Metadata describes a transcript or a chunk of one.
type Metadata struct {
	Title        string   `json:"title,omitempty"`
	Participants []string `json:"participants"`
	Duration     string   `json:"duration"`
	Language     string   `json:"language,omitempty"`
	TotalEntries int      `json:"totalEntries"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
}

// Transcript is a formatted, chronologically ordered transcript.
type Transcript struct {
	Metadata Metadata  `json:"metadata"`
	Content  string    `json:"content"`
	Sections []Section `json:"sections"`
}

// Entry is a raw caption line as delivered by a transcript source.
type Entry struct {
	Speaker    string  `json:"speaker"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Speakers returns the ordered unique speakers of sections.
func Speakers(sections []Section) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sections {
		if s.Speaker == "" || seen[s.Speaker] {
			continue
		}
		seen[s.Speaker] = true
		out = append(out, s.Speaker)
	}
	return out
}

package export

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// Format is an output file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatDocx     Format = "docx"
)

type implExporter struct {
	outputDir string
	formats   map[Format]bool
	logger    logger.Logger
	now       func() time.Time
}

// New creates an Exporter writing into outputDir.
func New(outputDir string, formats []string, log logger.Logger) (Exporter, error) {
	set := make(map[Format]bool, len(formats))
	for _, f := range formats {
		switch Format(f) {
		case FormatMarkdown, FormatJSON, FormatDocx:
			set[Format(f)] = true
		default:
			return nil, fmt.Errorf("unknown export format %q", f)
		}
	}
	return &implExporter{
		outputDir: outputDir,
		formats:   set,
		logger:    log,
		now:       time.Now,
	}, nil
}

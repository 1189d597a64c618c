package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

var transcriptExts = []string{".json", ".srt"}

// Process runs load, summarize, export and archive for one file.
func (p *implPipeline) Process(ctx context.Context, path string) (*Outcome, error) {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcript digest: %s", path)
	p.logger.Info(ctx, "========================================")

	// Step 1: Get a transcript file, transcribing media first when enabled
	transcriptPath := path
	if p.isMedia(path) {
		srtPath, err := p.transcribeMedia(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("transcribe media: %w", err)
		}
		defer p.cleanupTemp(ctx, filepath.Dir(srtPath))
		transcriptPath = srtPath
	}

	// Step 2: Load and format
	t, err := transcript.Load(transcriptPath, p.cfg.LLM.Language, p.renderer)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if t.Metadata.Title == "" {
		t.Metadata.Title = name
	}
	p.logger.Info(ctx, "Loaded %d sections from %d speakers (%s)",
		len(t.Sections), len(t.Metadata.Participants), t.Metadata.Duration)

	// Step 3: Summarize, chunking when the transcript is too large
	opts, err := p.options()
	if err != nil {
		return nil, err
	}
	result, err := p.processor.Process(ctx, t, p.summarizer.Summarize, opts, p.logProgress(ctx))
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	// Step 4: Write outputs
	files, err := p.exporter.Export(ctx, name, t, result)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	out := &Outcome{Transcript: t, Result: result, Files: files}

	// Step 5: Move the input to the archived folder
	archived, err := p.moveToArchived(ctx, path)
	if err != nil {
		p.logger.Warn(ctx, "Failed to move input to archived folder: %v", err)
	}
	out.Archived = archived

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Digest completed successfully!")
	if m := result.Metadata; m != nil {
		p.logger.Info(ctx, "Chunks: %d processed, %d failed (%s)", m.ChunksProcessed, m.ChunksFailed, m.ChunkingSummary.Strategy)
	}
	p.logger.Info(ctx, "Output summary: %s", firstNonEmpty(files.Markdown, files.JSON, files.Docx))
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return out, nil
}

func (p *implPipeline) Handle(ctx context.Context, path string) error {
	_, err := p.Process(ctx, path)
	return err
}

func (p *implPipeline) IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range transcriptExts {
		if ext == e {
			return true
		}
	}
	return p.isMedia(path)
}

func (p *implPipeline) options() (mapreduce.Options, error) {
	strategy, err := chunking.ParseStrategy(p.cfg.Chunking.Strategy)
	if err != nil {
		return mapreduce.Options{}, err
	}
	return mapreduce.Options{
		Provider:          p.cfg.LLM.Provider,
		Model:             p.cfg.LLM.Model,
		Strategy:          strategy,
		MaxTokensPerChunk: p.cfg.Chunking.MaxTokensPerChunk,
		PreserveContext:   p.cfg.Chunking.ShouldPreserveContext(),
		Language:          p.cfg.LLM.Language,
	}, nil
}

func (p *implPipeline) logProgress(ctx context.Context) mapreduce.ProgressFunc {
	return func(pr mapreduce.Progress) {
		switch pr.Stage {
		case mapreduce.StageChunking:
			p.logger.Info(ctx, "[%d/%d] %s", pr.Current, pr.Total, pr.Message)
		default:
			p.logger.Info(ctx, "%s", pr.Message)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

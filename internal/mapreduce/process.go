package mapreduce

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

func (p *implProcessor) Process(ctx context.Context, t *transcript.Transcript, summarize SummarizeFunc, opts Options, progress ProgressFunc) (*Result, error) {
	if t == nil {
		return nil, ErrNilTranscript
	}
	if progress == nil {
		progress = func(Progress) {}
	}

	analysis := p.chunker.Analyze(t, opts.Provider, opts.Model, opts.MaxTokensPerChunk)
	p.logger.Debug(ctx, "Analysis: %d tokens, safe limit %d, needs chunking %t",
		analysis.TokenCount, analysis.SafeLimit, analysis.NeedsChunking)

	if !analysis.NeedsChunking {
		s, err := summarize(ctx, t, p.callOptions(opts, PromptFull))
		if err != nil {
			return nil, fmt.Errorf("summarize transcript: %w", err)
		}
		if s == nil {
			return nil, ErrEmptySummary
		}
		return &Result{Summary: *s}, nil
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = analysis.RecommendedStrategy
	}
	limit := analysis.EffectiveLimit(opts.MaxTokensPerChunk)

	chunks, err := p.chunker.Chunk(t, strategy, limit)
	if err != nil {
		return nil, fmt.Errorf("chunk transcript: %w", err)
	}
	if opts.PreserveContext {
		chunks = p.chunker.AddOverlap(chunks, t)
	}
	chunks = p.chunker.Enrich(chunks, t, strategy)

	p.logger.Info(ctx, "Processing %d chunks with %s strategy (limit %d tokens)", len(chunks), strategy, limit)

	results, err := p.summarizeChunks(ctx, chunks, summarize, opts, progress)
	if err != nil {
		return nil, err
	}

	progress(Progress{
		Stage:   StageCombining,
		Current: len(chunks),
		Total:   len(chunks),
		Message: "Combining section summaries",
	})

	succeeded := make([]ChunkSummary, 0, len(results))
	for _, r := range results {
		if r.Succeeded() {
			succeeded = append(succeeded, r)
		}
	}
	if len(succeeded) == 0 {
		return nil, fmt.Errorf("%d of %d chunks: %w", len(chunks), len(chunks), ErrAllChunksFailed)
	}

	combining := p.combiningTranscript(t, succeeded)
	callOpts := p.callOptions(opts, PromptCombine)
	callOpts.IsCombining = true
	callOpts.TotalSections = len(succeeded)

	s, err := summarize(ctx, combining, callOpts)
	if err != nil {
		return nil, fmt.Errorf("combine summaries: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("combine summaries: %w", ErrEmptySummary)
	}

	result := &Result{
		Summary:  *s,
		Metadata: buildMetadata(chunks, results, strategy, analysis),
	}

	p.logger.Info(ctx, "Combined %d of %d chunk summaries", len(succeeded), len(chunks))
	progress(Progress{
		Stage:   StageComplete,
		Current: len(chunks),
		Total:   len(chunks),
		Message: "Summary complete",
		Result:  result,
	})
	return result, nil
}

// summarizeChunks calls summarize for every chunk in order. A failing chunk is
// recorded and skipped; only cancellation stops the loop.
func (p *implProcessor) summarizeChunks(ctx context.Context, chunks []chunking.Chunk, summarize SummarizeFunc, opts Options, progress ProgressFunc) ([]ChunkSummary, error) {
	results := make([]ChunkSummary, 0, len(chunks))
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		c := &chunks[i]

		progress(Progress{
			Stage:   StageChunking,
			Current: i + 1,
			Total:   len(chunks),
			Message: fmt.Sprintf("Processing section %d of %d (%s)", i+1, len(chunks), c.TimeRange),
			ChunkInfo: &ChunkInfo{
				TimeRange:  c.TimeRange,
				Speakers:   c.Speakers,
				TokenCount: c.TokenCount,
			},
		})

		callOpts := p.callOptions(opts, PromptSection)
		callOpts.IsChunk = true
		callOpts.ChunkIndex = c.ChunkIndex
		callOpts.TotalChunks = c.TotalChunks
		callOpts.Chunk = c

		cs := ChunkSummary{
			ChunkIndex: c.ChunkIndex,
			TimeRange:  c.TimeRange,
			Speakers:   c.Speakers,
			TokenCount: c.TokenCount,
		}
		s, err := summarize(ctx, &c.Transcript, callOpts)
		switch {
		case err != nil:
			cs.Error = err.Error()
			p.logger.Warn(ctx, "Chunk %d/%d failed: %v", i+1, len(chunks), err)
		case s == nil:
			cs.Error = ErrEmptySummary.Error()
			p.logger.Warn(ctx, "Chunk %d/%d failed: %v", i+1, len(chunks), ErrEmptySummary)
		default:
			cs.Summary = s
		}
		results = append(results, cs)
	}
	return results, nil
}

func (p *implProcessor) callOptions(opts Options, pt PromptType) CallOptions {
	return CallOptions{
		Provider:   opts.Provider,
		Model:      opts.Model,
		Language:   opts.Language,
		PromptType: pt,
	}
}

func buildMetadata(chunks []chunking.Chunk, results []ChunkSummary, strategy chunking.Strategy, analysis chunking.Analysis) *ProcessingMetadata {
	total := 0
	for _, c := range chunks {
		total += c.TokenCount
	}
	avg := 0
	if len(chunks) > 0 {
		avg = total / len(chunks)
	}

	details := make([]ChunkDetail, len(results))
	processed := 0
	for i, r := range results {
		ok := r.Succeeded()
		if ok {
			processed++
		}
		details[i] = ChunkDetail{
			ChunkIndex: r.ChunkIndex,
			TimeRange:  r.TimeRange,
			Speakers:   r.Speakers,
			TokenCount: r.TokenCount,
			Success:    ok,
			Error:      r.Error,
		}
	}

	a := analysis
	return &ProcessingMetadata{
		ProcessingMethod: ProcessingMethod,
		ChunksProcessed:  processed,
		ChunksFailed:     len(results) - processed,
		ChunkingSummary: ChunkingSummary{
			Strategy:     strategy,
			TotalTokens:  total,
			AvgChunkSize: avg,
		},
		ChunkDetails: details,
		Analysis:     &a,
	}
}

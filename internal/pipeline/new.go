package pipeline

import (
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/export"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

type implPipeline struct {
	cfg        *config.Config
	processor  mapreduce.Processor
	summarizer summarizer.Summarizer
	exporter   export.Exporter
	executor   executor.Executor
	renderer   transcript.Renderer
	logger     logger.Logger
}

// New creates a Pipeline. exec is only used when media input is enabled.
func New(cfg *config.Config, proc mapreduce.Processor, sum summarizer.Summarizer, exp export.Exporter, exec executor.Executor, log logger.Logger) Pipeline {
	return &implPipeline{
		cfg:        cfg,
		processor:  proc,
		summarizer: sum,
		exporter:   exp,
		executor:   exec,
		renderer:   transcript.LineRenderer{},
		logger:     log,
	}
}

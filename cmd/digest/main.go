package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/export"
	"github.com/nguyentantai21042004/caption-digest/internal/httpapi"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/pipeline"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/watcher"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

const usage = `Usage: digest [-config config.yaml] <command> [args]

Commands:
  run <file>   summarize one transcript (.json, .srt) and write the outputs
  watch        process transcripts dropped into paths.input
  serve        start the HTTP API
`

type app struct {
	cfg       *config.Config
	log       logger.Logger
	chunker   chunking.Chunker
	processor mapreduce.Processor
	summarize summarizer.Summarizer
	pipeline  pipeline.Pipeline
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "run":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = a.run(ctx, flag.Arg(1))
	case "watch":
		err = a.watch(ctx)
	case "serve":
		err = a.serve(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error(ctx, "%v", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config) (*app, error) {
	log := logger.NewWithOptions(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	chunkCfg := chunking.DefaultConfig()
	chunkCfg.SafetyMargin = cfg.Chunking.SafetyMargin
	chunker := chunking.New(chunkCfg, nil)
	proc := mapreduce.New(chunker, nil, log)

	sum, err := summarizer.New(cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}
	exp, err := export.New(cfg.Paths.Output, cfg.Export.Formats, log)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		chunker:   chunker,
		processor: proc,
		summarize: sum,
		pipeline:  pipeline.New(cfg, proc, sum, exp, executor.New(), log),
	}, nil
}

func (a *app) run(ctx context.Context, path string) error {
	out, err := a.pipeline.Process(ctx, path)
	if err != nil {
		return err
	}
	for _, f := range []string{out.Files.Markdown, out.Files.JSON, out.Files.Docx} {
		if f != "" {
			fmt.Println(f)
		}
	}
	return nil
}

func (a *app) watch(ctx context.Context) error {
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Transcript Digest Pipeline")
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	a.log.Info(ctx, "Provider: %s %s", a.cfg.LLM.Provider, a.cfg.LLM.Model)
	a.log.Info(ctx, "Max Concurrent Processing: %d", a.cfg.Performance.MaxConcurrent)

	// Verify required directories exist
	if err := ensureDirectories(a.cfg); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	w, err := watcher.New(a.cfg.Paths.Input, a.pipeline.Handle, a.pipeline.IsSupported, a.log, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	err = w.Start(ctx)
	a.log.Info(ctx, "Digest pipeline stopped")
	return err
}

func (a *app) serve(ctx context.Context) error {
	defaults := mapreduce.DefaultOptions()
	defaults.Provider = a.cfg.LLM.Provider
	defaults.Model = a.cfg.LLM.Model
	defaults.Language = a.cfg.LLM.Language
	defaults.MaxTokensPerChunk = a.cfg.Chunking.MaxTokensPerChunk
	defaults.PreserveContext = a.cfg.Chunking.ShouldPreserveContext()
	strategy, err := chunking.ParseStrategy(a.cfg.Chunking.Strategy)
	if err != nil {
		return err
	}
	defaults.Strategy = strategy

	srv := httpapi.New(a.cfg.Server, defaults, a.chunker, a.processor, a.summarize, a.log)
	return srv.Run(ctx)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

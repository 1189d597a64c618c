package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

type implServer struct {
	cfg        config.ServerConfig
	defaults   mapreduce.Options
	chunker    chunking.Chunker
	processor  mapreduce.Processor
	summarizer summarizer.Summarizer
	renderer   transcript.Renderer
	logger     logger.Logger
	engine     *gin.Engine
}

// New creates the HTTP server. defaults fill request fields left empty.
func New(cfg config.ServerConfig, defaults mapreduce.Options, chunker chunking.Chunker, proc mapreduce.Processor, sum summarizer.Summarizer, log logger.Logger) Server {
	gin.SetMode(cfg.Mode)

	s := &implServer{
		cfg:        cfg,
		defaults:   defaults,
		chunker:    chunker,
		processor:  proc,
		summarizer: sum,
		renderer:   transcript.LineRenderer{},
		logger:     log,
		engine:     gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestID(), s.requestLogger())
	s.routes()
	return s
}

func (s *implServer) routes() {
	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/analyze", s.analyze)
	v1.POST("/chunks", s.chunks)
	v1.POST("/summarize", s.summarize)
}

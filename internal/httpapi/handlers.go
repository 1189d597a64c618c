package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Request is the body shared by the analyze, chunks and summarize routes.
// Either Transcript or Entries must be set.
type Request struct {
	Transcript        *transcript.Transcript `json:"transcript"`
	Entries           []transcript.Entry     `json:"entries"`
	Language          string                 `json:"language"`
	Provider          string                 `json:"provider"`
	Model             string                 `json:"model"`
	Strategy          string                 `json:"strategy" binding:"omitempty,oneof=speaker time semantic hybrid"`
	MaxTokensPerChunk int                    `json:"maxTokensPerChunk" binding:"gte=0"`
	PreserveContext   *bool                  `json:"preserveContext"`
}

// ChunksResponse is returned by POST /api/v1/chunks.
type ChunksResponse struct {
	Analysis chunking.Analysis `json:"analysis"`
	Strategy chunking.Strategy `json:"strategy"`
	Limit    int               `json:"limit"`
	Chunks   []chunking.Chunk  `json:"chunks"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *implServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"provider": s.summarizer.Provider(),
	})
}

func (s *implServer) analyze(c *gin.Context) {
	req, t, ok := s.bind(c)
	if !ok {
		return
	}
	opts := s.options(req)
	c.JSON(http.StatusOK, gin.H{"data": s.chunker.Analyze(t, opts.Provider, opts.Model, opts.MaxTokensPerChunk)})
}

// chunks runs the chunking stages without summarizing, so callers can inspect
// boundaries before spending model calls.
func (s *implServer) chunks(c *gin.Context) {
	req, t, ok := s.bind(c)
	if !ok {
		return
	}
	opts := s.options(req)

	analysis := s.chunker.Analyze(t, opts.Provider, opts.Model, opts.MaxTokensPerChunk)
	strategy := opts.Strategy
	if strategy == "" {
		strategy = analysis.RecommendedStrategy
	}
	limit := analysis.EffectiveLimit(opts.MaxTokensPerChunk)

	chunks, err := s.chunker.Chunk(t, strategy, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if opts.PreserveContext {
		chunks = s.chunker.AddOverlap(chunks, t)
	}
	chunks = s.chunker.Enrich(chunks, t, strategy)

	c.JSON(http.StatusOK, gin.H{"data": ChunksResponse{
		Analysis: analysis,
		Strategy: strategy,
		Limit:    limit,
		Chunks:   chunks,
	}})
}

// summarize runs the full map-reduce. With "Accept: text/event-stream" the
// progress events are streamed and the result is the final "result" event.
func (s *implServer) summarize(c *gin.Context) {
	req, t, ok := s.bind(c)
	if !ok {
		return
	}
	opts := s.options(req)
	ctx := c.Request.Context()

	if c.GetHeader("Accept") != "text/event-stream" {
		res, err := s.processor.Process(ctx, t, s.summarizer.Summarize, opts, nil)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": res})
		return
	}

	type outcome struct {
		res *mapreduce.Result
		err error
	}
	events := make(chan mapreduce.Progress, 8)
	done := make(chan outcome, 1)
	go func() {
		defer close(events)
		res, err := s.processor.Process(ctx, t, s.summarizer.Summarize, opts, func(p mapreduce.Progress) {
			select {
			case events <- p:
			case <-ctx.Done():
			}
		})
		done <- outcome{res: res, err: err}
	}()

	// Single-call results produce no progress events, so the returned value
	// is the fallback for the result event.
	sent := false
	c.Stream(func(w io.Writer) bool {
		p, ok := <-events
		if !ok {
			out := <-done
			switch {
			case out.err != nil:
				c.SSEvent("error", gin.H{"message": out.err.Error()})
			case !sent && out.res != nil:
				c.SSEvent("result", out.res)
			}
			return false
		}
		if p.Stage == mapreduce.StageComplete {
			c.SSEvent("result", p.Result)
			sent = true
			return true
		}
		c.SSEvent("progress", p)
		return true
	})
}

// bind decodes the request and builds the transcript it describes.
func (s *implServer) bind(c *gin.Context) (Request, *transcript.Transcript, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return req, nil, false
	}

	var (
		t   *transcript.Transcript
		err error
	)
	switch {
	case req.Transcript != nil:
		t, err = transcript.Normalize(req.Transcript, req.Language, s.renderer)
	case len(req.Entries) > 0:
		t, err = transcript.Format(req.Entries, req.Language, s.renderer)
	default:
		err = transcript.ErrEmptyTranscript
	}
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid_transcript", err.Error())
		return req, nil, false
	}
	return req, t, true
}

func (s *implServer) options(req Request) mapreduce.Options {
	opts := s.defaults
	if req.Provider != "" {
		opts.Provider = req.Provider
	}
	if req.Model != "" {
		opts.Model = req.Model
	}
	if req.Language != "" {
		opts.Language = req.Language
	}
	if req.Strategy != "" {
		opts.Strategy = chunking.Strategy(req.Strategy)
	}
	if req.MaxTokensPerChunk > 0 {
		opts.MaxTokensPerChunk = req.MaxTokensPerChunk
	}
	if req.PreserveContext != nil {
		opts.PreserveContext = *req.PreserveContext
	}
	return opts
}

func (s *implServer) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chunking.ErrNoSections), errors.Is(err, chunking.ErrInvalidLimit), errors.Is(err, chunking.ErrUnknownStrategy):
		s.respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, mapreduce.ErrAllChunksFailed):
		s.respondError(c, http.StatusBadGateway, "all_chunks_failed", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.respondError(c, http.StatusGatewayTimeout, "cancelled", err.Error())
	default:
		s.respondError(c, http.StatusBadGateway, "summarizer_error", err.Error())
	}
}

func (s *implServer) respondError(c *gin.Context, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	c.AbortWithStatusJSON(status, body)
}

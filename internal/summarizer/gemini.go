package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

type implGemini struct {
	apiKeys []string
	baseURL string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client
}

func (g *implGemini) Provider() string { return "gemini" }

func (g *implGemini) Summarize(ctx context.Context, t *transcript.Transcript, opts mapreduce.CallOptions) (*mapreduce.Summary, error) {
	system, prompt := buildPrompt(t, opts)
	model := opts.Model
	if model == "" {
		model = g.model
	}

	result, err := g.generate(ctx, model, system, prompt)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: empty response from Gemini", ErrTransient)
	}

	s := &mapreduce.Summary{
		Text:     strings.TrimSpace(text.String()),
		Provider: g.Provider(),
		Model:    model,
	}
	if u := result.UsageMetadata; u != nil {
		s.Usage = &mapreduce.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return s, nil
}

// generate sends the prompt with the current key. It rotates keys on 429 /
// quota errors and gives up once every key has been tried.
func (g *implGemini) generate(ctx context.Context, model, system, prompt string) (*genai.GenerateContentResponse, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	var lastErr error
	for range len(g.apiKeys) {
		idx, client, err := g.client(ctx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err != nil {
			errMsg := err.Error()
			if isRateLimited(errMsg) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			if isServerError(errMsg) {
				return nil, fmt.Errorf("%w: generate content: %w", ErrTransient, err)
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}
		if result == nil {
			return nil, fmt.Errorf("%w: empty response from Gemini", ErrTransient)
		}
		return result, nil
	}

	return nil, fmt.Errorf("%w: all API keys exhausted: %w", ErrTransient, lastErr)
}

func (g *implGemini) client(ctx context.Context) (int, *genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.currentKey
	key := g.apiKeys[idx]
	if c, ok := g.clients[key]; ok {
		return idx, c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions.BaseURL = g.baseURL
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return idx, nil, err
	}
	if g.clients == nil {
		g.clients = make(map[string]*genai.Client)
	}
	g.clients[key] = c
	return idx, c, nil
}

// rotateKey moves past idx unless another caller already did.
func (g *implGemini) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isRateLimited(msg string) bool {
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func isServerError(msg string) bool {
	for _, s := range []string{"500", "502", "503", "504", "UNAVAILABLE", "INTERNAL", "DEADLINE_EXCEEDED"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

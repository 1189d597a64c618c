package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

const openAITemperature = 0.3

type implOpenAI struct {
	cli    *openai.Client
	model  string
	logger logger.Logger
}

func newOpenAI(apiKey, baseURL, model string, log logger.Logger) *implOpenAI {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &implOpenAI{
		cli:    openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: log,
	}
}

func (o *implOpenAI) Provider() string { return "openai" }

func (o *implOpenAI) Summarize(ctx context.Context, t *transcript.Transcript, opts mapreduce.CallOptions) (*mapreduce.Summary, error) {
	system, prompt := buildPrompt(t, opts)
	model := opts.Model
	if model == "" {
		model = o.model
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: openAITemperature,
	}

	resp, err := o.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		if isTransientOpenAI(err) {
			return nil, fmt.Errorf("%w: chat completion: %w", ErrTransient, err)
		}
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: empty response from OpenAI", ErrTransient)
	}

	return &mapreduce.Summary{
		Text:     strings.TrimSpace(resp.Choices[0].Message.Content),
		Provider: o.Provider(),
		Model:    resp.Model,
		Usage: &mapreduce.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Extra: map[string]any{"finishReason": string(resp.Choices[0].FinishReason)},
	}, nil
}

func isTransientOpenAI(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return errors.Is(err, context.DeadlineExceeded)
}

package summarizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// ErrTransient marks failures worth retrying: rate limits, timeouts and 5xx.
var ErrTransient = errors.New("transient provider error")

// ErrNoAPIKeys is returned when a hosted provider has no credentials.
var ErrNoAPIKeys = errors.New("no API keys configured")

const defaultInitialInterval = 2 * time.Second

// New creates the Summarizer for cfg.Provider, wrapped with retries.
func New(cfg config.LLMConfig, log logger.Logger) (Summarizer, error) {
	var s Summarizer
	switch cfg.Provider {
	case "gemini":
		if len(cfg.APIKeys) == 0 {
			return nil, fmt.Errorf("gemini: %w", ErrNoAPIKeys)
		}
		s = &implGemini{
			apiKeys: cfg.APIKeys,
			baseURL: cfg.BaseURL,
			model:   cfg.Model,
			logger:  log,
		}
	case "openai":
		if len(cfg.APIKeys) == 0 {
			return nil, fmt.Errorf("openai: %w", ErrNoAPIKeys)
		}
		s = newOpenAI(cfg.APIKeys[0], cfg.BaseURL, cfg.Model, log)
	case "extractive", "":
		s = &implExtractive{}
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	return &implRetrying{
		next:            s,
		maxTries:        uint(cfg.MaxRetries) + 1,
		timeout:         cfg.Timeout,
		initialInterval: defaultInitialInterval,
		logger:          log,
	}, nil
}

package chunking

import "strings"

// defaultContextLimit applies to providers missing from the table.
const defaultContextLimit = 8192

// providerLimits maps provider → model → context window in tokens.
// Adding a model is a data-only change.
var providerLimits = map[string]map[string]int{
	"openai": {
		"gpt-4.1":       1047576,
		"gpt-4.1-mini":  1047576,
		"gpt-4o":        128000,
		"gpt-4o-mini":   128000,
		"gpt-4-turbo":   128000,
		"gpt-4":         8192,
		"gpt-3.5-turbo": 16385,
		"o3-mini":       200000,
	},
	"anthropic": {
		"claude-3-5-sonnet-20241022": 200000,
		"claude-3-5-haiku-20241022":  200000,
		"claude-3-opus-20240229":     200000,
		"claude-3-haiku-20240307":    200000,
	},
	"gemini": {
		"gemini-2.5-pro":   1048576,
		"gemini-2.5-flash": 1048576,
		"gemini-2.0-flash": 1048576,
		"gemini-1.5-pro":   2097152,
		"gemini-1.5-flash": 1048576,
	},
}

// providerDefaults is the conservative fallback for unknown models of a known provider.
var providerDefaults = map[string]int{
	"openai":    8192,
	"anthropic": 100000,
	"gemini":    32768,
}

// ContextLimit returns the context window for provider/model.
func ContextLimit(provider, model string) int {
	provider = strings.ToLower(provider)
	if models, ok := providerLimits[provider]; ok {
		if limit, ok := models[model]; ok {
			return limit
		}
	}
	if limit, ok := providerDefaults[provider]; ok {
		return limit
	}
	return defaultContextLimit
}

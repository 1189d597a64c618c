package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid extractive config",
			config: Config{
				Paths: PathsConfig{Input: "data/input", Output: "data/output"},
			},
		},
		{
			name: "valid gemini config",
			config: Config{
				LLM:   LLMConfig{Provider: "gemini", APIKeys: []string{"k1", "k2"}},
				Paths: PathsConfig{Input: "data/input", Output: "data/output"},
			},
		},
		{
			name: "missing api keys",
			config: Config{
				LLM:   LLMConfig{Provider: "openai"},
				Paths: PathsConfig{Input: "data/input", Output: "data/output"},
			},
			wantErr: "llm.api_keys is required",
		},
		{
			name: "unknown provider",
			config: Config{
				LLM:   LLMConfig{Provider: "cohere"},
				Paths: PathsConfig{Input: "data/input", Output: "data/output"},
			},
			wantErr: "llm.provider must be one of",
		},
		{
			name: "unknown strategy",
			config: Config{
				Chunking: ChunkingConfig{Strategy: "random"},
				Paths:    PathsConfig{Input: "data/input", Output: "data/output"},
			},
			wantErr: "chunking.strategy must be one of",
		},
		{
			name:    "missing paths",
			config:  Config{},
			wantErr: "paths.input is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		LLM:   LLMConfig{Provider: "gemini", APIKeys: []string{"k"}},
		Paths: PathsConfig{Input: "in", Output: "out"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %v, want %v", cfg.LLM.Model, "gemini-2.5-flash")
	}
	if cfg.LLM.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want %v", cfg.LLM.Timeout, 2*time.Minute)
	}
	if cfg.Chunking.SafetyMargin != 0.8 {
		t.Errorf("SafetyMargin = %v, want %v", cfg.Chunking.SafetyMargin, 0.8)
	}
	if !cfg.Chunking.ShouldPreserveContext() {
		t.Error("ShouldPreserveContext() = false, want true when unset")
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %v, want %v", cfg.Performance.MaxConcurrent, 2)
	}
	if cfg.Paths.Archived != "data/archived" {
		t.Errorf("Archived = %v, want %v", cfg.Paths.Archived, "data/archived")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
llm:
  provider: "openai"
  model: "gpt-4"
  language: "vi"
  timeout: "45s"

chunking:
  strategy: "speaker"
  max_tokens_per_chunk: 2000
  preserve_context: false

paths:
  input: "${DIGEST_TEST_ROOT}/input"
  output: "data/output"

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=sk-test\nDIGEST_TEST_ROOT=/srv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvOpenAIKey)
		os.Unsetenv("DIGEST_TEST_ROOT")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Model != "gpt-4" {
		t.Errorf("Model = %v, want %v", cfg.LLM.Model, "gpt-4")
	}
	if len(cfg.LLM.APIKeys) != 1 || cfg.LLM.APIKeys[0] != "sk-test" {
		t.Errorf("APIKeys = %v, want [sk-test]", cfg.LLM.APIKeys)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want %v", cfg.LLM.Timeout, 45*time.Second)
	}
	if cfg.Paths.Input != "/srv/input" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "/srv/input")
	}
	if cfg.Chunking.ShouldPreserveContext() {
		t.Error("ShouldPreserveContext() = true, want false")
	}
	if cfg.Chunking.MaxTokensPerChunk != 2000 {
		t.Errorf("MaxTokensPerChunk = %v, want %v", cfg.Chunking.MaxTokensPerChunk, 2000)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestValidateMedia(t *testing.T) {
	cfg := Config{
		Media: MediaConfig{Enabled: true},
		Paths: PathsConfig{Input: "in", Output: "out"},
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "media.whisper_binary is required") {
		t.Errorf("Validate() error = %v, want media.whisper_binary is required", err)
	}

	cfg.Media.WhisperBinary = "./whisper-cli"
	cfg.Media.ModelPath = "models/ggml-base.bin"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.Media.FFmpegBinary != "ffmpeg" || cfg.Media.Language != "en" {
		t.Errorf("media defaults = %+v", cfg.Media)
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Server      ServerConfig      `yaml:"server"`
	Export      ExportConfig      `yaml:"export"`
	Media       MediaConfig       `yaml:"media"`
}

type LLMConfig struct {
	Provider   string        `yaml:"provider" validate:"required,oneof=gemini openai extractive"`
	Model      string        `yaml:"model"`
	Language   string        `yaml:"language"`
	APIKeys    []string      `yaml:"api_keys"`
	BaseURL    string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxRetries int           `yaml:"max_retries" validate:"gte=0,lte=10"`
}

type ChunkingConfig struct {
	Strategy          string  `yaml:"strategy" validate:"omitempty,oneof=speaker time semantic hybrid"`
	MaxTokensPerChunk int     `yaml:"max_tokens_per_chunk" validate:"gte=0"`
	PreserveContext   *bool   `yaml:"preserve_context"`
	SafetyMargin      float64 `yaml:"safety_margin" validate:"gte=0,lte=1"`
}

type PathsConfig struct {
	Input    string `yaml:"input" validate:"required"`
	Output   string `yaml:"output" validate:"required"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text console json"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" validate:"gte=0"`
}

type ExportConfig struct {
	Formats []string `yaml:"formats" validate:"dive,oneof=md json docx"`
}

// MediaConfig enables audio/video input through ffmpeg and whisper.cpp.
type MediaConfig struct {
	Enabled       bool   `yaml:"enabled"`
	FFmpegBinary  string `yaml:"ffmpeg_binary"`
	WhisperBinary string `yaml:"whisper_binary" validate:"required_if=Enabled true"`
	ModelPath     string `yaml:"model_path" validate:"required_if=Enabled true"`
	Language      string `yaml:"language"`
	Prompt        string `yaml:"prompt"`
	Threads       int    `yaml:"threads" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode" validate:"omitempty,oneof=debug release test"`
}

// ShouldPreserveContext reports whether chunk overlap is enabled. Unset means on.
func (c ChunkingConfig) ShouldPreserveContext() bool {
	return c.PreserveContext == nil || *c.PreserveContext
}

// Environment variables consulted when llm.api_keys is empty.
const (
	EnvGeminiKeys = "GEMINI_API_KEYS"
	EnvOpenAIKey  = "OPENAI_API_KEY"
)

// Load reads a YAML config file. A .env file next to it is loaded first and
// ${VAR} references in the YAML are expanded from the environment.
func Load(path string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if len(c.LLM.APIKeys) > 0 {
		return
	}
	var raw string
	switch c.LLM.Provider {
	case "gemini":
		raw = os.Getenv(EnvGeminiKeys)
	case "openai":
		raw = os.Getenv(EnvOpenAIKey)
	}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			c.LLM.APIKeys = append(c.LLM.APIKeys, k)
		}
	}
}

// Validate fills defaults and checks the result.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "extractive"
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.Model = "gemini-2.5-flash"
		case "openai":
			c.LLM.Model = "gpt-4o-mini"
		}
	}
	if c.LLM.Language == "" {
		c.LLM.Language = "en"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 2 * time.Minute
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.Chunking.SafetyMargin == 0 {
		c.Chunking.SafetyMargin = 0.8
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"md", "json", "docx"}
	}
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = "ffmpeg"
	}
	if c.Media.Language == "" {
		c.Media.Language = c.LLM.Language
	}
	if c.Media.Threads == 0 {
		c.Media.Threads = 8
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}

	if err := validate.Struct(c); err != nil {
		return describe(err)
	}
	if c.LLM.Provider != "extractive" && len(c.LLM.APIKeys) == 0 {
		return fmt.Errorf("llm.api_keys is required for provider %s", c.LLM.Provider)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// describe turns validator errors into "llm.provider must be one of ..." form.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		// Namespace is "Config.llm.provider".
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch e.Tag() {
		case "required", "required_if":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+e.Param())
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, e.Tag(), e.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

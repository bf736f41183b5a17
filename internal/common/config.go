package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	LLM         LLMConfig      `toml:"llm"`
	Fetcher     FetcherConfig  `toml:"fetcher"`
	Indexing    IndexingConfig `toml:"indexing"`
	Answer      AnswerConfig   `toml:"answer"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMProvider selects the generation engine backend
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains generation-engine and embedding configuration
type LLMConfig struct {
	Provider        LLMProvider `toml:"provider"`          // "gemini" or "claude"
	GoogleAPIKey    string      `toml:"google_api_key"`    // Required (embeddings always use Gemini)
	AnthropicAPIKey string      `toml:"anthropic_api_key"` // Required when provider = "claude"
	ChatModelName   string      `toml:"chat_model"`
	EmbedModelName  string      `toml:"embed_model"`
	EmbedDimension  int         `toml:"embed_dimension"`
	Temperature     float32     `toml:"temperature"`
	MaxTokens       int         `toml:"max_tokens"`
	Timeout         string      `toml:"timeout"`          // e.g. "30s"
	RequestsPerMin  int         `toml:"requests_per_min"` // Rate limit on generation calls (0 = unlimited)
}

// FetcherConfig contains web content acquisition configuration
type FetcherConfig struct {
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
	UserAgent      string        `toml:"user_agent"`
	MaxBodySize    int64         `toml:"max_body_size"` // Response body cap in bytes
}

// IndexingConfig contains chunking and background indexing configuration
type IndexingConfig struct {
	ChunkSize     int `toml:"chunk_size"`     // Target tokens per chunk
	ChunkOverlap  int `toml:"chunk_overlap"`  // Tokens shared between consecutive chunks
	MinChunkSize  int `toml:"min_chunk_size"` // Trailing fragments below this merge into the prior chunk
	MaxInputSize  int `toml:"max_input_size"` // Hard cap on tokens per source
	Workers       int `toml:"workers"`        // Background indexing worker count
	QueueCapacity int `toml:"queue_capacity"` // Pending indexing task buffer
}

// AnswerConfig contains grounded-answer generation configuration
type AnswerConfig struct {
	TopK                 int  `toml:"top_k"`                  // Documents retrieved per question
	EnforceJSONCitations bool `toml:"enforce_json_citations"` // Strict citation list in model output
	MaxSummarySentences  int  `toml:"max_summary_sentences"`
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/escruta",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		LLM: LLMConfig{
			Provider:       LLMProviderGemini,
			ChatModelName:  "gemini-2.0-flash",
			EmbedModelName: "gemini-embedding-001",
			EmbedDimension: 768,
			Temperature:    0.2,
			MaxTokens:      8192,
			Timeout:        "30s",
			RequestsPerMin: 60,
		},
		Fetcher: FetcherConfig{
			RequestTimeout: 10 * time.Second,
			UserAgent:      "escruta/1.0",
			MaxBodySize:    10 * 1024 * 1024,
		},
		Indexing: IndexingConfig{
			ChunkSize:     500,
			ChunkOverlap:  100,
			MinChunkSize:  5,
			MaxInputSize:  10000,
			Workers:       2,
			QueueCapacity: 64,
		},
		Answer: AnswerConfig{
			TopK:                 4,
			EnforceJSONCitations: true,
			MaxSummarySentences:  3,
		},
	}
}

// LoadFromFile loads configuration from a TOML file, layered over defaults,
// followed by environment variable overrides.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies ESCRUTA_* environment variables over file config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ESCRUTA_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("ESCRUTA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("ESCRUTA_STORAGE_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("ESCRUTA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("ESCRUTA_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = LLMProvider(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.LLM.GoogleAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.LLM.AnthropicAPIKey = v
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration consistency before startup
func (c *Config) Validate() error {
	if c.LLM.Provider != LLMProviderGemini && c.LLM.Provider != LLMProviderClaude {
		return fmt.Errorf("invalid llm provider '%s': must be 'gemini' or 'claude'", c.LLM.Provider)
	}
	if c.Indexing.ChunkOverlap >= c.Indexing.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.Indexing.ChunkOverlap, c.Indexing.ChunkSize)
	}
	if c.Answer.TopK <= 0 {
		return fmt.Errorf("answer top_k must be positive")
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Package config loads pipeline configuration from a TOML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultIndexName    = "financial-rag"
	DefaultChunkMaxSize = 1000
	DefaultChunkOverlap = 0
	DefaultBatchSize    = 100
	DefaultTopK         = 5
	DefaultDimensions   = 384
)

// Config is the top-level pipeline configuration.
type Config struct {
	// DataDir is where the chunk store keeps its database.
	// Empty means ~/.finrag/data.
	DataDir string `toml:"data_dir"`

	// IndexName identifies the vector index.
	IndexName string `toml:"index_name"`

	Chunking  Chunking  `toml:"chunking"`
	Embedding Embedding `toml:"embedding"`
	Retrieval Retrieval `toml:"retrieval"`
	LLM       LLM       `toml:"llm"`
}

// Chunking controls how page content is split.
type Chunking struct {
	// MaxSize is the maximum chunk size in characters.
	MaxSize int `toml:"max_size"`

	// Overlap is the number of trailing characters repeated at the
	// start of the next chunk.
	Overlap int `toml:"overlap"`
}

// Embedding selects and configures the embedding provider.
type Embedding struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the embedding model name. Empty uses the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Dimensions is the embedding vector size.
	Dimensions int `toml:"dimensions"`

	// BatchSize is the number of texts embedded per batch.
	BatchSize int `toml:"batch_size"`

	// APIKey is never read from the file; it comes from the
	// OPENAI_API_KEY environment variable.
	APIKey string `toml:"-"`
}

// Retrieval controls query-time behaviour.
type Retrieval struct {
	// TopK is the default number of chunks returned per query.
	TopK int `toml:"top_k"`
}

// LLM selects and configures the answering model.
type LLM struct {
	// Enabled turns answer generation on. Ingest and retrieval work
	// without it.
	Enabled bool `toml:"enabled"`

	// Model is the LLM model name. Empty uses the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the Ollama endpoint.
	BaseURL string `toml:"base_url"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		IndexName: DefaultIndexName,
		Chunking: Chunking{
			MaxSize: DefaultChunkMaxSize,
			Overlap: DefaultChunkOverlap,
		},
		Embedding: Embedding{
			Provider:   "ollama",
			Dimensions: DefaultDimensions,
			BatchSize:  DefaultBatchSize,
		},
		Retrieval: Retrieval{
			TopK: DefaultTopK,
		},
	}
}

// Load reads configuration from path. If path is empty it falls back
// to ~/.finrag/config.toml; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".finrag", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyDefaults restores defaults for fields the file zeroed out or
// omitted.
func (c *Config) applyDefaults() {
	if c.IndexName == "" {
		c.IndexName = DefaultIndexName
	}
	if c.Chunking.MaxSize <= 0 {
		c.Chunking.MaxSize = DefaultChunkMaxSize
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = DefaultChunkOverlap
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = DefaultDimensions
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = DefaultBatchSize
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = DefaultTopK
	}
}

// applyEnv pulls secrets from the environment.
func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Embedding.APIKey = key
	}
}

// validate rejects values the pipeline cannot work with.
func (c *Config) validate() error {
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Chunking.Overlap >= c.Chunking.MaxSize {
		return fmt.Errorf("chunk overlap %d must be smaller than max size %d",
			c.Chunking.Overlap, c.Chunking.MaxSize)
	}
	return nil
}

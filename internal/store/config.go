package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir string `yaml:"data_dir"`
	Market  string `yaml:"market"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, GROQ, XAI, QWEN, CLAUDE, NOOP
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	Summary struct {
		Provider    string `yaml:"provider"` // empty: reuse llm.provider
		Model       string `yaml:"model"`    // empty: reuse llm.model
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"summary"`

	Embedding struct {
		Provider string `yaml:"provider"` // OPENAI or JINA
		Model    string `yaml:"model"`
	} `yaml:"embedding"`

	Cache struct {
		Dir                string  `yaml:"dir"` // empty: <data_dir>/rag_store
		RelevanceThreshold float64 `yaml:"relevance_threshold"`
	} `yaml:"cache"`

	News struct {
		Fetcher          string   `yaml:"fetcher"` // RSS or REMOTE
		RemoteURL        string   `yaml:"remote_url"`
		Languages        []string `yaml:"languages"`
		Limit            int      `yaml:"limit"`
		ExpansionPerLang int      `yaml:"expansion_per_lang"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "OPENAI", "GROQ", "XAI", "QWEN", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("invalid llm.provider '%s'", c.LLM.Provider)
	}
	switch c.Embedding.Provider {
	case "OPENAI", "JINA":
	default:
		return fmt.Errorf("invalid embedding.provider '%s'", c.Embedding.Provider)
	}
	if c.Market != "US" && c.Market != "JP" {
		return fmt.Errorf("invalid market '%s': must be 'US' or 'JP'", c.Market)
	}
	if c.Cache.RelevanceThreshold < 0 || c.Cache.RelevanceThreshold > 1 {
		return fmt.Errorf("cache.relevance_threshold must be in [0,1], got %.2f", c.Cache.RelevanceThreshold)
	}
	if c.News.Fetcher != "RSS" && c.News.Fetcher != "REMOTE" {
		return fmt.Errorf("news.fetcher must be 'RSS' or 'REMOTE', got '%s'", c.News.Fetcher)
	}
	if c.News.Fetcher == "REMOTE" && c.News.RemoteURL == "" {
		return fmt.Errorf("news.remote_url required when news.fetcher is REMOTE")
	}
	if c.Summary.Concurrency <= 0 {
		return fmt.Errorf("summary.concurrency must be positive, got %d", c.Summary.Concurrency)
	}
	return nil
}

// SummaryProvider resolves the summarization provider, falling back to the
// chat provider when unset.
func (c *Config) SummaryProvider() string {
	if c.Summary.Provider != "" {
		return c.Summary.Provider
	}
	return c.LLM.Provider
}

// SummaryModel resolves the summarization model, falling back to the chat
// model when unset.
func (c *Config) SummaryModel() string {
	if c.Summary.Model != "" {
		return c.Summary.Model
	}
	return c.LLM.Model
}

// CacheDir resolves the semantic cache directory, defaulting under DataDir.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(c.DataDir, "rag_store")
}

func applyDefaults(c *Config) {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Market == "" {
		c.Market = "US"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "OPENAI"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.Summary.Concurrency == 0 {
		c.Summary.Concurrency = 6
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "OPENAI"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Cache.RelevanceThreshold == 0 {
		c.Cache.RelevanceThreshold = 0.62
	}
	if c.News.Fetcher == "" {
		c.News.Fetcher = "RSS"
	}
	if len(c.News.Languages) == 0 {
		c.News.Languages = []string{"zh", "ja", "en"}
	}
	if c.News.Limit == 0 {
		c.News.Limit = 10
	}
	if c.News.ExpansionPerLang == 0 {
		c.News.ExpansionPerLang = 8
	}
}

// LoadConfig reads the yaml config at path. A missing file is not an error:
// the built-in defaults describe a complete working setup.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Engine   EngineConfig   `yaml:"engine"`
	Index    IndexConfig    `yaml:"index"`
	Postgres PostgresConfig `yaml:"postgres"`
	Queue    QueueConfig    `yaml:"queue"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LLMConfig contains settings for the OpenAI-compatible provider.
type LLMConfig struct {
	APIKey          string  `yaml:"apiKey"`
	BaseURL         string  `yaml:"baseUrl"`
	Model           string  `yaml:"model"`
	EmbeddingModel  string  `yaml:"embeddingModel"`
	Temperature     float32 `yaml:"temperature"`
	MaxPromptTokens int     `yaml:"maxPromptTokens"`
}

// EngineConfig holds the duplicate-resolution thresholds.
type EngineConfig struct {
	ConfidenceThreshold  float64 `yaml:"confidenceThreshold"`
	SimilarityThreshold  float64 `yaml:"similarityThreshold"`
	EnhancementThreshold float64 `yaml:"enhancementThreshold"`
	MaxFAQsPerDocument   int     `yaml:"maxFaqsPerDocument"`
	DuplicateTopK        int     `yaml:"duplicateTopK"`
	MinSearchScore       float64 `yaml:"minSearchScore"`
	AlwaysCreate         bool    `yaml:"alwaysCreate"`
}

// IndexConfig describes the vector index.
type IndexConfig struct {
	Table             string        `yaml:"table"`
	Dimension         int           `yaml:"dimension"`
	Capacity          int64         `yaml:"capacity"`
	ReadinessAttempts int           `yaml:"readinessAttempts"`
	ReadinessInterval time.Duration `yaml:"readinessInterval"`
	RetryAttempts     int           `yaml:"retryAttempts"`
	RetryBaseDelay    time.Duration `yaml:"retryBaseDelay"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// QueueConfig contains connection information for the job queue.
type QueueConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Key     string `yaml:"key"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		LLM: LLMConfig{
			Model:           "gpt-4o-mini",
			EmbeddingModel:  "text-embedding-3-small",
			Temperature:     0.2,
			MaxPromptTokens: 6000,
		},
		Engine: EngineConfig{
			ConfidenceThreshold:  0.8,
			SimilarityThreshold:  0.85,
			EnhancementThreshold: 0.9,
			MaxFAQsPerDocument:   20,
			DuplicateTopK:        10,
			MinSearchScore:       0.5,
		},
		Index: IndexConfig{
			Table:             "faq_embeddings",
			Dimension:         768,
			Capacity:          1_000_000,
			ReadinessAttempts: 10,
			ReadinessInterval: 2 * time.Second,
			RetryAttempts:     3,
			RetryBaseDelay:    time.Second,
		},
		Queue: QueueConfig{
			Key: "faqgen:jobs",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Queue.Enabled = true
		cfg.Queue.Addr = v
	}
	if v := os.Getenv("FAQ_ALWAYS_CREATE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.AlwaysCreate = parsed
		}
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Address) == "" {
		return errors.New("http address cannot be empty")
	}
	if c.Index.Dimension <= 0 {
		return errors.New("index dimension must be positive")
	}
	for name, v := range map[string]float64{
		"confidenceThreshold":  c.Engine.ConfidenceThreshold,
		"similarityThreshold":  c.Engine.SimilarityThreshold,
		"enhancementThreshold": c.Engine.EnhancementThreshold,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("engine %s must be in (0, 1]", name)
		}
	}
	if c.Engine.EnhancementThreshold < c.Engine.SimilarityThreshold {
		return errors.New("enhancementThreshold cannot be below similarityThreshold")
	}
	if c.Engine.MaxFAQsPerDocument <= 0 {
		return errors.New("maxFaqsPerDocument must be positive")
	}
	if c.Queue.Enabled && strings.TrimSpace(c.Queue.Addr) == "" {
		return errors.New("queue enabled without an address")
	}
	return nil
}

// Package config loads the application configuration from YAML, applying
// defaults for everything left unset. Secrets (API keys, passwords) are
// never stored in the file; the config names the environment variables they
// are read from.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// AIConfig configures the OpenAI-compatible embedding and chat services.
type AIConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	ChatHost       string `yaml:"chat_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
}

// Neo4jConfig contains connection details for the graph database.
type Neo4jConfig struct {
	URI         string `yaml:"uri"`
	User        string `yaml:"user"`
	PasswordEnv string `yaml:"password_env"`
	Database    string `yaml:"database"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxPoolSize int    `yaml:"max_pool_size"`
}

// RetrievalConfig tunes the hybrid retrieval behavior.
type RetrievalConfig struct {
	TopK          int     `yaml:"top_k"`
	FillLimit     int     `yaml:"fill_limit"`
	MinSimilarity float32 `yaml:"min_similarity"`
	FewShot       int     `yaml:"few_shot"`
	TimeoutSecs   int     `yaml:"timeout_secs"`
}

// ConfidenceConfig tunes the confidence scoring weights.
type ConfidenceConfig struct {
	Alpha      float64 `yaml:"alpha"`
	Beta       float64 `yaml:"beta"`
	Gamma      float64 `yaml:"gamma"`
	DefaultHop int     `yaml:"default_hop"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DBPath     string           `yaml:"db_path"`
	AI         AIConfig         `yaml:"ai"`
	Neo4j      Neo4jConfig      `yaml:"neo4j"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Confidence ConfidenceConfig `yaml:"confidence"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// APIKey resolves the AI service API key from the configured environment
// variable.
func (c *AppConfig) APIKey() string {
	return os.Getenv(c.AI.APIKeyEnv)
}

// Neo4jPassword resolves the graph database password from the configured
// environment variable.
func (c *AppConfig) Neo4jPassword() string {
	return os.Getenv(c.Neo4j.PasswordEnv)
}

func applyDefaults(cfg *AppConfig) {
	if cfg.DBPath == "" {
		cfg.DBPath = "domus.db"
	}

	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = "https://api.openai.com/v1"
	}
	if cfg.AI.ChatHost == "" {
		cfg.AI.ChatHost = "https://api.openai.com/v1"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o-mini"
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = "OPENAI_API_KEY"
	}

	if cfg.Neo4j.User == "" {
		cfg.Neo4j.User = "neo4j"
	}
	if cfg.Neo4j.PasswordEnv == "" {
		cfg.Neo4j.PasswordEnv = "NEO4J_PASSWORD"
	}
	if cfg.Neo4j.TimeoutSecs == 0 {
		cfg.Neo4j.TimeoutSecs = 10
	}
	if cfg.Neo4j.MaxPoolSize == 0 {
		cfg.Neo4j.MaxPoolSize = 50
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Retrieval.FillLimit == 0 {
		cfg.Retrieval.FillLimit = 3
	}
	if cfg.Retrieval.FewShot == 0 {
		cfg.Retrieval.FewShot = 3
	}
	if cfg.Retrieval.TimeoutSecs == 0 {
		cfg.Retrieval.TimeoutSecs = 30
	}

	if cfg.Confidence.Alpha == 0 {
		cfg.Confidence.Alpha = 0.6
	}
	if cfg.Confidence.Beta == 0 {
		cfg.Confidence.Beta = 0.3
	}
	if cfg.Confidence.Gamma == 0 {
		cfg.Confidence.Gamma = 0.1
	}
	if cfg.Confidence.DefaultHop == 0 {
		cfg.Confidence.DefaultHop = 2
	}
}

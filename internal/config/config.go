// Package config handles configuration loading for Conversa.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"     yaml:"data"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	Articles ArticlesConfig `mapstructure:"articles" yaml:"articles"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// DataConfig holds the dataset location.
type DataConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// AnalysisConfig holds pipeline tuning knobs.
type AnalysisConfig struct {
	Workers         int `mapstructure:"workers"           yaml:"workers"`           // bounded pool for heavy stages
	ScoreTimeoutSec int `mapstructure:"score_timeout_sec" yaml:"score_timeout_sec"` // model-backed scoring budget
	MaxScoreChars   int `mapstructure:"max_score_chars"   yaml:"max_score_chars"`   // truncate text before scoring
}

// LLMConfig holds model provider configuration. All fields optional;
// with no provider configured the pipeline runs on the lexicon scorer.
type LLMConfig struct {
	Primary     string  `mapstructure:"primary"      yaml:"primary"` // "openai" or "ollama"
	OpenAIKey   string  `mapstructure:"openai_key"   yaml:"openai_key"`
	OpenAIModel string  `mapstructure:"openai_model" yaml:"openai_model"`
	OllamaURL   string  `mapstructure:"ollama_url"   yaml:"ollama_url"`
	OllamaModel string  `mapstructure:"ollama_model" yaml:"ollama_model"`
	Temperature float64 `mapstructure:"temperature"  yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"   yaml:"max_tokens"`
}

// ArticlesConfig holds optional source-article enrichment settings.
type ArticlesConfig struct {
	FetchTitles bool   `mapstructure:"fetch_titles" yaml:"fetch_titles"` // resolve page titles via HTTP
	FeedURL     string `mapstructure:"feed_url"     yaml:"feed_url"`     // publication RSS feed for narration context
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	Token       string   `mapstructure:"token"        yaml:"token"` // bearer token; empty disables auth
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.conversa/config.yaml (home directory)
//  3. /etc/conversa/config.yaml (system)
//
// Environment variables override config file values.
// Format: CONVERSA_<SECTION>_<KEY>, e.g., CONVERSA_LLM_OPENAI_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".conversa"))
	v.AddConfigPath("/etc/conversa")

	v.SetEnvPrefix("CONVERSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("CONVERSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.path", "data/transcripts.json")

	// Analysis defaults
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.score_timeout_sec", 20)
	v.SetDefault("analysis.max_score_chars", 1200)

	// LLM defaults
	v.SetDefault("llm.primary", "openai")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.ollama_url", "http://localhost:11434")
	v.SetDefault("llm.ollama_model", "llama3.1:8b")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 512)

	// Articles defaults
	v.SetDefault("articles.fetch_titles", false)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("CONVERSA_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if tok := os.Getenv("CONVERSA_API_TOKEN"); tok != "" {
		cfg.API.Token = tok
	}
}

// homeDir returns the user's home directory, or "." on failure.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

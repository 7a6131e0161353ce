// Package config loads the askdex configuration from YAML files selected by
// the ENV variable, with ${VAR} environment expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/askdex/internal/domain/warehouse"
)

// Config holds the askdex service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Fragments  FragmentsConfig  `yaml:"fragments"`
	Warehouse  WarehouseConfig  `yaml:"warehouse"`
	Completion CompletionConfig `yaml:"completion"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Relationships enrich the SQL-generation prompt; never validated
	// against the live schema.
	Relationships []warehouse.Relationship `yaml:"relationships"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// FragmentsConfig holds fragment-store connection settings.
type FragmentsConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Index            string   `yaml:"index"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// WarehouseConfig holds structured-warehouse settings.
type WarehouseConfig struct {
	Driver string   `yaml:"driver"` // sqlite3 (default)
	DSN    string   `yaml:"dsn"`
	Tables []string `yaml:"tables"`
}

// CompletionConfig holds text-generation provider settings.
//
// The API key is required; there is no embedded default and startup fails
// hard without it.
type CompletionConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// Ordered model preference lists. The first model that returns a
	// non-empty response wins; order encodes availability preference.
	RouterModels []string `yaml:"router_models"`
	SQLModels    []string `yaml:"sql_models"`
	AnswerModels []string `yaml:"answer_models"`

	// Embedding settings for the fragment store client.
	EmbeddingModel      string `yaml:"embedding_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions"`
}

// RetrievalConfig holds document retrieval settings.
type RetrievalConfig struct {
	DefaultK int `yaml:"default_k"`
	MaxK     int `yaml:"max_k"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Completion calls dominate request latency; allow for slow models.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Fragments.Index == "" {
		c.Fragments.Index = "askdex:fragments:idx"
	}
	if c.Fragments.ReadinessTimeout <= 0 {
		c.Fragments.ReadinessTimeout = 10
	}
	if c.Warehouse.Driver == "" {
		c.Warehouse.Driver = "sqlite3"
	}
	if len(c.Warehouse.Tables) == 0 {
		c.Warehouse.Tables = []string{"ORDERS", "CUSTOMERS", "ORDER_ITEMS", "PRODUCTS", "PAYMENTS"}
	}
	if len(c.Completion.RouterModels) == 0 {
		c.Completion.RouterModels = []string{"gpt-4"}
	}
	if len(c.Completion.SQLModels) == 0 {
		c.Completion.SQLModels = []string{"llama3-8b", "mistral-7b", "snowflake-arctic"}
	}
	if len(c.Completion.AnswerModels) == 0 {
		c.Completion.AnswerModels = []string{"llama3-8b", "mistral-7b", "mixtral-8x7b", "snowflake-arctic"}
	}
	if c.Completion.EmbeddingModel == "" {
		c.Completion.EmbeddingModel = "e5-base-v2"
	}
	if c.Completion.EmbeddingDimensions <= 0 {
		c.Completion.EmbeddingDimensions = 768
	}
	if c.Retrieval.DefaultK <= 0 {
		c.Retrieval.DefaultK = 5
	}
	if c.Retrieval.MaxK <= 0 {
		c.Retrieval.MaxK = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Fragments.Addrs) == 0 {
		return fmt.Errorf("fragments.addrs is required")
	}
	if c.Warehouse.DSN == "" {
		return fmt.Errorf("warehouse.dsn is required")
	}
	if c.Completion.APIKey == "" {
		return fmt.Errorf("completion.api_key is required")
	}
	if c.Retrieval.DefaultK > c.Retrieval.MaxK {
		return fmt.Errorf("retrieval.default_k (%d) must not exceed retrieval.max_k (%d)",
			c.Retrieval.DefaultK, c.Retrieval.MaxK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gallerydex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Auth    AuthConfig    `yaml:"auth"`
	Search  SearchConfig  `yaml:"search"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Cache   CacheConfig   `yaml:"cache"`
	Widener WidenerConfig `yaml:"widener"`
	MCP     MCPConfig     `yaml:"mcp"`
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

// SearchConfig holds ranking settings.
type SearchConfig struct {
	SynonymsFile string `yaml:"synonyms_file"` // merged over the built-in table
}

// CorpusConfig holds corpus provider settings.
type CorpusConfig struct {
	CMS             *CMSSourceConfig  `yaml:"cms"`
	File            *FileSourceConfig `yaml:"file"`
	Order           []string          `yaml:"order"` // source names, merge priority first
	TTLSec          int               `yaml:"ttl_sec"`
	FetchTimeoutSec int               `yaml:"fetch_timeout_sec"`
	PoolSize        int               `yaml:"pool_size"`
}

// CMSSourceConfig holds headless CMS settings.
type CMSSourceConfig struct {
	BaseURL    string `yaml:"base_url"`
	Collection string `yaml:"collection"`
	Token      string `yaml:"token"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// FileSourceConfig holds local corpus file settings.
type FileSourceConfig struct {
	Path       string `yaml:"path"`
	Watch      bool   `yaml:"watch"`
	DebounceMs int    `yaml:"debounce_ms"`
}

// CacheConfig holds the shared corpus snapshot settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none, redis (default: none)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// WidenerConfig holds LLM query widening settings.
type WidenerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	MaxTerms int    `yaml:"max_terms"`
}

// MCPConfig holds agent tool endpoint settings.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Source names accepted in corpus.order.
const (
	SourceCMS  = "cms"
	SourceFile = "file"
)

// Cache drivers.
const (
	CacheNone  = "none"
	CacheRedis = "redis"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.TTLSec <= 0 {
		c.Corpus.TTLSec = 300
	}
	if c.Corpus.FetchTimeoutSec <= 0 {
		c.Corpus.FetchTimeoutSec = 10
	}
	if c.Corpus.PoolSize <= 0 {
		c.Corpus.PoolSize = 4
	}
	if len(c.Corpus.Order) == 0 {
		if c.Corpus.CMS != nil {
			c.Corpus.Order = append(c.Corpus.Order, SourceCMS)
		}
		if c.Corpus.File != nil {
			c.Corpus.Order = append(c.Corpus.Order, SourceFile)
		}
	}
	if c.Corpus.CMS != nil && c.Corpus.CMS.TimeoutSec <= 0 {
		c.Corpus.CMS.TimeoutSec = 10
	}
	if c.Corpus.File != nil && c.Corpus.File.DebounceMs <= 0 {
		c.Corpus.File.DebounceMs = 250
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "gallerydex:"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = c.Corpus.TTLSec
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Widener.Model == "" {
		c.Widener.Model = "gpt-4o-mini"
	}
	if c.Widener.MaxTerms <= 0 {
		c.Widener.MaxTerms = 8
	}
	if c.MCP.Path == "" {
		c.MCP.Path = "/mcp"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Corpus.CMS == nil && c.Corpus.File == nil {
		return fmt.Errorf("corpus: at least one of cms or file is required")
	}
	if c.Corpus.CMS != nil && (c.Corpus.CMS.BaseURL == "" || c.Corpus.CMS.Collection == "") {
		return fmt.Errorf("corpus.cms: base_url and collection are required")
	}
	if c.Corpus.File != nil && c.Corpus.File.Path == "" {
		return fmt.Errorf("corpus.file.path is required")
	}
	seen := make(map[string]bool, len(c.Corpus.Order))
	for _, name := range c.Corpus.Order {
		switch {
		case name == SourceCMS && c.Corpus.CMS != nil, name == SourceFile && c.Corpus.File != nil:
		default:
			return fmt.Errorf("corpus.order: unknown or unconfigured source %q", name)
		}
		if seen[name] {
			return fmt.Errorf("corpus.order: duplicate source %q", name)
		}
		seen[name] = true
	}
	switch c.Cache.Driver {
	case CacheNone:
	case CacheRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", CacheRedis)
		}
	default:
		return fmt.Errorf("cache.driver must be %q or %q, got %q", CacheNone, CacheRedis, c.Cache.Driver)
	}
	if c.Widener.Enabled && c.Widener.APIKey == "" {
		return fmt.Errorf("widener.api_key is required when widener is enabled")
	}
	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		return fmt.Errorf("mcp.path must start with /, got %q", c.MCP.Path)
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

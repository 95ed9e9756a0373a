package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTradeverifyEnv             = "TRADEVERIFY_ENV"
	EnvTradeverifyConfig          = "TRADEVERIFY_CONFIG"
	EnvTradeverifyShutdownTimeout = "TRADEVERIFY_SHUTDOWN_TIMEOUT"
	EnvTradeverifyLogLevel        = "TRADEVERIFY_LOG_LEVEL"
	EnvTradeverifyLogFormat       = "TRADEVERIFY_LOG_FORMAT"
)

// Config is the root configuration for the tradeverify server, CLI and MCP server.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Redis           RedisConfig     `toml:"redis"`
	Cache           CacheConfig     `toml:"cache"`
	Sources         SourcesConfig   `toml:"sources"`
	Gazetteer       GazetteerConfig `toml:"gazetteer"`
	Policy          PolicyConfig    `toml:"policy"`
	Batch           BatchConfig     `toml:"batch"`
	RateLimit       RateLimitConfig `toml:"ratelimit"`
	Audit           AuditConfig     `toml:"audit"`
	LogLevel        string          `toml:"log_level"`
	LogFormat       string          `toml:"log_format"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
}

// Env returns the TRADEVERIFY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTradeverifyEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Without a config file, defaults and environment
// variables provide everything.
func Load() (*Config, error) {
	return LoadFile(baseConfigPath())
}

// LoadFile is Load with an explicit base file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if overlay := overlayPath(); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		c.LogFormat = overlay.LogFormat
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	c.Server.Merge(&overlay.Server)
	c.Redis.Merge(&overlay.Redis)
	c.Cache.Merge(&overlay.Cache)
	c.Sources.Merge(&overlay.Sources)
	c.Gazetteer.Merge(&overlay.Gazetteer)
	c.Policy.Merge(&overlay.Policy)
	c.Batch.Merge(&overlay.Batch)
	c.RateLimit.Merge(&overlay.RateLimit)
	c.Audit.Merge(&overlay.Audit)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Redis.Finalize(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Cache.Finalize(c.Redis.URL != ""); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Sources.Finalize(); err != nil {
		return fmt.Errorf("sources: %w", err)
	}
	c.Gazetteer.Finalize()
	c.Policy.Finalize()
	if err := c.Batch.Finalize(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.RateLimit.Finalize(); err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}
	if err := c.Audit.Finalize(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *Config) loadEnv() {
	setString(&c.LogLevel, EnvTradeverifyLogLevel)
	setString(&c.LogFormat, EnvTradeverifyLogFormat)
	setString(&c.ShutdownTimeout, EnvTradeverifyShutdownTimeout)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func baseConfigPath() string {
	if p := os.Getenv(EnvTradeverifyConfig); p != "" {
		return p
	}
	return BaseConfigFile
}

func overlayPath() string {
	if env := os.Getenv(EnvTradeverifyEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	GBIG    GBIGConfig    `yaml:"gbig" mapstructure:"gbig"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GBIGConfig configures the upstream certification database.
type GBIGConfig struct {
	BaseURL              string `yaml:"base_url" mapstructure:"base_url"`
	SearchPath           string `yaml:"search_path" mapstructure:"search_path"`
	ProgramFilter        string `yaml:"program_filter" mapstructure:"program_filter"`
	TimeoutSecs          int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent            string `yaml:"user_agent" mapstructure:"user_agent"`
	PlaceholderDelaySecs int    `yaml:"placeholder_delay_secs" mapstructure:"placeholder_delay_secs"`
}

// SearchURL returns the advanced search endpoint.
func (c GBIGConfig) SearchURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.SearchPath
}

// GeocodeConfig selects and configures the geocoding provider.
type GeocodeConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	MapQuestKey string  `yaml:"mapquest_key" mapstructure:"mapquest_key"`
	GoogleKey   string  `yaml:"google_key" mapstructure:"google_key"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// APIKey returns the key of the selected provider.
func (c GeocodeConfig) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case "mapquest":
		return c.MapQuestKey
	case "google":
		return c.GoogleKey
	default:
		return ""
	}
}

// ExportConfig configures record serialization.
type ExportConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`
	KeyStyle string `yaml:"key_style" mapstructure:"key_style"`
}

// BatchConfig configures batch extraction.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml (if present) and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path and environment. An empty path
// falls back to an optional config.yaml in the working directory; an
// explicit path must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("LEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("gbig.base_url", "http://www.gbig.org")
	v.SetDefault("gbig.search_path", "/search/advanced")
	v.SetDefault("gbig.program_filter", "Certification//37")
	v.SetDefault("gbig.timeout_secs", 30)
	v.SetDefault("gbig.user_agent", "")
	v.SetDefault("gbig.placeholder_delay_secs", 3)
	v.SetDefault("geocode.provider", "mapquest")
	v.SetDefault("geocode.mapquest_key", "")
	v.SetDefault("geocode.google_key", "")
	v.SetDefault("geocode.timeout_secs", 30)
	v.SetDefault("geocode.rate_limit", 0)
	v.SetDefault("export.format", "json")
	v.SetDefault("export.key_style", "title")
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("server.port", 8080)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings required by mode ("list", "extract" or
// "serve") and reports every problem at once.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "list":
	case "extract", "serve":
		errs = append(errs, c.validateGeocode()...)
		errs = append(errs, c.validateExport()...)
		if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 50 {
			errs = append(errs, fmt.Sprintf("batch.concurrency must be between 1 and 50, got %d", c.Batch.Concurrency))
		}
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.GBIG.BaseURL == "" {
		errs = append(errs, "gbig.base_url is required")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateGeocode() []string {
	provider := strings.ToLower(c.Geocode.Provider)
	switch provider {
	case "mapquest", "google":
		if c.Geocode.APIKey() == "" {
			return []string{fmt.Sprintf("geocode.%s_key is required", provider)}
		}
	case "none", "":
	default:
		return []string{fmt.Sprintf("unknown geocode.provider %q", c.Geocode.Provider)}
	}
	return nil
}

func (c *Config) validateExport() []string {
	var errs []string
	switch c.Export.Format {
	case "json", "jsonl", "yaml", "xlsx":
	default:
		errs = append(errs, fmt.Sprintf("unknown export.format %q", c.Export.Format))
	}
	switch c.Export.KeyStyle {
	case "title", "snake":
	default:
		errs = append(errs, fmt.Sprintf("unknown export.key_style %q", c.Export.KeyStyle))
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

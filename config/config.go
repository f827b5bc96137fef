package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Source kinds supported by the catalog loader
const (
	SourceJSON     = "json"
	SourceYAML     = "yaml"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Source SourceConfig `mapstructure:"source"`
	Images ImagesConfig `mapstructure:"images"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
	Chrome ChromeConfig `mapstructure:"chrome"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	BaseURL     string `mapstructure:"base_url"`
	Environment string `mapstructure:"environment"`
}

// SourceConfig describes where the product list is read from.
// An empty Kind is inferred from Path or URL.
type SourceConfig struct {
	Kind        string `mapstructure:"kind"`
	Path        string `mapstructure:"path"`
	URL         string `mapstructure:"url"`
	DatabaseURL string `mapstructure:"database_url"`
	Table       string `mapstructure:"table"`
}

// ImagesConfig holds image proxy configuration
type ImagesConfig struct {
	Proxy            bool   `mapstructure:"proxy"`
	CacheDir         string `mapstructure:"cache_dir"`
	LocalDir         string `mapstructure:"local_dir"`
	DriveCredentials string `mapstructure:"drive_credentials"`
}

// UIConfig holds host capabilities toggles for the catalog session
type UIConfig struct {
	Title           string `mapstructure:"title"`
	LazyLoad        bool   `mapstructure:"lazy_load"`
	ProximityMargin int    `mapstructure:"proximity_margin"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// ChromeConfig holds headless browser configuration for snapshots
type ChromeConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// VETRINA_SOURCE_PATH -> source.path
	v.SetEnvPrefix("VETRINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	// PORT is what hosting platforms inject
	_ = v.BindEnv("server.port", "VETRINA_SERVER_PORT", "PORT")

	// Config file is optional, env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Server.Port = strings.TrimPrefix(config.Server.Port, ":")
	if config.Source.Kind == "" {
		config.Source.Kind = inferSourceKind(config.Source)
	}
	if config.Server.BaseURL == "" {
		config.Server.BaseURL = "http://localhost:" + strings.TrimPrefix(config.Server.Port, ":")
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.environment", "development")

	v.SetDefault("source.kind", "")
	v.SetDefault("source.path", "products.json")
	v.SetDefault("source.url", "")
	v.SetDefault("source.database_url", "")
	v.SetDefault("source.table", "products")

	v.SetDefault("images.proxy", false)
	v.SetDefault("images.cache_dir", "cache/images")
	v.SetDefault("images.local_dir", ".")
	v.SetDefault("images.drive_credentials", "")

	v.SetDefault("ui.title", "Catalogo")
	v.SetDefault("ui.lazy_load", true)
	v.SetDefault("ui.proximity_margin", 50)

	v.SetDefault("log.development", false)

	v.SetDefault("chrome.path", "")
}

// inferSourceKind guesses the source kind from the configured location
func inferSourceKind(src SourceConfig) string {
	switch {
	case src.DatabaseURL != "":
		if strings.HasPrefix(src.DatabaseURL, "postgres://") || strings.HasPrefix(src.DatabaseURL, "postgresql://") {
			return SourcePostgres
		}
		return SourceSQLite
	case src.URL != "":
		return SourceHTTP
	}

	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".yaml", ".yml":
		return SourceYAML
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite
	default:
		return SourceJSON
	}
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Source.Kind {
	case SourceJSON, SourceYAML:
		if config.Source.Path == "" {
			return fmt.Errorf("source path is required for %s sources (set VETRINA_SOURCE_PATH)", config.Source.Kind)
		}
	case SourceHTTP:
		if config.Source.URL == "" {
			return fmt.Errorf("source url is required for http sources (set VETRINA_SOURCE_URL)")
		}
	case SourcePostgres:
		if config.Source.DatabaseURL == "" {
			return fmt.Errorf("database url is required for postgres sources (set VETRINA_SOURCE_DATABASE_URL)")
		}
	case SourceSQLite:
		if config.Source.DatabaseURL == "" && config.Source.Path == "" {
			return fmt.Errorf("database url or path is required for sqlite sources")
		}
	default:
		return fmt.Errorf("source kind must be one of json, yaml, http, postgres, sqlite, got: %s", config.Source.Kind)
	}

	if config.UI.ProximityMargin < 0 {
		return fmt.Errorf("proximity margin must not be negative, got: %d", config.UI.ProximityMargin)
	}

	if config.Images.Proxy && config.Images.CacheDir == "" {
		return fmt.Errorf("image cache dir is required when the image proxy is enabled")
	}

	return nil
}

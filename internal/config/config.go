package config

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8080")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" or empty for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Remote catalog configuration
 * @property {string} base_url - Base URL of the catalog API
 * @property {time.Duration} timeout - Per request timeout
 * @property {int} page_size - Default page size for locally paged lists
 * @property {int} window_size - Number of page links shown by the pager
 * @property {int} step - Pages moved by next/previous
 * @property {string} paging - "remote" (server pages via _cp) or "local" (client slices)
 */
type CatalogConfig struct {
	BaseUrl    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PageSize   int           `mapstructure:"page_size"`
	WindowSize int           `mapstructure:"window_size"`
	Step       int           `mapstructure:"step"`
	Paging     string        `mapstructure:"paging"`
}

// ProfileConfig selects how account availability is looked up ("post" or "get").
type ProfileConfig struct {
	LookupMethod string `mapstructure:"lookup_method"`
}

type DownloadsConfig struct {
	MapPath string `mapstructure:"map_path"`
}

/**
 * Visitor session configuration
 * @property {string} secret - HMAC secret used to sign session tokens
 * @property {time.Duration} ttl - Idle lifetime of a session
 * @property {string} cookie - Cookie name carrying the session token
 */
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Cookie string        `mapstructure:"cookie"`
}

type TemplateConfig struct {
	DefaultUser string `mapstructure:"default_user"`
}

const (
	PagingRemote = "remote"
	PagingLocal  = "local"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	Session   SessionConfig   `mapstructure:"session"`
	Template  TemplateConfig  `mapstructure:"template"`
}

var (
	Config AppConfig
	mu     sync.RWMutex
)

/**
 * Load application configuration from YAML file
 * @returns {*AppConfig} Loaded configuration with defaults applied
 * @returns {error} Error if the file exists but cannot be parsed
 * @description
 * - Looks for config.yaml in ".", "$HOME/.config/canvas" and "/etc/canvas"
 * - Environment variables prefixed with CANVAS_ override file values
 * - A missing file is not an error, defaults are used instead
 */
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/canvas")
	v.AddConfigPath("/etc/canvas")
	v.SetEnvPrefix("CANVAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return collectConfig(&cfg), nil
}

/**
 * Reload configuration from disk and replace the global config
 * @returns {error} Error if configuration cannot be loaded
 */
func ReloadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	mu.Lock()
	Config = *cfg
	mu.Unlock()
	return nil
}

// App returns a copy of the current global configuration.
func App() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return Config
}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	var cfg AppConfig
	return *collectConfig(&cfg)
}

// setDefaults registers every key so that CANVAS_* variables apply even without a config file.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("catalog.base_url", def.Catalog.BaseUrl)
	v.SetDefault("catalog.timeout", def.Catalog.Timeout)
	v.SetDefault("catalog.page_size", def.Catalog.PageSize)
	v.SetDefault("catalog.window_size", def.Catalog.WindowSize)
	v.SetDefault("catalog.step", def.Catalog.Step)
	v.SetDefault("catalog.paging", def.Catalog.Paging)
	v.SetDefault("profile.lookup_method", def.Profile.LookupMethod)
	v.SetDefault("downloads.map_path", def.Downloads.MapPath)
	v.SetDefault("session.secret", def.Session.Secret)
	v.SetDefault("session.ttl", def.Session.TTL)
	v.SetDefault("session.cookie", def.Session.Cookie)
	v.SetDefault("template.default_user", def.Template.DefaultUser)
}

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Catalog.BaseUrl == "" {
		cfg.Catalog.BaseUrl = "https://canvas.kororaproject.org"
	}
	if cfg.Catalog.Timeout <= 0 {
		cfg.Catalog.Timeout = 10 * time.Second
	}
	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = 100
	}
	if cfg.Catalog.WindowSize <= 0 {
		cfg.Catalog.WindowSize = 5
	}
	if cfg.Catalog.Step <= 0 {
		cfg.Catalog.Step = 5
	}
	if cfg.Catalog.Paging != PagingLocal {
		cfg.Catalog.Paging = PagingRemote
	}
	if cfg.Profile.LookupMethod != "get" {
		cfg.Profile.LookupMethod = "post"
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.Session.Cookie == "" {
		cfg.Session.Cookie = "canvas_session"
	}
	if cfg.Template.DefaultUser == "" {
		cfg.Template.DefaultUser = "firnsy"
	}
	return cfg
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	} else {
		Config = Default()
	}
}

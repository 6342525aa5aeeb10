// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Badges    BadgesConfig    `mapstructure:"badges"`
	Ratings   RatingsConfig   `mapstructure:"ratings"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	// OutputDir receives badged posters when no explicit destination is
	// given. Empty means "write next to the source poster".
	OutputDir string `mapstructure:"output_dir"`
}

type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CategoryConfig is the per-badge-category toggle and placement.
type CategoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Anchor  string `mapstructure:"anchor"`
}

// BadgesConfig carries every user-facing badge knob. It is read-only during
// a single badge build; concurrent builds may hold different snapshots.
type BadgesConfig struct {
	Quality       CategoryConfig `mapstructure:"quality"`
	Show4K        bool           `mapstructure:"show_4k"`
	ShowHD        bool           `mapstructure:"show_hd"`
	Format        string         `mapstructure:"format"` // letters, numbers, both
	HDR           CategoryConfig `mapstructure:"hdr"`
	DolbyAtmos    CategoryConfig `mapstructure:"dolby_atmos"`
	DTSX          CategoryConfig `mapstructure:"dtsx"`
	AudioLanguage CategoryConfig `mapstructure:"audio_language"`
	IMDb          CategoryConfig `mapstructure:"imdb"`
	RottenTomato  CategoryConfig `mapstructure:"rotten_tomatoes"`
	CustomTag     CategoryConfig `mapstructure:"custom_tag"`
	CustomTagText string         `mapstructure:"custom_tag_text"`

	// SkipNoAudioLanguage skips an item entirely (no image I/O) when the
	// audio-language badge is enabled but no language could be detected.
	SkipNoAudioLanguage bool `mapstructure:"skip_no_audio_language"`

	FontSize  int `mapstructure:"font_size"` // clamped to 12–28
	Curvature int `mapstructure:"curvature"` // corner rounding percent, clamped to 0–100
	Padding   int `mapstructure:"padding"`
}

type RatingsConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// APIKey gates the whole feature: empty key means no external lookups,
	// rating badges fall back to the item's built-in values.
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
// In Go, functions return errors as the last return value — callers must check them.
// This pattern replaces try/catch: if err != nil { handle it }.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults — these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/posterbadge.db")
	v.SetDefault("storage.output_dir", "")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("badges.quality.enabled", true)
	v.SetDefault("badges.quality.anchor", "top-left")
	v.SetDefault("badges.show_4k", true)
	v.SetDefault("badges.show_hd", true)
	v.SetDefault("badges.format", "letters")
	v.SetDefault("badges.hdr.enabled", true)
	v.SetDefault("badges.hdr.anchor", "top-right")
	v.SetDefault("badges.dolby_atmos.enabled", false)
	v.SetDefault("badges.dolby_atmos.anchor", "bottom-left")
	v.SetDefault("badges.dtsx.enabled", false)
	v.SetDefault("badges.dtsx.anchor", "bottom-left")
	v.SetDefault("badges.audio_language.enabled", false)
	v.SetDefault("badges.audio_language.anchor", "bottom-center")
	v.SetDefault("badges.imdb.enabled", false)
	v.SetDefault("badges.imdb.anchor", "bottom-right")
	v.SetDefault("badges.rotten_tomatoes.enabled", false)
	v.SetDefault("badges.rotten_tomatoes.anchor", "bottom-right")
	v.SetDefault("badges.custom_tag.enabled", false)
	v.SetDefault("badges.custom_tag.anchor", "top-center")
	v.SetDefault("badges.custom_tag_text", "")
	v.SetDefault("badges.skip_no_audio_language", false)
	v.SetDefault("badges.font_size", 20)
	v.SetDefault("badges.curvature", 30)
	v.SetDefault("badges.padding", 10)
	v.SetDefault("ratings.base_url", "https://api.mdblist.com")
	v.SetDefault("ratings.timeout_seconds", 15)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// BADGE_ prefix + nested keys: BADGE_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("BADGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal into our Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Clamp user-tunable drawing values here so the core can trust its
	// inputs. Out-of-range config is a user mistake, not an error.
	cfg.Badges.FontSize = clamp(cfg.Badges.FontSize, 12, 28)
	cfg.Badges.Curvature = clamp(cfg.Badges.Curvature, 0, 100)
	if cfg.Badges.Padding < 0 {
		cfg.Badges.Padding = 0
	}
	if cfg.Ratings.TimeoutSeconds <= 0 {
		cfg.Ratings.TimeoutSeconds = 15
	}

	return &cfg, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Address returns the listen address string like "0.0.0.0:8080".
// This is a method on ServerConfig — Go attaches methods to types via receiver syntax.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

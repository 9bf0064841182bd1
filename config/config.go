package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the bot.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Steam     SteamConfig     `mapstructure:"steam"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Finder    FinderConfig    `mapstructure:"finder"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// DiscordConfig contains the gateway token and command surface settings.
type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	CommandPrefix string `mapstructure:"command_prefix"`
}

func (d DiscordConfig) Validate() error {
	if strings.TrimSpace(d.Token) == "" {
		return fmt.Errorf("discord.token is required")
	}
	return nil
}

// SteamConfig contains Steam web API and storefront settings.
type SteamConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	WebAPIURL     string        `mapstructure:"web_api_url"`
	StorefrontURL string        `mapstructure:"storefront_url"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

func (s SteamConfig) Validate() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return fmt.Errorf("steam.api_key is required")
	}
	if s.LookupTimeout <= 0 {
		return fmt.Errorf("steam.lookup_timeout must be > 0")
	}
	return nil
}

// StorageConfig contains database connection settings.
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig describes the ownership store connection. URL wins over the
// discrete fields when both are set.
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a postgres connection string from the configured fields.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.DBName == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// FinderConfig tunes the shared-game report pipeline.
type FinderConfig struct {
	DefaultLimit int           `mapstructure:"default_limit"`
	MaxLimit     int           `mapstructure:"max_limit"`
	BatchSize    int           `mapstructure:"batch_size"`
	SendPacing   time.Duration `mapstructure:"send_pacing"`
}

func (f FinderConfig) Validate() error {
	if f.DefaultLimit <= 0 {
		return fmt.Errorf("finder.default_limit must be > 0")
	}
	if f.MaxLimit < f.DefaultLimit {
		return fmt.Errorf("finder.max_limit must be >= finder.default_limit")
	}
	if f.BatchSize <= 0 {
		return fmt.Errorf("finder.batch_size must be > 0")
	}
	if f.SendPacing < 0 {
		return fmt.Errorf("finder.send_pacing cannot be negative")
	}
	return nil
}

// RefreshConfig controls the background library refresher. An empty cron spec
// disables it.
type RefreshConfig struct {
	Cron     string        `mapstructure:"cron"`
	Interval time.Duration `mapstructure:"interval"`
}

// TelemetryConfig contains the admin HTTP surface settings.
type TelemetryConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

func (t TelemetryConfig) Validate() error {
	if t.Enabled && t.MetricsPort <= 0 {
		return fmt.Errorf("telemetry.metrics_port must be > 0 when telemetry is enabled")
	}
	return nil
}

// LoadConfig reads configuration from the given file, or searches the usual
// locations when path is empty. Environment variables prefixed STEAMBUDDY_
// override file values.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("discord.command_prefix", "!steamBuddy")
	viper.SetDefault("steam.web_api_url", "https://api.steampowered.com")
	viper.SetDefault("steam.storefront_url", "http://store.steampowered.com/api")
	viper.SetDefault("steam.lookup_timeout", 10*time.Second)
	viper.SetDefault("finder.default_limit", 7)
	viper.SetDefault("finder.max_limit", 15)
	viper.SetDefault("finder.batch_size", 3)
	viper.SetDefault("finder.send_pacing", time.Second)
	viper.SetDefault("refresh.interval", time.Hour)
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.metrics_port", 10011)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("STEAMBUDDY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Discord.Validate(); err != nil {
		panic(err)
	}
	if err := config.Steam.Validate(); err != nil {
		panic(err)
	}
	if err := config.Finder.Validate(); err != nil {
		panic(err)
	}
	if err := config.Telemetry.Validate(); err != nil {
		panic(err)
	}

	return &config
}

// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all pipeline configuration knobs loaded via Viper.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig governs the upstream brewery API client.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	PageSize       int    `mapstructure:"page_size"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	// MaxPages caps pagination as a safety net against an upstream that
	// never returns an empty page. Zero disables the cap.
	MaxPages int `mapstructure:"max_pages"`
}

// PathsConfig sets the three storage roots of the medallion layout.
type PathsConfig struct {
	Bronze string `mapstructure:"bronze"`
	Silver string `mapstructure:"silver"`
	Gold   string `mapstructure:"gold"`
}

// ScheduleConfig controls the cron orchestration of full pipeline runs.
type ScheduleConfig struct {
	Cron              string `mapstructure:"cron"`
	Retries           int    `mapstructure:"retries"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds"`
}

// ServerConfig controls the metrics/health HTTP listener used in serve mode.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BREWERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.openbrewerydb.org/v1/breweries")
	v.SetDefault("api.page_size", 200)
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("api.user_agent", "brewery-pipeline/1.0")
	v.SetDefault("api.max_pages", 10000)
	v.SetDefault("paths.bronze", "data/bronze")
	v.SetDefault("paths.silver", "data/silver")
	v.SetDefault("paths.gold", "data/gold")
	v.SetDefault("schedule.cron", "@daily")
	v.SetDefault("schedule.retries", 0)
	v.SetDefault("schedule.retry_delay_seconds", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("api.page_size must be > 0")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0")
	}
	if c.API.MaxPages < 0 {
		return fmt.Errorf("api.max_pages must be >= 0")
	}
	if c.Paths.Bronze == "" || c.Paths.Silver == "" || c.Paths.Gold == "" {
		return fmt.Errorf("paths.bronze, paths.silver and paths.gold must be set")
	}
	if c.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron must be set")
	}
	if c.Schedule.Retries < 0 {
		return fmt.Errorf("schedule.retries must be >= 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// Timeout converts the API timeout config into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RetryDelay converts the schedule retry delay config into a duration.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.Schedule.RetryDelaySeconds) * time.Second
}

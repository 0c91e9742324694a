package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	API     APIConfig
	Redis   RedisConfig
	Log     LogConfig
	Risk    RiskConfig
	History HistoryConfig
}

// APIConfig describes the scoring backend. The base URL is explicit
// configuration so the client never reads ambient process state.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds the optional history cache settings.
type RedisConfig struct {
	Enabled bool
	Addr    string
	TTL     time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// RiskConfig holds the probability cutoffs for the display classification.
// The table is configuration, not code, so it can change without touching
// the classifier.
type RiskConfig struct {
	SuccessMin float64
	InfoMin    float64
	WarningMin float64
}

// HistoryConfig bounds the past-prediction listing.
type HistoryConfig struct {
	Limit int
}

// Load reads configuration from config.toml and environment variables.
// Priority (highest to lowest): LOAN_-prefixed env vars, config.toml,
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/loan-predictor")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("LOAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Redis: RedisConfig{
			Enabled: v.GetBool("redis.enabled"),
			Addr:    v.GetString("redis.addr"),
			TTL:     v.GetDuration("redis.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Risk: RiskConfig{
			SuccessMin: v.GetFloat64("risk.success_min"),
			InfoMin:    v.GetFloat64("risk.info_min"),
			WarningMin: v.GetFloat64("risk.warning_min"),
		},
		History: HistoryConfig{
			Limit: v.GetInt("history.limit"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("risk.success_min", 0.90)
	v.SetDefault("risk.info_min", 0.70)
	v.SetDefault("risk.warning_min", 0.50)
	v.SetDefault("history.limit", 50)
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Risk.SuccessMin < c.Risk.InfoMin || c.Risk.InfoMin < c.Risk.WarningMin {
		return fmt.Errorf("risk thresholds must be descending: %v >= %v >= %v",
			c.Risk.SuccessMin, c.Risk.InfoMin, c.Risk.WarningMin)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be positive, got %d", c.History.Limit)
	}
	return nil
}

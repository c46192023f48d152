package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from YAML with env
// overrides for deployment-specific values.
type Config struct {
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Generation GenerationConfig `mapstructure:"generation"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Research   ResearchConfig   `mapstructure:"research"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type GenerationConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PageTTL  time.Duration `mapstructure:"page_ttl"`
}

// ResearchConfig carries the pipeline knobs. Worker pool sizes and the
// one-pass refinement cap are structural and deliberately not configurable;
// only the per-pattern snippet budget is tunable.
type ResearchConfig struct {
	SnippetBudget int `mapstructure:"snippet_budget"`
}

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

// Load reads the config file at CONFIG_PATH (default config/briefwright.yaml)
// and applies defaults. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/briefwright.yaml"
	}

	v := viper.New()
	v.SetConfigFile(cfgPath)

	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "research-tasks")
	v.SetDefault("generation.base_url", "http://llm-service:8000")
	v.SetDefault("generation.timeout", 2*time.Minute)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "briefwright")
	v.SetDefault("postgres.database", "briefwright")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.page_ttl", 24*time.Hour)
	v.SetDefault("research.snippet_budget", 20)
	v.SetDefault("metrics.port", 9090)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(cfgPath); statErr == nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides lets deployment env vars win over file values for the
// endpoints that differ per environment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEMPORAL_HOST"); v != "" {
		cfg.Temporal.HostPort = v
	}
	if v := os.Getenv("LLM_SERVICE_URL"); v != "" {
		cfg.Generation.BaseURL = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Metrics.Port = p
		}
	}
}

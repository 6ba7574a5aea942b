package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type ProviderConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	APIKey  string            `mapstructure:"api_key"`
	Models  map[string]string `mapstructure:"models"`
}

type AgentConfig struct {
	MaxTokens   int64   `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	ProfilesDir string  `mapstructure:"profiles_dir"`
}

type GatewayConfig struct {
	Driver           string `mapstructure:"driver"` // postgres or sqlite
	DSN              string `mapstructure:"dsn"`
	Schema           string `mapstructure:"schema"`
	QueriesPerMinute int    `mapstructure:"queries_per_minute"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	AuthToken string `mapstructure:"auth_token"`
}

type Config struct {
	Providers       map[string]ProviderConfig `mapstructure:"providers"`
	DefaultProvider string                    `mapstructure:"default_provider"`
	Agent           AgentConfig               `mapstructure:"agent"`
	Gateway         GatewayConfig             `mapstructure:"gateway"`
	Server          ServerConfig              `mapstructure:"server"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("fleetillo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.fleetillo")

	v.SetDefault("default_provider", "gradient")
	v.SetDefault("agent.max_tokens", 300)
	v.SetDefault("agent.temperature", 0.3)
	v.SetDefault("gateway.driver", "sqlite")
	v.SetDefault("gateway.dsn", filepath.Join(os.Getenv("HOME"), ".fleetillo", "fleetillo.db"))
	v.SetDefault("gateway.schema", "optiroute")
	v.SetDefault("gateway.queries_per_minute", 10)
	v.SetDefault("server.port", 8080)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Expand environment variable references in secrets
	for name, p := range cfg.Providers {
		p.APIKey = expandEnv(p.APIKey)
		cfg.Providers[name] = p
	}
	cfg.Gateway.DSN = expandEnv(cfg.Gateway.DSN)
	cfg.Server.AuthToken = expandEnv(cfg.Server.AuthToken)

	return &cfg, nil
}

// expandEnv resolves ${VAR} references to environment values.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}

// Provider returns the config for a named provider, falling back to the default.
func (c *Config) Provider(name string) (ProviderConfig, error) {
	if name == "" {
		name = c.DefaultProvider
	}
	p, ok := c.Providers[name]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

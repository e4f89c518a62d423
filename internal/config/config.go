// Package config loads service configuration from the environment, with an
// optional yaml file for local development.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates every setting of both binaries.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Gateway GatewayConfig `yaml:"gateway"`
	AI      AIConfig      `yaml:"ai"`
	Redis   RedisConfig   `yaml:"redis"`
}

// ClientConfig drives the terminal session client.
type ClientConfig struct {
	GatewayURL     string        `yaml:"gateway_url" env:"ASSISTANT_GATEWAY_URL" env-default:"http://localhost:8080"`
	AuthToken      string        `yaml:"auth_token" env:"ASSISTANT_AUTH_TOKEN"`
	Timeout        time.Duration `yaml:"timeout" env:"ASSISTANT_TIMEOUT" env-default:"30s"`
	FFPlayPath     string        `yaml:"ffplay_path" env:"ASSISTANT_FFPLAY_PATH" env-default:"ffplay"`
	CaptureCommand string        `yaml:"capture_command" env:"ASSISTANT_CAPTURE_COMMAND"`
}

// GatewayConfig drives the HTTP gateway.
type GatewayConfig struct {
	Addr string `yaml:"addr" env:"PORT" env-default:"8080"`
	// AuthTokens lists "token:userID" pairs accepted as bearer credentials.
	AuthTokens []string `yaml:"auth_tokens" env:"GATEWAY_AUTH_TOKENS" env-separator:","`
}

// ListenAddr normalizes the configured port into a listen address.
func (c GatewayConfig) ListenAddr() string {
	addr := strings.TrimSpace(c.Addr)
	if addr == "" {
		return ":8080"
	}
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

// TokenTable parses AuthTokens into a token-to-user lookup.
func (c GatewayConfig) TokenTable() (map[string]string, error) {
	table := make(map[string]string, len(c.AuthTokens))
	for _, entry := range c.AuthTokens {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, user, ok := strings.Cut(entry, ":")
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("invalid auth token entry %q, want token:userID", entry)
		}
		table[token] = user
	}
	return table, nil
}

// AIConfig describes the optional language-model backend.
type AIConfig struct {
	APIKey  string `yaml:"api_key" env:"ARK_API_KEY"`
	Model   string `yaml:"model" env:"ARK_MODEL"`
	BaseURL string `yaml:"base_url" env:"ARK_BASE_URL" env-default:"https://ark.cn-beijing.volces.com/api/v3"`
	Region  string `yaml:"region" env:"ARK_REGION" env-default:"cn-beijing"`
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ARK_API_KEY and ARK_MODEL are required for the LLM backend")
	}
	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: c.BaseURL,
		Region:  c.Region,
		APIKey:  c.APIKey,
		Model:   c.Model,
	})
}

// RedisConfig describes the optional history backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// Load reads configuration from an optional yaml file and the environment.
// Environment variables win over file values.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

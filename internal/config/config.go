// Package config loads the gateway's startup configuration from an optional
// config.yaml layered under environment variables, env always winning.
package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tjfontaine/straico-gateway/internal/domain"
)

// Config holds every externally supplied input the gateway needs at
// startup.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Straico   StraicoConfig   `koanf:"straico"`
	Heartbeat HeartbeatConfig `koanf:"heartbeat"`
	Models    []ModelListItem `koanf:"models"`
}

// ModelListItem is one entry in the static, configured models list served
// by GET /v1/models.
type ModelListItem struct {
	ID      string `koanf:"id"`
	Object  string `koanf:"object"`
	OwnedBy string `koanf:"owned_by"`
	Created int64  `koanf:"created"`
}

// ServerConfig is the listen address the gateway binds.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// UpstreamConfig addresses Straico's prompt/completion endpoint.
type UpstreamConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// StraicoConfig carries the upstream bearer credential.
type StraicoConfig struct {
	BearerToken string `koanf:"bearer_token"`
}

// HeartbeatConfig selects the SSE keep-alive character.
type HeartbeatConfig struct {
	Char string `koanf:"char"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads config.yaml if present, then layers GATEWAY_-prefixed
// environment variables on top (env always wins), and applies defaults for
// anything still unset.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, domain.ErrServerConfiguration("reading config.yaml: " + err.Error())
		}
	}

	if err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, domain.ErrServerConfiguration("reading environment: " + err.Error())
	}

	if !k.Exists("server.host") {
		k.Set("server.host", "0.0.0.0")
	}
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("upstream.base_url") {
		k.Set("upstream.base_url", "https://api.straico.com")
	}
	if !k.Exists("upstream.timeout") {
		k.Set("upstream.timeout", "60s")
	}
	if !k.Exists("heartbeat.char") {
		k.Set("heartbeat.char", "empty")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Metadata:         nil,
			TagName:          "koanf",
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, domain.ErrServerConfiguration("parsing config: " + err.Error())
	}

	cfg.Straico.BearerToken = substituteEnvVars(cfg.Straico.BearerToken)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the configuration invariants the gateway cannot start
// without.
func (c *Config) Validate() error {
	if c.Straico.BearerToken == "" {
		return domain.ErrServerConfiguration("straico.bearer_token is required (set GATEWAY_STRAICO__BEARER_TOKEN)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return domain.ErrServerConfiguration("server.port must be between 1 and 65535")
	}
	if c.Upstream.Timeout <= 0 {
		return domain.ErrServerConfiguration("upstream.timeout must be positive")
	}
	return nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

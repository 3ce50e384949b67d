package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/playback"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends accepted by Config.Store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// DefaultConfigFile is read when present and no --config is given.
const DefaultConfigFile = "courier.yaml"

// EnvEncryptionKey overrides Config.EncryptionKey.
const EnvEncryptionKey = "COURIER_ENCRYPTION_KEY"

// Config is the CLI configuration, read from courier.yaml.
type Config struct {
	Delay      time.Duration `mapstructure:"delay"`
	LogLevel   string        `mapstructure:"log_level"`
	LogFormat  string        `mapstructure:"log_format"`
	Store      string        `mapstructure:"store"`
	SessionDir string        `mapstructure:"session_dir"`
	Input      string        `mapstructure:"input"`

	// EncryptionKey seals stored sessions with AES-256 when set (base64).
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`

	Redis   RedisConfig   `mapstructure:"redis"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// RedisConfig configures the redis store and locker.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPConfig configures `courier serve`.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultConfig returns the values used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Delay:      playback.DefaultDelay,
		LogLevel:   "info",
		LogFormat:  "text",
		Store:      StoreMemory,
		SessionDir: ".courier/sessions",
		Input:      domain.DefaultInput,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "courier:session:",
		},
		HTTP: HTTPConfig{Port: 8080},
	}
}

// LoadConfig reads path over DefaultConfig. An empty path tries
// DefaultConfigFile and silently falls back to the defaults when it is missing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := DecodeConfig(data, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if key := os.Getenv(EnvEncryptionKey); key != "" {
		cfg.EncryptionKey = key
	}
	return cfg, cfg.Validate()
}

// DecodeConfig decodes YAML data into cfg, keeping the fields it omits.
// Values are weakly typed and durations accept strings like "250ms".
func DecodeConfig(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks the enumerations and ranges of cfg.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

// Persistent returns cfg with the memory store replaced by the file store.
// A memory store does not outlive the process, so commands that resume or
// inspect sessions across invocations need a durable backend.
func (c Config) Persistent() Config {
	if c.Store == StoreMemory {
		c.Store = StoreFile
	}
	return c
}

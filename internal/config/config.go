// Package config loads skillmatch settings from a YAML file, SKILLMATCH_*
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/spigell/skillmatch/internal/cache"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/retry"
	"github.com/spigell/skillmatch/internal/secrets"
)

const (
	App       = "skillmatch"
	EnvPrefix = "SKILLMATCH"

	ProviderChat   = "chat"
	ProviderGemini = "gemini"
)

type Config struct {
	AI         *AIConfig        `mapstructure:"ai" validate:"required"`
	Retry      retry.Policy     `mapstructure:"retry"`
	Defaults   cv.Defaults      `mapstructure:"defaults"`
	Validation ValidationConfig `mapstructure:"validation"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
	Match      MatchConfig      `mapstructure:"match"`
}

type AIConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Provider       string        `mapstructure:"provider" validate:"omitempty,oneof=chat gemini"`
	MaxLogLength   int           `mapstructure:"max-log-length" validate:"gte=0"`
	ParallelStages bool          `mapstructure:"parallel-stages"`
	Chat           *ChatConfig   `mapstructure:"chat"`
	Gemini         *GeminiConfig `mapstructure:"gemini"`
}

type ChatConfig struct {
	Endpoint   string `mapstructure:"endpoint" validate:"omitempty,url"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyEnv  string `mapstructure:"api-key-env"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type GeminiConfig struct {
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyEnv  string `mapstructure:"api-key-env"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

func (c *ChatConfig) Secret() secrets.Source {
	return secrets.Source{Name: "chat api key", Value: c.APIKey, File: c.APIKeyFile, Env: c.APIKeyEnv}
}

func (c *GeminiConfig) Secret() secrets.Source {
	return secrets.Source{Name: "gemini api key", Value: c.APIKey, File: c.APIKeyFile, Env: c.APIKeyEnv}
}

type ValidationConfig struct {
	Threshold int `mapstructure:"threshold" validate:"gte=0,lte=100"`
}

type CacheConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Redis   cache.RedisConfig `mapstructure:"redis"`
	TTL     time.Duration     `mapstructure:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// MaxUploadBytes caps multipart CV uploads.
	MaxUploadBytes int64 `mapstructure:"max-upload-bytes" validate:"gt=0"`
}

type MatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1"`
	Limit       int `mapstructure:"limit" validate:"gte=1"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", ProviderChat)
	v.SetDefault("ai.max-log-length", 500)
	v.SetDefault("ai.parallel-stages", false)
	v.SetDefault("ai.chat.endpoint", "")
	v.SetDefault("ai.chat.model", "DeepSeek-R1")
	v.SetDefault("ai.chat.api-key", "")
	v.SetDefault("ai.chat.api-key-file", "")
	v.SetDefault("ai.chat.api-key-env", "AZURE_API_KEY")
	v.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-env", "GEMINI_API_KEY")
	v.SetDefault("ai.gemini.api-key-file", "")

	v.SetDefault("retry.max-attempts", retry.DefaultMaxAttempts)
	v.SetDefault("retry.base-delay", retry.DefaultBaseDelay)
	v.SetDefault("retry.base-timeout", retry.DefaultBaseTimeout)
	v.SetDefault("retry.timeout-step", retry.DefaultTimeoutStep)

	d := cv.DefaultDefaults()
	v.SetDefault("defaults.language", d.Language)
	v.SetDefault("defaults.region", d.Region)

	v.SetDefault("validation.threshold", cv.DefaultThreshold)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.max-upload-bytes", 10<<20)

	v.SetDefault("match.concurrency", 4)
	v.SetDefault("match.limit", 10)
}

// Options control where Load looks for settings.
type Options struct {
	// File is an explicit config path; a missing explicit file is an error.
	File string
	// DotEnv files are loaded into the process environment when present.
	DotEnv []string
}

// Load reads the configuration into v and returns the validated result.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return nil, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(App)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals v without validating.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg *Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.AI == nil {
		cfg.AI = &AIConfig{}
	}
	if cfg.AI.Chat == nil {
		cfg.AI.Chat = &ChatConfig{}
	}
	if cfg.AI.Gemini == nil {
		cfg.AI.Gemini = &GeminiConfig{}
	}
	if cfg.Cache.TTL > 0 && cfg.Cache.Redis.TTL == 0 {
		cfg.Cache.Redis.TTL = cfg.Cache.TTL
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadDotEnv(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

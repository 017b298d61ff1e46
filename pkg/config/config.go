package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Model struct {
		Name           string  `yaml:"name"`
		VisionName     string  `yaml:"vision_name"`
		BaseURL        string  `yaml:"base_url"`
		Temperature    float64 `yaml:"temperature"`
		MaxTokens      int     `yaml:"max_tokens"`
		TimeoutSeconds float64 `yaml:"timeout_seconds"`
	} `yaml:"model"`
	Awards struct {
		ProfileFirstTime int `yaml:"profile_first_time"`
		ProfileUpdate    int `yaml:"profile_update"`
		Workout          int `yaml:"workout"`
		Mood             int `yaml:"mood"`
	} `yaml:"awards"`
	Store struct {
		Backend   string `yaml:"backend"`
		RedisURL  string `yaml:"redis_url"`
		KeyPrefix string `yaml:"key_prefix"`
		Surreal   struct {
			Host      string `yaml:"host"`
			Namespace string `yaml:"namespace"`
			Database  string `yaml:"database"`
			Table     string `yaml:"table"`
		} `yaml:"surreal"`
	} `yaml:"store"`
	Timezone string `yaml:"timezone"`
	Log      struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Photo struct {
		MaxWidth       int   `yaml:"max_width"`
		MaxHeight      int   `yaml:"max_height"`
		Quality        int   `yaml:"quality"`
		ThresholdBytes int64 `yaml:"threshold_bytes"`
	} `yaml:"photo"`
}

const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendSurreal = "surreal"
)

// Default returns the configuration used when no file is present. A file
// only needs to set what it changes.
func Default() *Config {
	c := &Config{}
	c.Model.Name = "meta/llama-3.3-70b-instruct"
	c.Model.VisionName = "meta/llama-3.2-90b-vision-instruct"
	c.Model.Temperature = 0.7
	c.Model.MaxTokens = 1024
	c.Model.TimeoutSeconds = 60
	c.Awards.ProfileFirstTime = 30
	c.Awards.ProfileUpdate = 0
	c.Awards.Workout = 15
	c.Awards.Mood = 5
	c.Store.Backend = BackendMemory
	c.Store.RedisURL = "redis://localhost:6379/0"
	c.Store.KeyPrefix = "healthbot"
	c.Store.Surreal.Namespace = "healthbot"
	c.Store.Surreal.Database = "records"
	c.Store.Surreal.Table = "user_records"
	c.Timezone = "UTC"
	c.Log.Level = "info"
	c.Photo.MaxWidth = 1280
	c.Photo.MaxHeight = 1280
	c.Photo.Quality = 80
	c.Photo.ThresholdBytes = 512 * 1024
	return c
}

func LoadConfig(path string) (*Config, error) {
	config := Default()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendSurreal:
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if c.Store.Backend == BackendSurreal && c.Store.Surreal.Host == "" {
		errs = append(errs, errors.New("store.surreal.host: required for the surreal backend"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.Awards.ProfileFirstTime < 0 || c.Awards.ProfileUpdate < 0 || c.Awards.Workout < 0 || c.Awards.Mood < 0 {
		errs = append(errs, errors.New("awards: values must not be negative"))
	}
	if c.Model.Name == "" {
		errs = append(errs, errors.New("model.name: required"))
	}
	if c.Model.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("model.timeout_seconds: must be positive"))
	}

	return errors.Join(errs...)
}

// Location returns the configured time zone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds * float64(time.Second))
}

// SurrealURL normalizes a bare host into a websocket RPC endpoint.
func (c *Config) SurrealURL() string {
	host := c.Store.Surreal.Host
	if host == "" || strings.HasPrefix(host, "ws://") || strings.HasPrefix(host, "wss://") {
		return host
	}
	return "wss://" + host + "/rpc"
}

// Secrets are read from the environment (optionally populated from .env).
type Secrets struct {
	DiscordToken string
	GuildID      string
	APIKey       string
	SurrealUser  string
	SurrealPass  string
}

func SecretsFromEnv() Secrets {
	return Secrets{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("DISCORD_GUILD_ID"),
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		SurrealUser:  os.Getenv("SURREAL_DB_USER"),
		SurrealPass:  os.Getenv("SURREAL_DB_PASS"),
	}
}

// Require reports every missing variable the given backend needs.
func (s Secrets) Require(backend string) error {
	var missing []string
	if s.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if s.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if backend == BackendSurreal {
		if s.SurrealUser == "" {
			missing = append(missing, "SURREAL_DB_USER")
		}
		if s.SurrealPass == "" {
			missing = append(missing, "SURREAL_DB_PASS")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

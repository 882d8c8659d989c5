// Package config handles application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	appName        = "viajero"
	configFileName = "config.json"
)

// Location modes.
const (
	LocationIP     = "ip"
	LocationStatic = "static"
	LocationOff    = "off"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default text models per provider, used when text_model is unset.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Duration is a time.Duration written as "1s", "6h" in files and variables.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

// Location selects how GPS mode obtains coordinates.
type Location struct {
	Mode      string  `json:"mode"                 env:"MODE"`
	Lat       float64 `json:"lat,omitempty"        env:"LAT"`
	Lng       float64 `json:"lng,omitempty"        env:"LNG"`
	LookupURL string  `json:"lookup_url,omitempty" env:"LOOKUP_URL"`
}

// Config represents the application configuration.
// Values from config.json are overridden by environment variables.
type Config struct {
	Provider    string  `json:"provider"              env:"VIAJERO_PROVIDER"`
	APIKey      string  `json:"api_key,omitempty"     env:"API_KEY"`
	BaseURL     string  `json:"base_url,omitempty"    env:"VIAJERO_BASE_URL"`
	TextModel   string  `json:"text_model,omitempty"  env:"VIAJERO_TEXT_MODEL"`
	SpeechModel string  `json:"speech_model"          env:"VIAJERO_SPEECH_MODEL"`
	Voice       string  `json:"voice"                 env:"VIAJERO_VOICE"`
	Temperature float64 `json:"temperature,omitempty" env:"VIAJERO_TEMPERATURE"`

	Location Location `json:"location" envPrefix:"VIAJERO_LOCATION_"`

	LogLevel       string   `json:"log_level"       env:"LOG_LEVEL"`
	Workers        int      `json:"workers"         env:"VIAJERO_WORKERS"`
	LevelUpDelay   Duration `json:"level_up_delay"  env:"VIAJERO_LEVEL_UP_DELAY"`
	CacheTTL       Duration `json:"cache_ttl"       env:"VIAJERO_CACHE_TTL"`
	RequestTimeout Duration `json:"request_timeout" env:"VIAJERO_REQUEST_TIMEOUT"` // 0 waits indefinitely
	Hotkeys        bool     `json:"hotkeys"         env:"VIAJERO_HOTKEYS"`

	GeminiAPIKey string `json:"-" env:"GEMINI_API_KEY"`
	OpenAIAPIKey string `json:"-" env:"OPENAI_API_KEY"`
}

// Load reads the user's config file and applies environment overrides.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TextModel == "" {
		cfg.TextModel = cfg.defaultTextModel()
	}
	return cfg, nil
}

func (c *Config) defaultTextModel() string {
	if c.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// Credential returns the API key for the configured provider.
func (c *Config) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	switch c.Location.Mode {
	case LocationIP, LocationStatic, LocationOff:
	default:
		return fmt.Errorf("unknown location mode: %s", c.Location.Mode)
	}
	if c.Location.Mode == LocationStatic && (c.Location.Lat < -90 || c.Location.Lat > 90 || c.Location.Lng < -180 || c.Location.Lng > 180) {
		return fmt.Errorf("static location out of range: %v,%v", c.Location.Lat, c.Location.Lng)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	}
	if c.LevelUpDelay < 0 || c.RequestTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

func defaultConfig() *Config {
	return &Config{
		Provider:     ProviderGemini,
		SpeechModel:  "gemini-2.5-flash-preview-tts",
		Voice:        "Kore",
		Location:     Location{Mode: LocationIP},
		LogLevel:     "info",
		Workers:      8,
		LevelUpDelay: Duration(time.Second),
		CacheTTL:     Duration(6 * time.Hour),
		Hotkeys:      true,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8000" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"500ms"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
	} `yaml:"metrics"`
	Forecast struct {
		DefaultAsset string `yaml:"default_asset" default:"BTC/USD" validate:"required"`
		Path         string `yaml:"path" default:"/predict" validate:"startswith=/"`
		// Seed selects a deterministic random source when non-zero.
		Seed uint64 `yaml:"seed"`
	} `yaml:"forecast"`
	Gateway struct {
		Enabled      bool          `yaml:"enabled"`
		Path         string        `yaml:"path" default:"/forecast" validate:"startswith=/"`
		MLServiceURL string        `yaml:"ml_service_url" default:"http://localhost:8000/predict" validate:"omitempty,url"`
		Timeout      time.Duration `yaml:"timeout" default:"8s"`
		RetryMax     int           `yaml:"retry_max" default:"2" validate:"gte=1,lte=10"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"15s"`
		CoinGeckoURL string        `yaml:"coingecko_url" default:"https://api.coingecko.com/api/v3" validate:"url"`
		OpenAI       struct {
			APIKey      string  `yaml:"api_key"`
			BaseURL     string  `yaml:"base_url" default:"https://api.openai.com/v1" validate:"url"`
			Model       string  `yaml:"model" default:"gpt-5-thinking-mini" validate:"required"`
			MaxTokens   int     `yaml:"max_tokens" default:"120" validate:"gte=1"`
			Temperature float64 `yaml:"temperature" default:"0.2" validate:"gte=0,lte=2"`
			RPS         float64 `yaml:"rps" default:"1" validate:"gt=0"`
			Burst       int     `yaml:"burst" default:"3" validate:"gte=1"`
		} `yaml:"openai"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"miniforecast"`
		} `yaml:"redis"`
	} `yaml:"gateway"`
}

var validate = validator.New()

// statusRoutes are served alongside the gateway.
var statusRoutes = map[string]bool{"/": true, "/ai": true, "/crypto": true}

// Default returns a configuration holding only struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is not an error: defaults plus environment are used instead.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("DEFAULT_ASSET"); v != "" {
		c.Forecast.DefaultAsset = v
	}
	if v := os.Getenv("FORECAST_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse FORECAST_SEED: %w", err)
		}
		c.Forecast.Seed = seed
	}
	if v := os.Getenv("ML_SERVICE_URL"); v != "" {
		c.Gateway.MLServiceURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Gateway.OpenAI.APIKey = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Gateway.Enabled && c.Gateway.Path == c.Forecast.Path {
		return fmt.Errorf("gateway.path must differ from forecast.path, both are '%s'", c.Forecast.Path)
	}
	if c.Metrics.Enabled && (c.Metrics.Path == c.Forecast.Path || c.Metrics.Path == c.Gateway.Path) {
		return fmt.Errorf("metrics.path '%s' collides with a forecast route", c.Metrics.Path)
	}
	if c.Gateway.Enabled {
		paths := []string{c.Forecast.Path, c.Gateway.Path}
		if c.Metrics.Enabled {
			paths = append(paths, c.Metrics.Path)
		}
		for _, p := range paths {
			if statusRoutes[p] {
				return fmt.Errorf("path '%s' is reserved for status routes", p)
			}
		}
	}
	if c.Gateway.CacheTTL < 0 {
		return fmt.Errorf("gateway.cache_ttl cannot be negative")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Package config loads the dispatcher configuration from YAML and the
// environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pricofy/translation-dispatcher/internal/inference"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Inference backends.
const (
	BackendLambda = "lambda"
	BackendHTTP   = "http"
)

type Config struct {
	LogLevel    string          `yaml:"log_level"`
	Environment string          `yaml:"environment"`
	Server      ServerConfig    `yaml:"server"`
	Inference   InferenceConfig `yaml:"inference"`
	Detector    DetectorConfig  `yaml:"detector"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type InferenceConfig struct {
	// "lambda" or "http"
	Backend string `yaml:"backend"`

	// Lambda backend. Defaults to "translator-<environment>".
	FunctionPrefix string `yaml:"function_prefix"`

	// HTTP backend
	BaseURL    string `yaml:"base_url"`
	Token      string `yaml:"token"`
	TimeoutSec int    `yaml:"timeout_sec"`

	// Optional
	RateLimit inference.RateLimitConfig `yaml:"rate_limit"`
}

type DetectorConfig struct {
	// Enables source_lang "auto". Off by default.
	Enabled             bool    `yaml:"enabled"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Environment: "dev",
		Server: ServerConfig{
			Listen: ":8000",
		},
		Inference: InferenceConfig{
			Backend:    BackendLambda,
			TimeoutSec: 60,
		},
		Detector: DetectorConfig{
			ConfidenceThreshold: 0.5,
		},
	}
}

// Load reads configFile (optional, may be empty) on top of the defaults,
// then applies environment overrides and validates the result.
func Load(configFile string) (*Config, error) {
	cfg := New()

	if configFile != "" {
		yamlFile, err := os.ReadFile(configFile)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file '%s' not found", configFile)
			}
			return nil, fmt.Errorf("read config file '%s' failed: %w", configFile, err)
		}

		if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
			return nil, fmt.Errorf("parse '%s' failed: %w", configFile, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("LOG_LEVEL", &c.LogLevel)
	set("ENVIRONMENT", &c.Environment)
	set("LISTEN_ADDR", &c.Server.Listen)
	set("INFERENCE_BACKEND", &c.Inference.Backend)
	set("MODEL_FUNCTION_PREFIX", &c.Inference.FunctionPrefix)
	set("MODEL_REGISTRY_URL", &c.Inference.BaseURL)
	set("MODEL_REGISTRY_TOKEN", &c.Inference.Token)
}

// Validate checks the configuration and fills derived defaults.
func (c *Config) Validate() error {
	c.Inference.Backend = strings.ToLower(c.Inference.Backend)

	switch c.Inference.Backend {
	case BackendLambda:
		if c.Inference.FunctionPrefix == "" {
			c.Inference.FunctionPrefix = "translator-" + c.Environment
		}
	case BackendHTTP:
		if c.Inference.BaseURL == "" {
			return fmt.Errorf("inference base_url is required for the http backend")
		}
	default:
		return fmt.Errorf("unrecognized inference backend: %s", c.Inference.Backend)
	}

	if c.Inference.TimeoutSec <= 0 {
		return fmt.Errorf("inference timeout must be positive")
	}

	if c.Detector.ConfidenceThreshold < 0 || c.Detector.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must in 0-1")
	}

	return c.Inference.RateLimit.Validate()
}

// NewInvoker builds the model registry client described by the config.
func (c *Config) NewInvoker(ctx context.Context) (inference.Invoker, error) {
	var (
		inv inference.Invoker
		err error
	)

	switch c.Inference.Backend {
	case BackendLambda:
		inv, err = inference.NewLambdaInvoker(ctx, c.Inference.FunctionPrefix)
		if err != nil {
			return nil, err
		}
	case BackendHTTP:
		inv = inference.NewHTTPInvoker(c.Inference.BaseURL, c.Inference.Token,
			time.Duration(c.Inference.TimeoutSec)*time.Second)
	default:
		return nil, fmt.Errorf("unrecognized inference backend: %s", c.Inference.Backend)
	}

	logger := logrus.WithFields(logrus.Fields{
		"component": "inference",
		"backend":   c.Inference.Backend,
	})
	return inference.WithRateLimit(inv, c.Inference.RateLimit, logger), nil
}

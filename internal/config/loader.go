package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/multicalc/internal/domain/model"
)

const (
	envPrefix  = "MULTICALC_"
	envFileVar = "MULTICALC_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MULTICALC_CONFIG is set
//  3. env (prefix MULTICALC_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like MULTICALC_LOG_LEVEL -> log_level (flat keys).
	// Underscores are kept to match the koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := model.ParseDiscipline(c.Discipline); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !validFormat(c.Output) {
		return fmt.Errorf("%w: output must be %q or %q, got %q", ErrInvalidConfig, FormatText, FormatJSON, c.Output)
	}
	if !validFormat(c.LogFormat) {
		return fmt.Errorf("%w: log_format must be %q or %q, got %q", ErrInvalidConfig, FormatText, FormatJSON, c.LogFormat)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func validFormat(f string) bool {
	return f == FormatText || f == FormatJSON
}

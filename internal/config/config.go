// Package config layers extraction settings from defaults, a YAML file,
// COOC_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/cooc/internal/window"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "COOC_"

// Config holds the settings of an extraction run.
type Config struct {
	Window        int    `koanf:"window" validate:"min=1"`
	Vocab         string `koanf:"vocab"`
	Input         string `koanf:"input"`
	InputKind     string `koanf:"input_kind" validate:"oneof=auto folder tsv"`
	GroupBy       string `koanf:"group_by" validate:"oneof=document domain field"`
	Lowercase     bool   `koanf:"lowercase"`
	Output        string `koanf:"output" validate:"required"`
	Format        string `koanf:"format" validate:"oneof=csr coo sqlite"`
	Sequential    bool   `koanf:"sequential"`
	VerifySamples int    `koanf:"verify_samples" validate:"min=0"`
	Seed          uint64 `koanf:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window:        5,
		InputKind:     "auto",
		GroupBy:       "document",
		Output:        "features",
		Format:        "csr",
		VerifySamples: 0,
		Seed:          1,
	}
}

// Load builds a Config. path names an optional YAML file; overrides holds
// flag values keyed by koanf key and wins over every other source.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := loadYAML(k, path); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadYAML merges the keys present in the file into k, leaving the rest.
func loadYAML(k *koanf.Koanf, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	for key, value := range raw {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set %s from %s: %w", key, path, err)
		}
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints. A bad window also matches
// window.ErrInvalidWindow.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Window" {
				return fmt.Errorf("invalid configuration: %w: %w", window.ErrInvalidWindow, err)
			}
		}
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

// ResolveInputKind returns "folder" or "tsv" for the configured input.
func (c *Config) ResolveInputKind() (string, error) {
	if c.Input == "" {
		return "", fmt.Errorf("no input given")
	}
	if c.InputKind != "auto" {
		return c.InputKind, nil
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "folder", nil
	}
	return "tsv", nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is where pybun looks for its configuration.
const DefaultPath = ".pybun.toml"

// Config captures the user editable settings stored in .pybun.toml. Every
// field is optional; zero values fall back to the public endpoints.
type Config struct {
	OutputDir string       `toml:"output_dir"`
	Release   ReleaseBlock `toml:"release"`
	PyPI      PyPIBlock    `toml:"pypi"`
}

// ReleaseBlock points at the Bun release host.
type ReleaseBlock struct {
	BaseURL string `toml:"base_url"`
}

// PyPIBlock points at the package index used by the release check.
type PyPIBlock struct {
	BaseURL string `toml:"base_url"`
	Project string `toml:"project"`
}

var (
	// ErrInvalidReleaseURL indicates release.base_url is not an HTTP(S) URL.
	ErrInvalidReleaseURL = errors.New("config.release.base_url must be an http(s) URL")
	// ErrInvalidPyPIURL indicates pypi.base_url is not an HTTP(S) URL.
	ErrInvalidPyPIURL = errors.New("config.pypi.base_url must be an http(s) URL")
)

// Default returns the baseline configuration.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.Release.BaseURL == "" {
		c.Release.BaseURL = "https://github.com/oven-sh/bun/releases"
	}
	if c.PyPI.BaseURL == "" {
		c.PyPI.BaseURL = "https://pypi.org"
	}
	if c.PyPI.Project == "" {
		c.PyPI.Project = "pybun"
	}
}

// Validate ensures the configuration can drive a build.
func (c Config) Validate() error {
	if !isHTTPURL(c.Release.BaseURL) {
		return ErrInvalidReleaseURL
	}
	if !isHTTPURL(c.PyPI.BaseURL) {
		return ErrInvalidPyPIURL
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load reads configuration from disk. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

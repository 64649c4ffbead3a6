package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatsuo/gl-triangle/tri"
	"gopkg.in/yaml.v3"
)

// Config describes one headless render.
type Config struct {
	Width         int       `yaml:"width"`
	Height        int       `yaml:"height"`
	Output        string    `yaml:"output"`
	ClearColor    []float32 `yaml:"clear_color"`    // r, g, b, a
	FragmentColor []float32 `yaml:"fragment_color"` // r, g, b, a
	Blend         bool      `yaml:"blend"`
	DepthTest     bool      `yaml:"depth_test"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	opts := tri.DefaultOptions()
	return &Config{
		Width:         640,
		Height:        480,
		Output:        "triangle.png",
		ClearColor:    opts.ClearColor[:],
		FragmentColor: opts.FragmentColor[:],
		Blend:         opts.Blend,
		DepthTest:     opts.DepthTest,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default value. The result is not validated, since command
// line flags may still replace some of its values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

var errFormat = errors.New("unsupported output format")

// Validate checks the surface size, both colors and the output extension.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if _, err := toColor(c.ClearColor); err != nil {
		return fmt.Errorf("clear_color: %w", err)
	}
	if _, err := toColor(c.FragmentColor); err != nil {
		return fmt.Errorf("fragment_color: %w", err)
	}
	if _, err := outputFormat(c.Output); err != nil {
		return err
	}
	return nil
}

// Options converts the config to scene options. Validate must have passed.
func (c *Config) Options() tri.Options {
	bg, _ := toColor(c.ClearColor)
	frag, _ := toColor(c.FragmentColor)
	return tri.Options{
		ClearColor:    bg,
		FragmentColor: frag,
		Blend:         c.Blend,
		DepthTest:     c.DepthTest,
	}
}

func toColor(v []float32) (tri.Color, error) {
	var c tri.Color
	if len(v) != len(c) {
		return c, fmt.Errorf("want 4 components, got %d", len(v))
	}
	for i, x := range v {
		if !(x >= 0 && x <= 1) {
			return c, fmt.Errorf("component %d = %v is outside [0, 1]", i, x)
		}
		c[i] = x
	}
	return c, nil
}

func outputFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".bmp":
		return ext[1:], nil
	}
	return "", fmt.Errorf("%w %q", errFormat, ext)
}

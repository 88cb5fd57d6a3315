// Package config holds the project settings read from tjc.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/tjc/format"
	"github.com/dhamidi/tjc/java/compile"
)

// Config is the merged configuration of one tjc invocation. Zero limits
// leave the compiler defaults in place.
type Config struct {
	// Color is one of "auto", "always" or "never".
	Color string `yaml:"color"`
	// Format selects the diagnostics reporter: "text" or "json".
	Format    string `yaml:"format"`
	MaxDepth  int    `yaml:"max_depth,omitempty"`
	NodeLimit int    `yaml:"node_limit,omitempty"`
	MaxLocals int    `yaml:"max_locals,omitempty"`
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file,omitempty"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Color:    format.ColorAuto,
		Format:   format.ReportText,
		LogLevel: "warn",
	}
}

// FromYAML parses data on top of the defaults, so a file only needs to
// name the settings it changes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	colorModes = []string{format.ColorAuto, format.ColorAlways, format.ColorNever}
	reports    = []string{format.ReportText, format.ReportJSON}
	logLevels  = []string{"none", "off", "error", "warn", "warning", "notice", "info", "debug"}
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(colorModes, c.Color) {
		errs = append(errs, fmt.Errorf("color: %q is not one of %v", c.Color, colorModes))
	}
	if !slices.Contains(reports, c.Format) {
		errs = append(errs, fmt.Errorf("format: %q is not one of %v", c.Format, reports))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level: %q is not one of %v", c.LogLevel, logLevels))
	}
	limits := []struct {
		name  string
		value int
	}{
		{"max_depth", c.MaxDepth},
		{"node_limit", c.NodeLimit},
		{"max_locals", c.MaxLocals},
	}
	for _, l := range limits {
		if l.value < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %d", l.name, l.value))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CompileOptions translates the limits into compiler options.
func (c *Config) CompileOptions() []compile.Option {
	var opts []compile.Option
	if c.MaxDepth > 0 {
		opts = append(opts, compile.WithMaxDepth(c.MaxDepth))
	}
	if c.NodeLimit > 0 {
		opts = append(opts, compile.WithNodeLimit(c.NodeLimit))
	}
	if c.MaxLocals > 0 {
		opts = append(opts, compile.WithMaxLocals(c.MaxLocals))
	}
	return opts
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FileNames are the project file names searched for, in order of
// preference.
var FileNames = []string{"tjc.yaml", ".tjc.yaml"}

const envPrefix = "TJC_"

type LoadOptions struct {
	// ExplicitPath skips discovery. The file must exist.
	ExplicitPath string
	// WorkingDir is where discovery starts; empty means the process
	// working directory.
	WorkingDir string
	IgnoreEnv  bool
}

// Load resolves the configuration: the explicit file or the nearest project
// file, then TJC_* environment overrides, then validation.
func Load(opts LoadOptions) (*Config, error) {
	path := opts.ExplicitPath
	if path == "" {
		found, err := FindProjectConfig(opts.WorkingDir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg, err = FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Path = path
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindProjectConfig walks upward from startDir and returns the first
// project file it finds, or "" if there is none. The walk stops at a
// version control root.
func FindProjectConfig(startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				return path, nil
			}
		}
		if isVCSRoot(dir) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isVCSRoot(dir string) bool {
	for _, marker := range []string{".git", ".hg", ".svn"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// LoadFromEnv applies TJC_* overrides. Empty variables are ignored.
func LoadFromEnv(cfg *Config) error {
	texts := []struct {
		name  string
		field *string
	}{
		{"COLOR", &cfg.Color},
		{"FORMAT", &cfg.Format},
		{"LOG_LEVEL", &cfg.LogLevel},
		{"LOG_FILE", &cfg.LogFile},
	}
	for _, s := range texts {
		if v := os.Getenv(envPrefix + s.name); v != "" {
			*s.field = v
		}
	}

	ints := []struct {
		name  string
		field *int
	}{
		{"MAX_DEPTH", &cfg.MaxDepth},
		{"NODE_LIMIT", &cfg.NodeLimit},
		{"MAX_LOCALS", &cfg.MaxLocals},
	}
	for _, i := range ints {
		v := os.Getenv(envPrefix + i.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %s%s: %q", envPrefix, i.name, v)
		}
		*i.field = n
	}
	return nil
}

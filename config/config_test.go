package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.CompileOptions())
}

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte("format: json\nmax_depth: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, "auto", cfg.Color, "unset keys keep their defaults")
	assert.Len(t, cfg.CompileOptions(), 1)
}

func TestFromYAMLEmpty(t *testing.T) {
	cfg, err := FromYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := FromYAML([]byte("colour: never\n"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestToYAML(t *testing.T) {
	data, err := Default().ToYAML()
	require.NoError(t, err)
	assert.Equal(t, "color: auto\nformat: text\nlog_level: warn\n", string(data))

	cfg := Default()
	cfg.NodeLimit = 100
	cfg.LogFile = "tjc.log"
	data, err = cfg.ToYAML()
	require.NoError(t, err)
	back, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"color", func(c *Config) { c.Color = "sometimes" }, `color: "sometimes"`},
		{"format", func(c *Config) { c.Format = "xml" }, `format: "xml"`},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, `log_level: "loud"`},
		{"max depth", func(c *Config) { c.MaxDepth = -1 }, "max_depth: must not be negative"},
		{"node limit", func(c *Config) { c.NodeLimit = -5 }, "node_limit: must not be negative"},
		{"max locals", func(c *Config) { c.MaxLocals = -2 }, "max_locals: must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Color = "x"
	cfg.Format = "y"
	err := cfg.Validate()
	assert.ErrorContains(t, err, "color")
	assert.ErrorContains(t, err, "format")
}

// projectDir creates a temporary directory tree that discovery will not
// escape.
func projectDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindProjectConfig(t *testing.T) {
	root := projectDir(t)
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindProjectConfig(nested)
	require.NoError(t, err)
	assert.Empty(t, path)

	writeFile(t, filepath.Join(root, ".tjc.yaml"), "format: json\n")
	path, err = FindProjectConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".tjc.yaml"), path)

	writeFile(t, filepath.Join(root, "tjc.yaml"), "format: text\n")
	path, err = FindProjectConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "tjc.yaml"), path, "tjc.yaml is preferred")
}

func TestLoadDiscovered(t *testing.T) {
	root := projectDir(t)
	writeFile(t, filepath.Join(root, "tjc.yaml"), "color: never\nmax_locals: 8\n")

	cfg, err := Load(LoadOptions{WorkingDir: filepath.Join(root), IgnoreEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 8, cfg.MaxLocals)
	assert.Equal(t, filepath.Join(root, "tjc.yaml"), cfg.Path)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(LoadOptions{WorkingDir: projectDir(t), IgnoreEnv: true})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "format: json\n")

	cfg, err := Load(LoadOptions{ExplicitPath: path, IgnoreEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	_, err = Load(LoadOptions{ExplicitPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidFile(t *testing.T) {
	root := projectDir(t)
	writeFile(t, filepath.Join(root, "tjc.yaml"), "color: purple\n")

	_, err := Load(LoadOptions{WorkingDir: root, IgnoreEnv: true})
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoadEnvOverrides(t *testing.T) {
	root := projectDir(t)
	writeFile(t, filepath.Join(root, "tjc.yaml"), "format: json\nmax_depth: 10\n")

	t.Setenv("TJC_FORMAT", "text")
	t.Setenv("TJC_MAX_DEPTH", "20")
	t.Setenv("TJC_NODE_LIMIT", "1000")
	t.Setenv("TJC_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 20, cfg.MaxDepth)
	assert.Equal(t, 1000, cfg.NodeLimit)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = Load(LoadOptions{WorkingDir: root, IgnoreEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadEnvInvalidInteger(t *testing.T) {
	t.Setenv("TJC_MAX_LOCALS", "many")
	_, err := Load(LoadOptions{WorkingDir: projectDir(t)})
	assert.ErrorContains(t, err, "invalid integer for TJC_MAX_LOCALS")
}

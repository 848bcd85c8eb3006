package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 24, cfg.Resolution.Sphere)
	assert.Equal(t, 5*time.Second, cfg.EvalTimeout())
	assert.Equal(t, 10*time.Second, cfg.LatexTimeout())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("SHAPEKIT_LATEX_ENDPOINT", "")
	t.Setenv("SHAPEKIT_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("SHAPEKIT_LATEX_ENDPOINT", "")
	t.Setenv("SHAPEKIT_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "shapekit.yaml")
	cfg := Default()
	cfg.Resolution.Sphere = 64
	cfg.Latex.Timeout = "2s"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, loaded.Resolution.Sphere)
	assert.Equal(t, 2*time.Second, loaded.LatexTimeout())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("SHAPEKIT_LATEX_ENDPOINT", "")
	t.Setenv("SHAPEKIT_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution:\n  cone: 7\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Resolution.Cone)
	assert.Equal(t, 24, cfg.Resolution.Cylinder)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHAPEKIT_LATEX_ENDPOINT", "http://localhost:9999/render")
	t.Setenv("SHAPEKIT_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/render", cfg.Latex.Endpoint)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sphere res", func(c *Config) { c.Resolution.Sphere = 0 }},
		{"negative text cells", func(c *Config) { c.Mesh.TextCells = -1 }},
		{"bad latex timeout", func(c *Config) { c.Latex.Timeout = "soon" }},
		{"zero eval timeout", func(c *Config) { c.Engine.EvalTimeout = "0s" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTimeoutFallbacks(t *testing.T) {
	cfg := Default()
	cfg.Latex.Timeout = "nonsense"
	cfg.Engine.EvalTimeout = "-1s"
	assert.Equal(t, 10*time.Second, cfg.LatexTimeout())
	assert.Equal(t, 5*time.Second, cfg.EvalTimeout())
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1)) // debug
	assert.True(t, logger.Core().Enabled(1))   // warn

	cfg.Logging.Level = "nope"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}

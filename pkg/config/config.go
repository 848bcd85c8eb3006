// Package config holds the tunable defaults of shapekit: per-shape
// resolutions, the marching-cubes budget, the formula renderer endpoint,
// the scripting timeout and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all shapekit configuration.
type Config struct {
	Resolution ResolutionConfig `yaml:"resolution"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Latex      LatexConfig      `yaml:"latex"`
	Engine     EngineConfig     `yaml:"engine"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ResolutionConfig sets the default tessellation of each factory.
type ResolutionConfig struct {
	Sphere      int `yaml:"sphere"`
	Spheres     int `yaml:"spheres"`
	Ellipsoid   int `yaml:"ellipsoid"`
	Cylinder    int `yaml:"cylinder"`
	Cone        int `yaml:"cone"`
	Torus       int `yaml:"torus"`
	Tube        int `yaml:"tube"`
	Arrow       int `yaml:"arrow"`
	Circle      int `yaml:"circle"`
	Disc        int `yaml:"disc"`
	Arc         int `yaml:"arc"`
	Grid        int `yaml:"grid"`
	Paraboloid  int `yaml:"paraboloid"`
	Hyperboloid int `yaml:"hyperboloid"`
	Parametric  int `yaml:"parametric"`

	// Curve samples per input point for Spline and KSpline.
	SplinePerPoint int `yaml:"spline_per_point"`
}

// MeshConfig configures implicit surface contouring.
type MeshConfig struct {
	// Marching-cubes cells along the longest side for text.
	TextCells int `yaml:"text_cells"`
}

// LatexConfig configures the remote formula renderer.
type LatexConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
	DPI      int    `yaml:"dpi"`
}

// EngineConfig configures script evaluation.
type EngineConfig struct {
	EvalTimeout string `yaml:"eval_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Resolution: ResolutionConfig{
			Sphere:         24,
			Spheres:        8,
			Ellipsoid:      24,
			Cylinder:       24,
			Cone:           48,
			Torus:          30,
			Tube:           12,
			Arrow:          12,
			Circle:         120,
			Disc:           12,
			Arc:            48,
			Grid:           10,
			Paraboloid:     50,
			Hyperboloid:    100,
			Parametric:     51,
			SplinePerPoint: 20,
		},
		Mesh: MeshConfig{
			TextCells: 120,
		},
		Latex: LatexConfig{
			Endpoint: "https://latex.codecogs.com/png.latex",
			Timeout:  "10s",
			DPI:      100,
		},
		Engine: EngineConfig{
			EvalTimeout: "5s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHAPEKIT_LATEX_ENDPOINT"); v != "" {
		c.Latex.Endpoint = v
	}
	if v := os.Getenv("SHAPEKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects non-positive resolutions and unparsable timeouts.
func (c *Config) Validate() error {
	res := map[string]int{
		"sphere":           c.Resolution.Sphere,
		"spheres":          c.Resolution.Spheres,
		"ellipsoid":        c.Resolution.Ellipsoid,
		"cylinder":         c.Resolution.Cylinder,
		"cone":             c.Resolution.Cone,
		"torus":            c.Resolution.Torus,
		"tube":             c.Resolution.Tube,
		"arrow":            c.Resolution.Arrow,
		"circle":           c.Resolution.Circle,
		"disc":             c.Resolution.Disc,
		"arc":              c.Resolution.Arc,
		"grid":             c.Resolution.Grid,
		"paraboloid":       c.Resolution.Paraboloid,
		"hyperboloid":      c.Resolution.Hyperboloid,
		"parametric":       c.Resolution.Parametric,
		"spline_per_point": c.Resolution.SplinePerPoint,
		"mesh.text_cells":  c.Mesh.TextCells,
		"latex.dpi":        c.Latex.DPI,
	}
	for name, v := range res {
		if v <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", name, v)
		}
	}
	if _, err := parsePositive(c.Latex.Timeout); err != nil {
		return fmt.Errorf("config: latex.timeout: %w", err)
	}
	if _, err := parsePositive(c.Engine.EvalTimeout); err != nil {
		return fmt.Errorf("config: engine.eval_timeout: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	return nil
}

func parsePositive(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// LatexTimeout returns the formula fetch timeout.
func (c *Config) LatexTimeout() time.Duration {
	d, err := parsePositive(c.Latex.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// EvalTimeout returns the script evaluation timeout.
func (c *Config) EvalTimeout() time.Duration {
	d, err := parsePositive(c.Engine.EvalTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// NewLogger builds a zap logger from the logging section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("config: logging.level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}

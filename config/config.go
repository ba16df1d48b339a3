// Package config loads the pipeline's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"render-pipeline/core"
	"render-pipeline/cull"
	"render-pipeline/render"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Window   WindowConfig   `toml:"window"`
	Culling  CullingConfig  `toml:"culling"`
	Compiler CompilerConfig `toml:"compiler"`
	Errors   ErrorsConfig   `toml:"errors"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type CullingConfig struct {
	// Enabled selects the k-d tree culler instead of compiling straight
	// from the scene graph.
	Enabled     bool    `toml:"enabled"`
	MaxDepth    int     `toml:"max_depth"`
	LimitVolume float32 `toml:"limit_volume"`
}

type CompilerConfig struct {
	Extraction     string `toml:"extraction"` // always, once, never
	FrustumCulling bool   `toml:"frustum_culling"`
	ActorAnimation bool   `toml:"actor_animation"`
	SortMode       string `toml:"sort_mode"` // alpha-depth, always-depth, never-depth
}

type ErrorsConfig struct {
	Reaction string `toml:"reaction"` // panic, exit, hang, continue
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "render-pipeline",
			VSync:  true,
		},
		Culling: CullingConfig{
			Enabled:     true,
			MaxDepth:    cull.DefaultMaxDepth,
			LimitVolume: cull.DefaultLimitVolume,
		},
		Compiler: CompilerConfig{
			Extraction:     "always",
			FrustumCulling: true,
			ActorAnimation: true,
			SortMode:       "alpha-depth",
		},
		Errors: ErrorsConfig{Reaction: "panic"},
	}
}

// Parse decodes data over the defaults. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("decode config: %s", strict.String())
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Logging(); err != nil {
		errs = append(errs, err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Culling.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("culling max_depth %d is negative", c.Culling.MaxDepth))
	}
	if c.Culling.LimitVolume < 0 {
		errs = append(errs, fmt.Errorf("culling limit_volume %g is negative", c.Culling.LimitVolume))
	}
	if _, err := render.ParseExtractionMode(c.Compiler.Extraction); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseSortMode(c.Compiler.SortMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := core.ParseReaction(c.Errors.Reaction); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Logging converts the [log] table for core.InitLogger.
func (c *Config) Logging() (core.LogConfig, error) {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		return core.LogConfig{Level: c.Log.Level, Development: c.Log.Development}, nil
	}
	return core.LogConfig{}, fmt.Errorf("unknown log level %q", c.Log.Level)
}

// ApplyErrors installs the configured check reaction.
func (c *Config) ApplyErrors() error {
	r, err := core.ParseReaction(c.Errors.Reaction)
	if err != nil {
		return err
	}
	core.CurrentReaction = r
	return nil
}

func (c *Config) ApplyCuller(cl *cull.Culler) {
	cl.MaxDepth = c.Culling.MaxDepth
	cl.LimitVolume = c.Culling.LimitVolume
}

// ApplyCompiler sets the compiler switches and default sorter. The
// extraction mode is left alone when the compiler is fed by a culler.
func (c *Config) ApplyCompiler(comp *render.Compiler, culled bool) error {
	mode, err := render.ParseSortMode(c.Compiler.SortMode)
	if err != nil {
		return err
	}
	comp.FrustumCulling = c.Compiler.FrustumCulling
	comp.ActorAnimation = c.Compiler.ActorAnimation
	comp.DefaultSorter = &render.StandardSorter{Mode: mode}
	if culled {
		return nil
	}
	ext, err := render.ParseExtractionMode(c.Compiler.Extraction)
	if err != nil {
		return err
	}
	comp.Extraction = ext
	return nil
}

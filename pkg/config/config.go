// Package config loads runtime settings from MDIMENSION_* environment
// variables, with optional command line overrides.
package config

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/chazu/mdimension/pkg/hull"
	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/kernel/incremental"
	"github.com/chazu/mdimension/pkg/kernel/quickhull"
	"github.com/chazu/mdimension/pkg/kernel/sdfx"
)

// Config holds application configuration.
type Config struct {
	EvalTimeout time.Duration `env:"MDIMENSION_EVAL_TIMEOUT" envDefault:"5s"`
	HullTimeout time.Duration `env:"MDIMENSION_HULL_TIMEOUT" envDefault:"10s"`
	Kernel      string        `env:"MDIMENSION_KERNEL"       envDefault:"incremental"`
	NullSpace   string        `env:"MDIMENSION_NULLSPACE"    envDefault:"svd"`
	MaxPoints   int           `env:"MDIMENSION_MAX_POINTS"   envDefault:"100000"`
	Workers     int           `env:"MDIMENSION_WORKERS"      envDefault:"4"`
	Verbose     bool          `env:"MDIMENSION_VERBOSE"`
	// QuickhullEps is the plane epsilon of the quickhull kernel.
	QuickhullEps float64 `env:"MDIMENSION_QUICKHULL_EPS" envDefault:"1e-12"`
}

// Kernel names accepted by NewKernel.
const (
	KernelIncremental = "incremental"
	KernelQuickhull   = "quickhull"
	KernelSdfx        = "sdfx"
)

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// ParseFlags loads the environment, then applies overrides from args.
func ParseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.DurationVar(&cfg.EvalTimeout, "eval-timeout", cfg.EvalTimeout, "scene script evaluation timeout")
	fs.DurationVar(&cfg.HullTimeout, "hull-timeout", cfg.HullTimeout, "convex hull timeout")
	fs.StringVar(&cfg.Kernel, "kernel", cfg.Kernel, "hull kernel (incremental, quickhull, sdfx)")
	fs.StringVar(&cfg.NullSpace, "nullspace", cfg.NullSpace, "facet normal strategy (svd, rejection)")
	fs.IntVar(&cfg.MaxPoints, "max-points", cfg.MaxPoints, "largest accepted point count (0 for no limit)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "polytopes hulled concurrently")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log hull engine diagnostics")
	fs.Float64Var(&cfg.QuickhullEps, "quickhull-eps", cfg.QuickhullEps, "plane epsilon of the quickhull kernel")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("eval timeout must be positive, got %v", c.EvalTimeout)
	}
	if c.HullTimeout <= 0 {
		return fmt.Errorf("hull timeout must be positive, got %v", c.HullTimeout)
	}
	if c.MaxPoints < 0 {
		return fmt.Errorf("max points must not be negative, got %d", c.MaxPoints)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.QuickhullEps <= 0 {
		return fmt.Errorf("quickhull eps must be positive, got %g", c.QuickhullEps)
	}
	switch c.Kernel {
	case KernelIncremental, KernelQuickhull, KernelSdfx:
	default:
		return fmt.Errorf("unknown kernel %q", c.Kernel)
	}
	if _, err := hull.ParseNullSpace(c.NullSpace); err != nil {
		return fmt.Errorf("nullspace: %w", err)
	}
	return nil
}

// HullOptions returns the engine options the configuration selects.
// logger receives engine diagnostics when Verbose is set.
func (c Config) HullOptions(logger *log.Logger) ([]hull.Option, error) {
	ns, err := hull.ParseNullSpace(c.NullSpace)
	if err != nil {
		return nil, fmt.Errorf("nullspace: %w", err)
	}
	opts := []hull.Option{hull.WithNullSpace(ns)}
	if c.Verbose && logger != nil {
		opts = append(opts, hull.WithLogger(logger))
	}
	return opts, nil
}

// NewKernel builds the configured hull kernel.
func (c Config) NewKernel(logger *log.Logger) (kernel.Kernel, error) {
	opts, err := c.HullOptions(logger)
	if err != nil {
		return nil, err
	}
	switch c.Kernel {
	case KernelIncremental:
		return incremental.New(opts...), nil
	case KernelQuickhull:
		return quickhull.New().WithEps(c.QuickhullEps), nil
	case KernelSdfx:
		return sdfx.New(opts...), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", c.Kernel)
}

// CheckPoints enforces MaxPoints.
func (c Config) CheckPoints(n int) error {
	if c.MaxPoints > 0 && n > c.MaxPoints {
		return fmt.Errorf("%d points exceed the limit of %d", n, c.MaxPoints)
	}
	return nil
}

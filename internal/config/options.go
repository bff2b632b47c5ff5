package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/quadfit/pkg/quadric"
)

// FitConfig is the JSON form of the fit options. Omitted fields fall back to
// the quadric package defaults, so partial files are safe.
type FitConfig struct {
	NullspaceThreshold  *float64 `json:"nullspace_threshold,omitempty"`
	ConstraintThreshold *float64 `json:"constraint_threshold,omitempty"`
	// RegularizationWeights overrides the per-coefficient penalty outright.
	RegularizationWeights []float64 `json:"regularization_weights,omitempty"`
	// RegularizationScale multiplies the default weight shape; ignored when
	// RegularizationWeights is set.
	RegularizationScale *float64 `json:"regularization_scale,omitempty"`
	Workers             *int     `json:"workers,omitempty"`

	SampleMode *string `json:"sample_mode,omitempty"`
}

// LoadFitConfig reads a FitConfig from a .json file of at most 1MB
func LoadFitConfig(path string) (*FitConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &FitConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// GetNullspaceThreshold returns the configured ε₁ or the default
func (c *FitConfig) GetNullspaceThreshold() float64 {
	if c.NullspaceThreshold != nil {
		return *c.NullspaceThreshold
	}
	return quadric.DefaultNullspaceThreshold
}

// GetConstraintThreshold returns the configured ε₂ or the default
func (c *FitConfig) GetConstraintThreshold() float64 {
	if c.ConstraintThreshold != nil {
		return *c.ConstraintThreshold
	}
	return quadric.DefaultConstraintThreshold
}

// GetRegularizationWeights returns explicit weights, else the default shape
// times the configured or default scale
func (c *FitConfig) GetRegularizationWeights() [quadric.NumCoefficients]float64 {
	if len(c.RegularizationWeights) == quadric.NumCoefficients {
		var w [quadric.NumCoefficients]float64
		copy(w[:], c.RegularizationWeights)
		return w
	}
	scale := quadric.DefaultRegularizationScale
	if c.RegularizationScale != nil {
		scale = *c.RegularizationScale
	}
	return quadric.ScaledWeights(scale)
}

// GetWorkers returns the configured worker count or 1
func (c *FitConfig) GetWorkers() int {
	if c.Workers != nil {
		return *c.Workers
	}
	return 1
}

// GetSampleMode returns the configured sample mode or "vertex"
func (c *FitConfig) GetSampleMode() string {
	if c.SampleMode != nil {
		return *c.SampleMode
	}
	return "vertex"
}

// Options converts the config into quadric.Options
func (c *FitConfig) Options() quadric.Options {
	return quadric.Options{
		NullspaceThreshold:    c.GetNullspaceThreshold(),
		ConstraintThreshold:   c.GetConstraintThreshold(),
		RegularizationWeights: c.GetRegularizationWeights(),
		Workers:               c.GetWorkers(),
	}
}

// Validate checks field shapes and then the resulting options
func (c *FitConfig) Validate() error {
	if n := len(c.RegularizationWeights); n != 0 && n != quadric.NumCoefficients {
		return fmt.Errorf("regularization_weights needs %d values, got %d", quadric.NumCoefficients, n)
	}
	if c.SampleMode != nil && *c.SampleMode != "vertex" && *c.SampleMode != "facet" {
		return fmt.Errorf("sample_mode must be \"vertex\" or \"facet\", got %q", *c.SampleMode)
	}
	return c.Options().Validate()
}

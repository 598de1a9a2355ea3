// Package config loads optional JSON tuning for the scene pipeline. Fields
// omitted from the file keep their defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/roadview/internal/scene"
	"github.com/banshee-data/roadview/internal/units"
)

// TuningConfig represents the root tuning parameters. Pointer fields
// distinguish "unset" from zero values.
type TuningConfig struct {
	// Viewport params
	ViewportWidth  *int  `json:"viewport_width,omitempty"`
	ViewportHeight *int  `json:"viewport_height,omitempty"`
	YOffset        *int  `json:"y_offset,omitempty"`
	WideCamera     *bool `json:"wide_camera,omitempty"`

	// Synchronizer params
	SubRateTicks     *int   `json:"sub_rate_ticks,omitempty"`
	StaleTicks       *int64 `json:"stale_ticks,omitempty"`
	BlinkerRetrigger *int   `json:"blinker_retrigger,omitempty"`

	// Lead-aware path truncation policy (coefficients only; the clamp to
	// the drawable range is not tunable)
	LeadScale        *float64 `json:"lead_scale,omitempty"`
	ComfortFraction  *float64 `json:"comfort_fraction,omitempty"`
	ComfortCapMeters *float64 `json:"comfort_cap_meters,omitempty"`

	// Display params
	Units *string `json:"units,omitempty"`

	// Drive log params
	RecordEveryTicks *int `json:"record_every_ticks,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// have a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values outside sane operating ranges.
func (c *TuningConfig) Validate() error {
	if c.ViewportWidth != nil && *c.ViewportWidth <= 0 {
		return fmt.Errorf("viewport_width must be positive, got %d", *c.ViewportWidth)
	}
	if c.ViewportHeight != nil && *c.ViewportHeight <= 0 {
		return fmt.Errorf("viewport_height must be positive, got %d", *c.ViewportHeight)
	}
	if c.SubRateTicks != nil && *c.SubRateTicks <= 0 {
		return fmt.Errorf("sub_rate_ticks must be positive, got %d", *c.SubRateTicks)
	}
	if c.StaleTicks != nil && *c.StaleTicks < 0 {
		return fmt.Errorf("stale_ticks must not be negative, got %d", *c.StaleTicks)
	}
	if c.LeadScale != nil && *c.LeadScale <= 0 {
		return fmt.Errorf("lead_scale must be positive, got %v", *c.LeadScale)
	}
	if c.ComfortFraction != nil && (*c.ComfortFraction < 0 || *c.ComfortFraction >= 1) {
		return fmt.Errorf("comfort_fraction must be in [0, 1), got %v", *c.ComfortFraction)
	}
	if c.ComfortCapMeters != nil && *c.ComfortCapMeters < 0 {
		return fmt.Errorf("comfort_cap_meters must not be negative, got %v", *c.ComfortCapMeters)
	}
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("units must be one of %v, got %q", units.ValidUnits, *c.Units)
	}
	if c.RecordEveryTicks != nil && *c.RecordEveryTicks <= 0 {
		return fmt.Errorf("record_every_ticks must be positive, got %d", *c.RecordEveryTicks)
	}
	return nil
}

// GetUnits returns the configured display units or the m/s default.
func (c *TuningConfig) GetUnits() string {
	if c.Units != nil {
		return *c.Units
	}
	return units.MPS
}

// GetRecordEveryTicks returns the drive log recording interval in ticks.
func (c *TuningConfig) GetRecordEveryTicks() int {
	if c.RecordEveryTicks != nil {
		return *c.RecordEveryTicks
	}
	return scene.UpdateFreqHz // once per second at the nominal tick rate
}

// SyncConfig builds the synchronizer configuration, applying configured
// overrides on top of the defaults.
func (c *TuningConfig) SyncConfig() scene.SyncConfig {
	cfg := scene.DefaultSyncConfig()
	if c.ViewportWidth != nil {
		cfg.ViewportWidth = *c.ViewportWidth
	}
	if c.ViewportHeight != nil {
		cfg.ViewportHeight = *c.ViewportHeight
	}
	if c.YOffset != nil {
		cfg.YOffset = *c.YOffset
	}
	if c.WideCamera != nil {
		cfg.WideCamera = *c.WideCamera
	}
	if c.SubRateTicks != nil {
		cfg.SubRateTicks = *c.SubRateTicks
	}
	if c.StaleTicks != nil {
		cfg.StaleTicks = uint64(*c.StaleTicks)
	}
	if c.BlinkerRetrigger != nil {
		cfg.BlinkerRetrigger = *c.BlinkerRetrigger
	}
	if c.LeadScale != nil {
		cfg.Truncation.LeadScale = float32(*c.LeadScale)
	}
	if c.ComfortFraction != nil {
		cfg.Truncation.ComfortFraction = float32(*c.ComfortFraction)
	}
	if c.ComfortCapMeters != nil {
		cfg.Truncation.ComfortCapMeters = float32(*c.ComfortCapMeters)
	}
	return cfg
}

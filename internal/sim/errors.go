package sim

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid configuration")
	ErrNilClock      = errors.New("sim: clock is required")
	ErrNilViewport   = errors.New("sim: viewport is required")
)

// ConfigError names the offending field of a rejected Config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func (c Config) Validate() error {
	for _, cat := range Categories() {
		spec := c.Categories[cat]
		if spec.BaseRadius <= 0 {
			return &ConfigError{Field: cat.String() + ".base_radius", Reason: "must be positive"}
		}
		if spec.MaxCount <= 0 {
			return &ConfigError{Field: cat.String() + ".max_count", Reason: "must be positive"}
		}
	}
	if c.UnitArea <= 0 {
		return &ConfigError{Field: "unit_area", Reason: "must be positive"}
	}
	if c.AnimationDuration <= 0 {
		return &ConfigError{Field: "animation_duration", Reason: "must be positive"}
	}
	if c.MaxSpeed < 0 || c.RepulsionImpulse < 0 || c.CenteringStrength < 0 {
		return &ConfigError{Field: "physics", Reason: "must not be negative"}
	}
	if c.ResyncAfter < 0 {
		return &ConfigError{Field: "resync_after", Reason: "must not be negative"}
	}
	return nil
}

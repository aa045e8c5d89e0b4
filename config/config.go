// Package config holds the site-wide settings shared by every component on a
// page, such as the animation speed and the responsive breakpoint.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

const (
	DefaultAnimationSpeed   = 200
	DefaultMobileBreakpoint = "(max-width: 640px)"
	DefaultMarker           = "data-component"
)

// Settings shared by all components.  Components must treat these as
// read-only.
type Settings struct {
	// Animation speed, in milliseconds; defaults to 200.
	AnimationSpeed int `yaml:"animationSpeed"`
	// Media query for the mobile breakpoint.
	MobileBreakpoint string `yaml:"mobileBreakpoint"`
	// Attribute naming the component of an element; defaults to `data-component`.
	Marker string `yaml:"marker"`
}

// Default returns the settings used when no configuration file is given.
func Default() Settings {
	return Settings{
		AnimationSpeed:   DefaultAnimationSpeed,
		MobileBreakpoint: DefaultMobileBreakpoint,
		Marker:           DefaultMarker,
	}
}

// Load settings from YAML; missing keys keep their defaults, and unknown keys
// are an error.
func Load(r io.Reader) (Settings, error) {
	settings := Default()
	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if settings.Marker == "" {
		return Settings{}, fmt.Errorf("marker attribute must not be empty")
	}
	if settings.AnimationSpeed < 0 {
		return Settings{}, fmt.Errorf("invalid animation speed %d", settings.AnimationSpeed)
	}
	return settings, nil
}

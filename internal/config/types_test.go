// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/plugstack/plugstack/internal/artifact"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value ColorScheme
		want  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"neon", false},
	}
	for _, tt := range tests {
		valid, errs := tt.value.IsValid()
		if valid != tt.want {
			t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
		}
		if !valid && !errors.Is(errs[0], ErrInvalidColorScheme) {
			t.Errorf("error should wrap ErrInvalidColorScheme, got %v", errs[0])
		}
	}
}

func TestResourceName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value ResourceName
		want  bool
	}{
		{"bootstrap.sh", true},
		{"init/boot.sh", true},
		{"", false},
		{"  ", false},
		{"/abs.sh", false},
		{`dir\boot.sh`, false},
	}
	for _, tt := range tests {
		valid, errs := tt.value.IsValid()
		if valid != tt.want {
			t.Errorf("ResourceName(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
		}
		if !valid && !errors.Is(errs[0], ErrInvalidResourceName) {
			t.Errorf("error should wrap ErrInvalidResourceName, got %v", errs[0])
		}
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		wantIs error
	}{
		{"defaults", func(*Config) {}, nil},
		{"empty suffix", func(c *Config) { c.Plugins.Suffix = "" }, artifact.ErrInvalidSuffix},
		{"same suffixes", func(c *Config) { c.Plugins.DocsSuffix = c.Plugins.Suffix }, ErrInvalidPluginsConfig},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, ErrInvalidDebounce},
		{"bad color", func(c *Config) { c.UI.ColorScheme = "x" }, ErrInvalidColorScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()
			if tt.wantIs == nil {
				if !valid {
					t.Errorf("IsValid() = false: %v", errs)
				}
				return
			}
			if valid {
				t.Fatal("IsValid() = true, want false")
			}
			err := errors.Join(errs...)
			if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want ErrInvalidConfig and %v", err, tt.wantIs)
			}
		})
	}
}

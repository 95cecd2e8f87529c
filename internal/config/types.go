// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/plugstack/plugstack/internal/artifact"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultHomeDirName is the home directory name below the user's home.
	DefaultHomeDirName = ".plugstack"
	// DefaultBootstrapResource is the default per-module bootstrap resource.
	DefaultBootstrapResource ResourceName = "bootstrap.sh"
	// DefaultDebounce is the default watch debounce.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidResourceName is returned when a ResourceName is empty or not a relative slash path.
	ErrInvalidResourceName = errors.New("invalid resource name")
	// ErrInvalidDebounce is returned when the watch debounce is negative.
	ErrInvalidDebounce = errors.New("invalid watch debounce")
	// ErrInvalidPluginsConfig is the sentinel error wrapped by InvalidPluginsConfigError.
	ErrInvalidPluginsConfig = errors.New("invalid plugins config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ResourceName is a slash-separated resource name inside a module archive.
	ResourceName string

	// InvalidResourceNameError is returned when a ResourceName is not usable.
	InvalidResourceNameError struct {
		Value ResourceName
	}

	// InvalidDebounceError is returned when a watch debounce is negative.
	InvalidDebounceError struct {
		Value time.Duration
	}

	// InvalidPluginsConfigError collects the field errors of a PluginsConfig.
	InvalidPluginsConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Home is the plugstack home directory. Empty means ~/.plugstack.
		Home string `json:"home" mapstructure:"home"`
		// Plugins configures plugin discovery and composition.
		Plugins PluginsConfig `json:"plugins" mapstructure:"plugins"`
		// Watch configures plugin directory watching.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// PluginsConfig configures plugin discovery and composition.
	PluginsConfig struct {
		// Enabled turns composition on. False is safe mode.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Suffix identifies module archives.
		Suffix artifact.Suffix `json:"suffix" mapstructure:"suffix"`
		// DocsSuffix identifies documentation archives.
		DocsSuffix artifact.Suffix `json:"docs_suffix" mapstructure:"docs_suffix"`
		// BootstrapResource is gathered from every module into the bootstrap code.
		BootstrapResource ResourceName `json:"bootstrap_resource" mapstructure:"bootstrap_resource"`
	}

	// WatchConfig configures plugin directory watching.
	WatchConfig struct {
		// Debounce is the quiet period before a change triggers a refresh.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Plugins: PluginsConfig{
			Enabled:           true,
			Suffix:            artifact.DefaultSuffix,
			DocsSuffix:        artifact.DefaultDocsSuffix,
			BootstrapResource: DefaultBootstrapResource,
		},
		Watch: WatchConfig{Debounce: DefaultDebounce},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// HomeDir returns the configured home directory, falling back to
// ~/.plugstack.
func (c Config) HomeDir() (string, error) {
	if c.Home != "" {
		return filepath.Abs(c.Home)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultHomeDirName), nil
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Plugins.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &InvalidDebounceError{Value: c.Watch.Debounce})
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the PluginsConfig has valid fields. The suffixes
// must not collide: a docs suffix equal to the module suffix would make
// every archive both a module and its documentation.
func (c PluginsConfig) IsValid() (bool, []error) {
	var errs []error
	for _, s := range []artifact.Suffix{c.Suffix, c.DocsSuffix} {
		if valid, fieldErrs := s.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Suffix != "" && c.Suffix == c.DocsSuffix {
		errs = append(errs, fmt.Errorf("%w: docs suffix %q equals module suffix", artifact.ErrInvalidSuffix, c.DocsSuffix))
	}
	if valid, fieldErrs := c.BootstrapResource.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPluginsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPluginsConfigError.
func (e *InvalidPluginsConfigError) Error() string {
	return fmt.Sprintf("invalid plugins config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidPluginsConfig and the field errors.
func (e *InvalidPluginsConfigError) Unwrap() []error {
	return append([]error{ErrInvalidPluginsConfig}, e.FieldErrors...)
}

// String returns the string representation of the ResourceName.
func (n ResourceName) String() string { return string(n) }

// IsValid returns whether the ResourceName is a non-empty relative slash path.
func (n ResourceName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.HasPrefix(s, "/") || strings.Contains(s, `\`) {
		return false, []error{&InvalidResourceNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidResourceNameError.
func (e *InvalidResourceNameError) Error() string {
	return fmt.Sprintf("invalid resource name %q: must be a relative slash-separated path", e.Value)
}

// Unwrap returns ErrInvalidResourceName for errors.Is() compatibility.
func (e *InvalidResourceNameError) Unwrap() error { return ErrInvalidResourceName }

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid watch debounce %s: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

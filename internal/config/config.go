// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/plugstack/plugstack/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "plugstack"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PLUGSTACK"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// maxConfigFileSize bounds the config file read into memory.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigExists is returned by CreateDefaultConfig when the target file exists.
var ErrConfigExists = errors.New("config file already exists")

// ConfigDir returns the plugstack configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns <ConfigDir>/config.cue.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a viper instance holding the defaults and the environment
// bindings.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("home", defaults.Home)
	v.SetDefault("plugins.enabled", defaults.Plugins.Enabled)
	v.SetDefault("plugins.suffix", defaults.Plugins.Suffix.String())
	v.SetDefault("plugins.docs_suffix", defaults.Plugins.DocsSuffix.String())
	v.SetDefault("plugins.bootstrap_resource", defaults.Plugins.BootstrapResource.String())
	v.SetDefault("watch.debounce", defaults.Watch.Debounce.String())
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the resolved config file path, empty when
// only defaults and the environment applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !FileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'plugstack config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %w", os.ErrNotExist)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			dir, err := ConfigDir()
			if err != nil {
				return nil, "", err
			}
			cfgDir = dir
		}
		if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); FileExists(cuePath) {
			resolvedPath = cuePath
		}
		// No config file means defaults and environment only.
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'plugstack config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the PLUGSTACK_* environment variables").
			WithSuggestion("Module and docs suffixes must differ and must not contain path separators").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The file decodes into a map rather than a struct so viper keeps the
// defaults for absent keys and the environment still overrides the file.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, maxConfigFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path, or to the
// default config path when path is empty. It refuses to overwrite an
// existing file and returns the written path.
func CreateDefaultConfig(path string) (string, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := Save(DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Save writes cfg as CUE to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// plugstack configuration file\n\n")

	if cfg.Home != "" {
		fmt.Fprintf(&sb, "home: %q\n\n", cfg.Home)
	}

	sb.WriteString("plugins: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Plugins.Enabled)
	fmt.Fprintf(&sb, "\tsuffix: %q\n", cfg.Plugins.Suffix)
	fmt.Fprintf(&sb, "\tdocs_suffix: %q\n", cfg.Plugins.DocsSuffix)
	fmt.Fprintf(&sb, "\tbootstrap_resource: %q\n", cfg.Plugins.BootstrapResource)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

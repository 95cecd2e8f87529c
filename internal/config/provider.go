// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}

	// StaticProvider returns a fixed configuration. Useful in tests and for
	// embedding the engine without touching the user's config file.
	StaticProvider struct {
		Config *Config
	}
)

// NewProvider creates a configuration provider backed by the config file and
// the environment.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load returns a copy of the static configuration, or the defaults when unset.
func (p StaticProvider) Load(_ context.Context, _ LoadOptions) (*Config, error) {
	if p.Config == nil {
		return DefaultConfig(), nil
	}
	cfg := *p.Config
	return &cfg, nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/plugstack/plugstack/internal/artifact"
	"github.com/plugstack/plugstack/internal/config"
	"github.com/plugstack/plugstack/internal/issue"
)

// newConfigCommand creates the `plugstack config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plugstack configuration",
		Long: `Manage plugstack configuration.

Configuration is stored in:
  - Linux: ~/.config/plugstack/config.cue
  - macOS: ~/Library/Application Support/plugstack/config.cue
  - Windows: %APPDATA%\plugstack\config.cue

Every key can be overridden with a PLUGSTACK_ environment variable,
e.g. PLUGSTACK_PLUGINS_ENABLED=false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		}),
	})

	var initPath string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(_ *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig(initPath)
			if err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return issue.NewErrorContext().
						WithOperation("create configuration").
						WithResource(path).
						WithSuggestion("Edit the existing file or remove it first").
						Wrap(err).
						BuildError()
				}
				return err
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		}),
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "write the configuration to this file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(_ *cobra.Command, _ []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			cfgPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  plugstack config set plugins.enabled false
  plugstack config set watch.debounce 2s`,
		Args: cobra.ExactArgs(2),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		}),
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	keyStyle := IDStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	cfgFile := app.flags.configPath
	if cfgFile == "" {
		if p, pathErr := config.DefaultConfigPath(); pathErr == nil && config.FileExists(p) {
			cfgFile = p
		}
	}
	if cfgFile != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgFile)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	home, err := cfg.HomeDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("home"), valueStyle.Render(home))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("plugins"))
	fmt.Fprintf(app.stdout, "  enabled: %s\n", valueStyle.Render(strconv.FormatBool(cfg.Plugins.Enabled)))
	fmt.Fprintf(app.stdout, "  suffix: %s\n", valueStyle.Render(cfg.Plugins.Suffix.String()))
	fmt.Fprintf(app.stdout, "  docs_suffix: %s\n", valueStyle.Render(cfg.Plugins.DocsSuffix.String()))
	fmt.Fprintf(app.stdout, "  bootstrap_resource: %s\n", valueStyle.Render(cfg.Plugins.BootstrapResource.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(app.stdout, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.flags.configPath})
	if err != nil {
		return err
	}

	switch key {
	case "home":
		cfg.Home = value
	case "plugins.enabled":
		b, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			return fmt.Errorf("invalid value for %s: %w", key, parseErr)
		}
		cfg.Plugins.Enabled = b
	case "plugins.suffix":
		cfg.Plugins.Suffix = artifact.Suffix(value)
	case "plugins.docs_suffix":
		cfg.Plugins.DocsSuffix = artifact.Suffix(value)
	case "plugins.bootstrap_resource":
		cfg.Plugins.BootstrapResource = config.ResourceName(value)
	case "watch.debounce":
		d, parseErr := time.ParseDuration(value)
		if parseErr != nil {
			return fmt.Errorf("invalid value for %s: %w", key, parseErr)
		}
		cfg.Watch.Debounce = d
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		b, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			return fmt.Errorf("invalid value for %s: %w", key, parseErr)
		}
		cfg.UI.Verbose = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if isValid, errs := cfg.IsValid(); !isValid {
		return errors.Join(errs...)
	}

	path := app.flags.configPath
	if path == "" {
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

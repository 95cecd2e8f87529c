// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/plugstack/plugstack/internal/config"
	"github.com/plugstack/plugstack/internal/engine"
	"github.com/plugstack/plugstack/internal/issue"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and builds the engine through it.
	App struct {
		Config config.Provider
		Host   fs.FS
		stdout io.Writer
		stderr io.Writer
		flags  rootFlagValues
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Host   fs.FS
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flags of the root command.
	rootFlagValues struct {
		verbose    bool
		configPath string
		home       string
		safeMode   bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Host == nil {
		deps.Host = HostFS()
	}
	return &App{
		Config: deps.Config,
		Host:   deps.Host,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads the configuration and applies the root flags over it.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, err
	}
	if a.flags.home != "" {
		cfg.Home = a.flags.home
	}
	if a.flags.safeMode {
		cfg.Plugins.Enabled = false
	}
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}
	return cfg, nil
}

func (a *App) verbose() bool { return a.flags.verbose }

func (a *App) logger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if cfg != nil && cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newEngine builds an engine from the configuration without composing.
func (a *App) newEngine(ctx context.Context) (*engine.Engine, *config.Config, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	home, err := cfg.HomeDir()
	if err != nil {
		return nil, nil, err
	}
	e, err := engine.New(engine.Options{
		Home:              home,
		Enabled:           cfg.Plugins.Enabled,
		Suffix:            cfg.Plugins.Suffix,
		DocsSuffix:        cfg.Plugins.DocsSuffix,
		BootstrapResource: cfg.Plugins.BootstrapResource.String(),
		Host:              a.Host,
		HostSource:        hostSource,
		Logger:            a.logger(cfg),
	})
	if err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}

// composedEngine builds an engine and runs the first composition cycle.
func (a *App) composedEngine(ctx context.Context) (*engine.Engine, *config.Config, error) {
	e, cfg, err := a.newEngine(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := e.Compose(ctx); err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}

// warnModuleErrors prints the module-scoped failures of the latest cycle.
func (a *App) warnModuleErrors(e *engine.Engine) int {
	errs := e.Snapshot().Report().Errors
	for _, me := range errs {
		fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("!"), me.Error())
	}
	if len(errs) > 0 && a.verbose() {
		if rendered, err := issue.Get(issue.ModuleCompositionFailedId).Render(""); err == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	return len(errs)
}

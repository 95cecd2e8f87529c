// SPDX-License-Identifier: MPL-2.0

package activation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/plugstack/plugstack/internal/composition"
)

// Environment variables exposed to bootstrap scripts.
const (
	EnvModule     = "PLUGSTACK_MODULE"
	EnvModuleFile = "PLUGSTACK_MODULE_FILE"
)

// ScriptProvider runs a module's bootstrap script in the embedded shell
// interpreter. Modules without bootstrap code activate as a no-op.
type ScriptProvider struct {
	// Dir is the working directory of the script. Empty means the current directory.
	Dir string
	// Env is the base environment. Nil inherits the process environment.
	Env []string
	// Stdout and Stderr receive script output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Activate parses and runs m.Bootstrap.
func (p ScriptProvider) Activate(ctx context.Context, m composition.Module) error {
	if strings.TrimSpace(m.Bootstrap) == "" {
		return nil
	}
	return p.Run(ctx, string(m.ID), m.Bootstrap,
		EnvModule+"="+string(m.ID),
		EnvModuleFile+"="+m.File.Path,
	)
}

// Run runs script with the provider's settings. extraEnv entries are
// appended to the base environment.
func (p ScriptProvider) Run(ctx context.Context, name, script string, extraEnv ...string) error {
	env := p.Env
	if env == nil {
		env = os.Environ()
	}
	env = append(env[:len(env):len(env)], extraEnv...)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, writerOrDiscard(p.Stdout), writerOrDiscard(p.Stderr)),
	}
	if p.Dir != "" {
		opts = append(opts, interp.Dir(p.Dir))
	}
	return RunScript(ctx, script, name, opts...)
}

// RunScript parses and runs script in a fresh interpreter. A non-zero exit
// status is returned as an error.
func RunScript(ctx context.Context, script, name string, opts ...interp.RunnerOption) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("parse bootstrap script: %w", err)
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("bootstrap script exited with status %d", int(exitStatus))
		}
		return fmt.Errorf("run bootstrap script: %w", err)
	}
	return nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

package events

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/abrt/abrt-cli/internal/debug"
)

// Runner executes events through the shell in the problem directory.
type Runner struct {
	Registry *Registry
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	// Shell defaults to /bin/sh.
	Shell string
}

// NewRunner returns a runner wired to the process's standard streams.
func NewRunner(reg *Registry) *Runner {
	return &Runner{
		Registry: reg,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Run expands the named event and runs it with vars.Dir as the working
// directory. The command is killed when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, name string, vars Vars) error {
	def, err := r.Registry.Lookup(name)
	if err != nil {
		return err
	}
	command, err := def.Expand(vars)
	if err != nil {
		return err
	}

	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	debug.Logf("running event %s in %s: %s\n", name, vars.Dir, command)

	cmd := exec.CommandContext(ctx, shell, "-c", command) // #nosec G204 -- event commands are user configuration
	cmd.Dir = vars.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = append(os.Environ(), "DUMP_DIR="+vars.Dir)
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("event %s: %w", name, ctxErr)
		}
		return fmt.Errorf("event %s: %w", name, err)
	}
	return nil
}

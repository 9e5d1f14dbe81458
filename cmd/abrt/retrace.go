package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/config"
	"github.com/abrt/abrt-cli/internal/events"
	"github.com/abrt/abrt-cli/internal/types"
)

type retraceOptions struct {
	local  bool
	remote bool
	force  bool
}

const remoteRetraceQuestion = "Upload core dump and perform remote retracing? (It may contain sensitive data). " +
	"If your answer is 'No', a stack trace will be generated locally. " +
	"Local retracing requires downloading potentially large amount of debuginfo data"

func newRetraceCmd(a *app) *cobra.Command {
	var opts retraceOptions
	cmd := &cobra.Command{
		Use:               "retrace [MATCH]",
		GroupID:           "tools",
		Short:             "Generate a backtrace from a core dump",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.getProblem(a.context(), cmd.OutOrStdout(), matchArg(args))
			if err != nil {
				return err
			}
			return a.retrace(cmd, p, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.local, "local", "l", false, "Perform local retracing")
	cmd.Flags().BoolVarP(&opts.remote, "remote", "r", false, "Perform remote retracing")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Force retracing even if a backtrace already exists")
	cmd.MarkFlagsMutuallyExclusive("local", "remote")
	return cmd
}

func (a *app) retrace(cmd *cobra.Command, p *types.Problem, opts retraceOptions) error {
	out := cmd.OutOrStdout()
	switch {
	case p.HasBacktrace() && !opts.force:
		fmt.Fprintln(out, "Problem already has a backtrace")
		fmt.Fprintln(out, "Run abrt retrace with -f/--force to retrace again")
		ok, err := a.confirm("Show backtrace?", true)
		if err != nil || !ok {
			return err
		}
		return a.printBacktrace(cmd, p, false)
	case !p.Kind.SupportsBacktraceTools():
		fmt.Fprintln(out, "No retracing possible for this problem type")
		return nil
	}

	remote := opts.remote
	if !opts.local && !opts.remote {
		ok, err := a.confirm(remoteRetraceQuestion, false)
		if err != nil {
			return err
		}
		remote = ok
	}

	event := events.EventLocalGDB
	if remote {
		fmt.Fprintln(out, "Remote retracing")
		event = events.EventRetraceServer
	} else {
		fmt.Fprintln(out, "Local retracing")
	}
	return a.ensureRunner().Run(a.context(), event, a.eventVars(p))
}

// eventVars are the template values for events run on p.
func (a *app) eventVars(p *types.Problem) events.Vars {
	vars := events.Vars{
		Dir:           p.Path,
		ShortID:       p.ShortID,
		Executable:    p.Executable,
		DebuginfoPath: config.GetString(config.KeyDebuginfoPath),
	}
	// root installs debuginfo directly, everyone else through the libexec helper
	if a.geteuid() != 0 {
		vars.LibexecDir = config.GetString(config.KeyLibexecDir)
	}
	return vars
}

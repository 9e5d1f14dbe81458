package main

import (
	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/events"
	"github.com/abrt/abrt-cli/internal/types"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "report [MATCH]",
		Aliases:           []string{"e"},
		GroupID:           "tools",
		Short:             "Report a problem",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.getProblem(a.context(), cmd.OutOrStdout(), matchArg(args))
			if err != nil {
				return err
			}
			return a.ensureRunner().Run(a.context(), events.EventReportCLI, a.eventVars(p))
		},
	}
}

func newGDBCmd(a *app) *cobra.Command {
	var installDebuginfo bool
	cmd := &cobra.Command{
		Use:               "gdb [MATCH]",
		GroupID:           "tools",
		Short:             "Run gdb against a problem",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := matchArg(args)
			p, err := a.getProblem(a.context(), cmd.OutOrStdout(), token)
			if err != nil {
				return err
			}
			if !p.Kind.SupportsBacktraceTools() {
				return unsupportedKind(cmd.OutOrStdout(), token, "run gdb")
			}
			if installDebuginfo {
				if err := a.installDebuginfo(p); err != nil {
					return err
				}
			}
			return a.ensureRunner().Run(a.context(), events.EventGDB, a.eventVars(p))
		},
	}
	cmd.Flags().BoolVarP(&installDebuginfo, "debuginfo-install", "d", false, "Install debuginfo prior to launching gdb")
	return cmd
}

func newDebuginfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "debuginfo-install [MATCH]",
		Aliases:           []string{"di"},
		GroupID:           "tools",
		Short:             "Install debuginfo packages needed by a problem",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := matchArg(args)
			p, err := a.getProblem(a.context(), cmd.OutOrStdout(), token)
			if err != nil {
				return err
			}
			if !p.Kind.SupportsBacktraceTools() {
				return unsupportedKind(cmd.OutOrStdout(), token, "install debuginfo")
			}
			return a.installDebuginfo(p)
		},
	}
}

func (a *app) installDebuginfo(p *types.Problem) error {
	return a.ensureRunner().Run(a.context(), events.EventDebuginfoInstall, a.eventVars(p))
}

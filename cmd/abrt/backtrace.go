package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/types"
	"github.com/abrt/abrt-cli/internal/ui"
)

func newBacktraceCmd(a *app) *cobra.Command {
	var noPager bool
	cmd := &cobra.Command{
		Use:               "backtrace [MATCH]",
		Aliases:           []string{"bt"},
		GroupID:           "tools",
		Short:             "Print the backtrace of a problem",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := matchArg(args)
			out := cmd.OutOrStdout()
			p, err := a.getProblem(a.context(), out, token)
			if err != nil {
				return err
			}
			if p.HasBacktrace() {
				return a.printBacktrace(cmd, p, noPager)
			}

			fmt.Fprintln(out, "Problem has no backtrace")
			if !p.Kind.SupportsBacktraceTools() {
				return nil
			}
			ok, err := a.confirm("Start retracing process?", true)
			if err != nil || !ok {
				return err
			}
			return a.retrace(cmd, p, retraceOptions{})
		},
	}
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "Do not pipe output through a pager")
	return cmd
}

func (a *app) printBacktrace(cmd *cobra.Command, p *types.Problem, noPager bool) error {
	out := cmd.OutOrStdout()
	if a.structured() {
		return a.encode(out, map[string]string{
			"id":        p.ShortID,
			"match":     p.MatchString(),
			"backtrace": p.Backtrace,
		})
	}
	content := ui.RenderID("id "+p.ShortID) + "\n" + strings.TrimRight(p.Backtrace, "\n") + "\n"
	return ui.ToPager(content, ui.PagerOptions{NoPager: noPager, Out: out})
}

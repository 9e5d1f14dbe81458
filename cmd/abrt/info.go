package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/config"
)

func newInfoCmd(a *app) *cobra.Command {
	var fmtStr, pretty string
	cmd := &cobra.Command{
		Use:               "info [MATCH]",
		Aliases:           []string{"show"},
		GroupID:           "problems",
		Short:             "Print information about a problem",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pretty") {
				pretty = config.GetString(config.KeyInfoPretty)
			}
			formatter, err := newProblemFormatter(pretty, fmtStr)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p, err := a.getProblem(a.context(), out, matchArg(args))
			if err != nil {
				return err
			}
			if a.structured() {
				return a.encode(out, p)
			}
			s, err := formatter.Format(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&fmtStr, "fmt", "", "Go template used to render the problem")
	cmd.Flags().StringVar(&pretty, "pretty", prettyFull, "Built-in output format: "+strings.Join(prettyFormats, ", "))
	_ = cmd.RegisterFlagCompletionFunc("pretty", cobra.FixedCompletions(prettyFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		opts listOptions
		bare bool
	)
	cmd := &cobra.Command{
		Use:     "status",
		GroupID: "problems",
		Short:   "Print the number of problems",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := buildFilter(opts, a.now())
			if err != nil {
				return err
			}
			problems, err := a.selectProblems(a.context(), opts, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.structured() {
				status := map[string]interface{}{"count": len(problems)}
				if opts.since != "" {
					status["since"] = filter.Since
				}
				return a.encode(out, status)
			}
			if bare {
				fmt.Fprintln(out, len(problems))
				return nil
			}
			hint := "abrt list"
			if opts.since != "" {
				hint += " --since " + opts.since
			}
			fmt.Fprintf(out, "ABRT has detected %d problem(s). For more info run: %s\n", len(problems), hint)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&bare, "bare", "b", false, "Print only the problem count without any message")
	cmd.Flags().StringVarP(&opts.since, "since", "s", "", "Count only the problems more recent than this time")
	cmd.Flags().BoolVarP(&opts.nonReported, "non-reported", "n", false, "Count only non-reported problems")
	cmd.Flags().BoolVarP(&opts.auth, "auth", "a", false, "Count all problems on this machine, not only your own")
	return cmd
}

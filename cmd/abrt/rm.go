package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/resolver"
	"github.com/abrt/abrt-cli/internal/storage"
)

func newRmCmd(a *app) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:     "rm [MATCH]",
		Aliases: []string{"remove"},
		GroupID: "problems",
		Short:   "Remove a problem",
		Long: `Remove a problem.

The problem is printed before removal. Removing "last" always asks for
confirmation.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeMatch,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := matchArg(args)
			out := cmd.OutOrStdout()
			p, err := a.getProblem(a.context(), out, token)
			if err != nil {
				return err
			}

			formatter, err := newProblemFormatter(prettyFull, "")
			if err != nil {
				return err
			}
			s, err := formatter.Format(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)

			if token == resolver.LastToken {
				interactive = true
			}
			if interactive {
				ok, err := a.confirm("Are you sure you want to delete this problem?", true)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			if err := a.store.DeleteProblem(a.context(), p); err != nil {
				if errors.Is(err, storage.ErrLocked) {
					return fmt.Errorf("problem %s is being processed, try again later: %w", p.MatchString(), err)
				}
				return fmt.Errorf("removing %s: %w", p.MatchString(), err)
			}
			fmt.Fprintln(out, "\nRemoved")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt before removal")
	return cmd
}
